package handler

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/billiard-club-pos/internal/model"
	"github.com/iliyamo/billiard-club-pos/internal/pricing"
	"github.com/iliyamo/billiard-club-pos/internal/repository"
)

// PricingHandler serves the read-only price previews.  Neither endpoint
// mutates anything; the staff use them to quote a price before committing
// to a sale or a settle.
type PricingHandler struct {
	CustomerRepo  *repository.CustomerRepo
	RentalRepo    *repository.RentalRepo
	PackageRepo   *repository.PackageRepo
	AccessoryRepo *repository.AccessoryRepo
	PricingRepo   *repository.PricingRepo
}

// NewPricingHandler constructs a PricingHandler.  All repositories must be
// non-nil.
func NewPricingHandler(customerRepo *repository.CustomerRepo, rentalRepo *repository.RentalRepo, packageRepo *repository.PackageRepo, accessoryRepo *repository.AccessoryRepo, pricingRepo *repository.PricingRepo) *PricingHandler {
	if customerRepo == nil || rentalRepo == nil || packageRepo == nil || accessoryRepo == nil || pricingRepo == nil {
		panic("nil repository passed to NewPricingHandler")
	}
	return &PricingHandler{
		CustomerRepo:  customerRepo,
		RentalRepo:    rentalRepo,
		PackageRepo:   packageRepo,
		AccessoryRepo: accessoryRepo,
		PricingRepo:   pricingRepo,
	}
}

// Calculate handles POST /v1/pricing/calculate.  It quotes either a fixed
// hour block (priced by the tier table) or a package, plus accessories,
// with the discount clamped to the subtotal.  Unlike settlement, this
// preview never produces a negative total.
func (h *PricingHandler) Calculate(c echo.Context) error {
	var body struct {
		Type           string  `json:"type"`
		PackageID      uint64  `json:"packageId"`
		ShortTermHours float64 `json:"shortTermHours"`
		Accessories    []struct {
			AccessoryID uint64 `json:"accessoryId"`
			Quantity    int    `json:"quantity"`
		} `json:"accessories"`
		Discount float64 `json:"discount"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()

	rentalCost := 0.0
	bonusHours := 0
	var pkg *model.Package

	switch body.Type {
	case "short":
		tiers, err := h.PricingRepo.ListTiers(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load pricing"})
		}
		var rate *model.PricingTier
		for i := range tiers {
			if tiers[i].Matches(body.ShortTermHours) {
				rate = &tiers[i]
				break
			}
		}
		if rate == nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "No applicable short-term rate"})
		}
		rentalCost = math.Round(body.ShortTermHours * rate.PricePerHour)
	case "package":
		if body.PackageID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "packageId is required"})
		}
		p, err := h.PackageRepo.GetByID(ctx, body.PackageID)
		if err != nil {
			if errors.Is(err, repository.ErrPackageNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "Package not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		pkg = p
		rentalCost = p.Price
		bonusHours = p.BonusHours
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid type"})
	}

	accessoriesTotal := 0.0
	if len(body.Accessories) > 0 {
		ids := make([]uint64, 0, len(body.Accessories))
		for _, a := range body.Accessories {
			ids = append(ids, a.AccessoryID)
		}
		catalog, err := h.AccessoryRepo.GetByIDs(ctx, ids)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load accessories"})
		}
		for _, a := range body.Accessories {
			qty := a.Quantity
			if qty <= 0 {
				qty = 1
			}
			if item, ok := catalog[a.AccessoryID]; ok {
				accessoriesTotal += item.Price * float64(qty)
			}
		}
	}

	subtotal := rentalCost + accessoriesTotal
	discount := pricing.ClampDiscount(body.Discount, subtotal)
	total := subtotal - discount

	return c.JSON(http.StatusOK, echo.Map{
		"type":             body.Type,
		"rentalCost":       rentalCost,
		"bonusHours":       bonusHours,
		"accessoriesTotal": accessoriesTotal,
		"subtotal":         subtotal,
		"discount":         discount,
		"total":            total,
		"package":          pkg,
	})
}

// CalculateRental handles POST /v1/pricing/calculate-rental.  It previews
// the cost of a running rental at hour granularity: elapsed time rounds up
// to whole hours and the paid block is priced by the coarse hourly table.
// The balance is consumed in whole hours for the preview only; nothing is
// written.
func (h *PricingHandler) CalculateRental(c echo.Context) error {
	var body struct {
		CustomerID uint64 `json:"customerId"`
		RentalID   uint64 `json:"rentalId"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.CustomerID == 0 || body.RentalID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customerId and rentalId are required"})
	}
	ctx := c.Request().Context()

	customer, err := h.CustomerRepo.GetByID(ctx, body.CustomerID)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	rent, err := h.RentalRepo.GetByID(ctx, body.RentalID)
	if err != nil {
		if errors.Is(err, repository.ErrRentalNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Rental not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	actualHours := pricing.ElapsedWholeHours(time.Since(rent.StartAt))
	remainingHours := customer.RemainingMinutes / 60

	var usedPackageHours, paidHours int
	if actualHours <= remainingHours {
		usedPackageHours = actualHours
	} else {
		usedPackageHours = remainingHours
		paidHours = actualHours - remainingHours
	}
	hourlyRate := pricing.LegacyHourlyRate(paidHours)
	rentalCost := float64(paidHours) * hourlyRate

	lines, err := h.RentalRepo.AccessoryLines(ctx, rent.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load accessories"})
	}
	accessoriesTotal := 0.0
	accList := make([]pricing.AccessoryLine, 0, len(lines))
	for _, l := range lines {
		total := l.TotalPrice
		if total == 0 {
			total = l.UnitPrice * float64(l.Quantity)
		}
		accessoriesTotal += total
		accList = append(accList, pricing.AccessoryLine{Name: l.Name, Quantity: l.Quantity, UnitPrice: l.UnitPrice, Total: total})
	}

	subtotal := rentalCost + accessoriesTotal
	return c.JSON(http.StatusOK, echo.Map{
		"hours":            actualHours,
		"remainingHours":   remainingHours,
		"usedPackageHours": usedPackageHours,
		"paidHours":        paidHours,
		"hourlyRate":       hourlyRate,
		"rentalCost":       rentalCost,
		"accessoriesTotal": accessoriesTotal,
		"subtotal":         subtotal,
		"accessories":      accList,
		"customer": echo.Map{
			"id":             customer.ID,
			"name":           customer.Name,
			"remainingHours": remainingHours,
		},
	})
}
