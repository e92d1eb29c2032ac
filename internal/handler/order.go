package handler

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/billiard-club-pos/internal/model"
	"github.com/iliyamo/billiard-club-pos/internal/pricing"
	"github.com/iliyamo/billiard-club-pos/internal/repository"
)

// OrderHandler serves table-less sales: immediate hour-block rentals,
// prepaid package purchases and back-dated manual invoices.  Each mutation
// runs in a single transaction with the customer row locked while the
// balance changes.
type OrderHandler struct {
	CustomerRepo  *repository.CustomerRepo
	RentalRepo    *repository.RentalRepo
	PackageRepo   *repository.PackageRepo
	AccessoryRepo *repository.AccessoryRepo
	PricingRepo   *repository.PricingRepo
	InvoiceRepo   *repository.InvoiceRepo
	BankRepo      *repository.BankInfoRepo
	Tariff        pricing.Tariff
}

// NewOrderHandler constructs an OrderHandler.  All repositories must be
// non-nil.
func NewOrderHandler(customerRepo *repository.CustomerRepo, rentalRepo *repository.RentalRepo, packageRepo *repository.PackageRepo, accessoryRepo *repository.AccessoryRepo, pricingRepo *repository.PricingRepo, invoiceRepo *repository.InvoiceRepo, bankRepo *repository.BankInfoRepo, tariff pricing.Tariff) *OrderHandler {
	if customerRepo == nil || rentalRepo == nil || packageRepo == nil || accessoryRepo == nil || pricingRepo == nil || invoiceRepo == nil || bankRepo == nil {
		panic("nil repository passed to NewOrderHandler")
	}
	return &OrderHandler{
		CustomerRepo:  customerRepo,
		RentalRepo:    rentalRepo,
		PackageRepo:   packageRepo,
		AccessoryRepo: accessoryRepo,
		PricingRepo:   pricingRepo,
		InvoiceRepo:   invoiceRepo,
		BankRepo:      bankRepo,
		Tariff:        tariff,
	}
}

type orderAccessory struct {
	AccessoryID uint64   `json:"accessoryId"`
	Quantity    int      `json:"quantity"`
	UnitPrice   *float64 `json:"unitPrice"`
}

// priceAccessories resolves the requested accessories against the catalog
// and returns priced lines plus their total.  A line's unit price may be
// overridden by the request; otherwise the catalog price is snapshotted.
func (h *OrderHandler) priceAccessories(c echo.Context, reqs []orderAccessory) ([]pricing.AccessoryLine, []model.RentalAccessory, float64, error) {
	ids := make([]uint64, 0, len(reqs))
	for _, a := range reqs {
		ids = append(ids, a.AccessoryID)
	}
	catalog, err := h.AccessoryRepo.GetByIDs(c.Request().Context(), ids)
	if err != nil {
		return nil, nil, 0, err
	}
	lines := make([]pricing.AccessoryLine, 0, len(reqs))
	records := make([]model.RentalAccessory, 0, len(reqs))
	total := 0.0
	for _, a := range reqs {
		item, ok := catalog[a.AccessoryID]
		if !ok {
			return nil, nil, 0, repository.ErrAccessoryNotFound
		}
		qty := a.Quantity
		if qty <= 0 {
			qty = 1
		}
		unit := item.Price
		if a.UnitPrice != nil {
			unit = *a.UnitPrice
		}
		lineTotal := unit * float64(qty)
		total += lineTotal
		lines = append(lines, pricing.AccessoryLine{Name: item.Name, Quantity: qty, UnitPrice: unit, Total: lineTotal})
		records = append(records, model.RentalAccessory{AccessoryID: item.ID, Quantity: qty, UnitPrice: unit, TotalPrice: lineTotal})
	}
	return lines, records, total, nil
}

// ShortRental handles POST /v1/orders/short-rental.  It sells a fixed
// block of hours priced by the configurable tier table and issues the
// invoice immediately; the rental is created already closed.
func (h *OrderHandler) ShortRental(c echo.Context) error {
	var body struct {
		CustomerID     uint64           `json:"customerId"`
		CustomerCode   string           `json:"customerCode"`
		ShortTermHours float64          `json:"shortTermHours"`
		Accessories    []orderAccessory `json:"accessories"`
		Discount       float64          `json:"discount"`
		Note           *string          `json:"note"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ShortTermHours <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "shortTermHours is required"})
	}
	ctx := c.Request().Context()

	customer, err := resolveCustomer(ctx, h.CustomerRepo, body.CustomerID, body.CustomerCode)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve customer"})
	}

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
	rentalCost := math.Round(body.ShortTermHours * rate.PricePerHour)

	accLines, accRecords, accessoriesTotal, err := h.priceAccessories(c, body.Accessories)
	if err != nil {
		if errors.Is(err, repository.ErrAccessoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Accessory not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load accessories"})
	}

	subtotal := rentalCost + accessoriesTotal
	discount := pricing.ClampDiscount(body.Discount, subtotal)
	total := subtotal - discount

	tx, err := h.RentalRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	endAt := now.Add(time.Duration(body.ShortTermHours * float64(time.Hour)))
	rent := &model.Rental{
		Type:        model.RentalTypeShort,
		CustomerID:  customer.ID,
		StartAt:     now,
		EndAt:       &endAt,
		Hours:       body.ShortTermHours,
		Minutes:     int(math.Ceil(body.ShortTermHours * 60)),
		TotalAmount: total,
		Discount:    discount,
		Note:        body.Note,
	}
	if err := h.RentalRepo.CreateTx(ctx, tx, rent); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create rental"})
	}
	for i := range accRecords {
		accRecords[i].RentalID = rent.ID
		if err := h.RentalRepo.CreateAccessoryTx(ctx, tx, &accRecords[i]); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create accessory line"})
		}
	}

	breakdown := echo.Map{
		"rentalCost":       rentalCost,
		"accessories":      accLines,
		"accessoriesTotal": accessoriesTotal,
		"subtotal":         subtotal,
		"discount":         discount,
		"total":            total,
	}
	details, err := json.Marshal(breakdown)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to encode breakdown"})
	}
	phone := ""
	if customer.Phone != nil {
		phone = *customer.Phone
	}
	inv := &model.Invoice{
		Code:             newInvoiceCode(),
		CustomerID:       customer.ID,
		CustomerName:     customer.Name,
		CustomerPhone:    phone,
		CustomerCode:     customer.CustomerCode,
		RentalID:         rent.ID,
		Subtotal:         subtotal,
		Discount:         discount,
		Total:            total,
		Status:           model.InvoiceStatusUnpaid,
		ServiceDetails:   details,
		RentalStartAt:    &now,
		RentalEndAt:      &endAt,
		RentalMinutes:    rent.Minutes,
		RentalType:       model.RentalTypeShort,
		TableName:        "",
		RemainingMinutes: customer.RemainingMinutes,
	}
	if err := h.InvoiceRepo.CreateTx(ctx, tx, inv); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create invoice"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	publishInvoiceIssued(inv)
	return c.JSON(http.StatusCreated, echo.Map{
		"rental":    rent,
		"invoice":   inv,
		"breakdown": breakdown,
	})
}

// PurchasePackage handles POST /v1/orders/purchase-package.  It credits
// the package minutes (bonus included), records the purchase as a closed
// package rental with an empty time span, and issues the invoice for the
// discounted price right away.
func (h *OrderHandler) PurchasePackage(c echo.Context) error {
	return h.purchasePackage(c, true)
}

// PurchasePackageOnly handles POST /v1/orders/purchase-package-only.  Same
// credit and audit rental as PurchasePackage, but no invoice: the package
// price rides on the invoice of the session settle instead.
func (h *OrderHandler) PurchasePackageOnly(c echo.Context) error {
	return h.purchasePackage(c, false)
}

func (h *OrderHandler) purchasePackage(c echo.Context, withInvoice bool) error {
	var body struct {
		CustomerID   uint64  `json:"customerId"`
		CustomerCode string  `json:"customerCode"`
		PackageID    uint64  `json:"packageId"`
		Discount     float64 `json:"discount"`
		Note         *string `json:"note"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.PackageID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "packageId is required"})
	}
	ctx := c.Request().Context()

	customer, err := resolveCustomer(ctx, h.CustomerRepo, body.CustomerID, body.CustomerCode)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve customer"})
	}

	pkg, err := h.PackageRepo.GetByID(ctx, body.PackageID)
	if err != nil {
		if errors.Is(err, repository.ErrPackageNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Package not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	subtotal := pkg.Price
	discount := 0.0
	if withInvoice {
		discount = pricing.ClampDiscount(body.Discount, subtotal)
	}
	total := subtotal - discount
	addMinutes := pkg.CreditMinutes()

	tx, err := h.RentalRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := h.CustomerRepo.GetForUpdateTx(ctx, tx, customer.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to lock customer"})
	}
	newRemaining, err := h.CustomerRepo.CreditMinutesTx(ctx, tx, customer.ID, addMinutes)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to credit balance"})
	}

	// The purchase is immediate: the rental exists as an audit record with
	// no time span.
	now := time.Now().UTC()
	rent := &model.Rental{
		Type:        model.RentalTypePackage,
		CustomerID:  customer.ID,
		PackageID:   &pkg.ID,
		StartAt:     now,
		EndAt:       &now,
		Hours:       float64(pkg.TotalHours),
		Minutes:     addMinutes,
		TotalAmount: total,
		Discount:    discount,
		Note:        body.Note,
	}
	if err := h.RentalRepo.CreateTx(ctx, tx, rent); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create rental"})
	}

	var inv *model.Invoice
	if withInvoice {
		details, err := json.Marshal(echo.Map{
			"package": pricing.PackageInfo{
				Name:       pkg.Name,
				TotalHours: pkg.TotalHours,
				BonusHours: pkg.BonusHours,
				Price:      pkg.Price,
			},
			"accessories": []pricing.AccessoryLine{},
			"pricing": echo.Map{
				"rentalCost":       0,
				"accessoriesTotal": 0,
				"subtotal":         subtotal,
				"discount":         discount,
				"total":            total,
			},
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to encode breakdown"})
		}
		phone := ""
		if customer.Phone != nil {
			phone = *customer.Phone
		}
		inv = &model.Invoice{
			Code:             newInvoiceCode(),
			CustomerID:       customer.ID,
			CustomerName:     customer.Name,
			CustomerPhone:    phone,
			CustomerCode:     customer.CustomerCode,
			RentalID:         rent.ID,
			Subtotal:         subtotal,
			Discount:         discount,
			Total:            total,
			Status:           model.InvoiceStatusUnpaid,
			ServiceDetails:   details,
			RentalStartAt:    &now,
			RentalEndAt:      &now,
			RentalMinutes:    addMinutes,
			RentalType:       model.RentalTypePackage,
			TableName:        "Mua gói",
			RemainingMinutes: newRemaining,
		}
		if err := h.InvoiceRepo.CreateTx(ctx, tx, inv); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create invoice"})
		}
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	if inv != nil {
		publishInvoiceIssued(inv)
		return c.JSON(http.StatusCreated, echo.Map{
			"rental":           rent,
			"invoice":          inv,
			"remainingMinutes": newRemaining,
		})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"rental":           rent,
		"package":          pkg,
		"remainingMinutes": newRemaining,
		"message":          "Package purchased successfully - invoice will be created on settle",
	})
}

// ManualInvoice handles POST /v1/orders/manual-invoice.  It bills an
// explicit past time span with the same settlement math as a live table,
// debiting the customer balance and issuing the invoice in one
// transaction.  Unlike the other order endpoints the customer must already
// exist.
func (h *OrderHandler) ManualInvoice(c echo.Context) error {
	var body struct {
		CustomerID  uint64           `json:"customerId"`
		StartAt     string           `json:"startAt"`
		EndAt       string           `json:"endAt"`
		Discount    float64          `json:"discount"`
		Accessories []orderAccessory `json:"accessories"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.CustomerID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customerId required"})
	}
	if body.StartAt == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "startAt required"})
	}
	if body.EndAt == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "endAt required"})
	}
	startAt, err := time.Parse(time.RFC3339, body.StartAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid startAt"})
	}
	endAt, err := time.Parse(time.RFC3339, body.EndAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid endAt"})
	}
	if !endAt.After(startAt) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "endAt must be after startAt"})
	}
	ctx := c.Request().Context()

	accLines, accRecords, _, err := h.priceAccessories(c, body.Accessories)
	if err != nil {
		if errors.Is(err, repository.ErrAccessoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Accessory not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load accessories"})
	}

	tx, err := h.RentalRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	customer, err := h.CustomerRepo.GetForUpdateTx(ctx, tx, body.CustomerID)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load customer"})
	}

	breakdown := pricing.Settle(pricing.Input{
		StartAt:          startAt,
		EndAt:            endAt,
		RemainingMinutes: customer.RemainingMinutes,
		Accessories:      accLines,
		Discount:         body.Discount,
		Tariff:           h.Tariff,
	})

	if err := h.CustomerRepo.SetRemainingMinutesTx(ctx, tx, customer.ID, breakdown.RemainingMinutes); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update balance"})
	}

	rent := &model.Rental{
		Type:        model.RentalTypeShort,
		CustomerID:  customer.ID,
		StartAt:     startAt,
		EndAt:       &endAt,
		Hours:       breakdown.Hours,
		Minutes:     breakdown.Minutes,
		TotalAmount: breakdown.Total,
		Discount:    breakdown.Discount,
	}
	if err := h.RentalRepo.CreateTx(ctx, tx, rent); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create rental"})
	}
	for i := range accRecords {
		accRecords[i].RentalID = rent.ID
		if err := h.RentalRepo.CreateAccessoryTx(ctx, tx, &accRecords[i]); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create accessory line"})
		}
	}

	details, err := json.Marshal(breakdown)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to encode breakdown"})
	}
	phone := ""
	if customer.Phone != nil {
		phone = *customer.Phone
	}
	inv := &model.Invoice{
		Code:             newInvoiceCode(),
		CustomerID:       customer.ID,
		CustomerName:     customer.Name,
		CustomerPhone:    phone,
		CustomerCode:     customer.CustomerCode,
		RentalID:         rent.ID,
		Subtotal:         breakdown.Subtotal,
		Discount:         breakdown.Discount,
		Total:            breakdown.Total,
		Status:           model.InvoiceStatusUnpaid,
		ServiceDetails:   details,
		RentalStartAt:    &startAt,
		RentalEndAt:      &endAt,
		RentalMinutes:    breakdown.Minutes,
		RentalType:       model.RentalTypeShort,
		TableName:        "Thủ công",
		RemainingMinutes: breakdown.RemainingMinutes,
	}
	if err := h.InvoiceRepo.CreateTx(ctx, tx, inv); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create invoice"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	publishInvoiceIssued(inv)

	bank, err := h.BankRepo.Get(ctx)
	if err != nil {
		bank = nil
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"rental":    rent,
		"invoice":   inv,
		"breakdown": breakdown,
		"bank":      bank,
	})
}
