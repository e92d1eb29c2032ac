package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/billiard-club-pos/internal/repository"
)

// CatalogHandler serves the read-mostly reference data: customers,
// accessories, packages, pricing tiers, issued invoices and the club's
// bank details.
type CatalogHandler struct {
	CustomerRepo  *repository.CustomerRepo
	AccessoryRepo *repository.AccessoryRepo
	PackageRepo   *repository.PackageRepo
	PricingRepo   *repository.PricingRepo
	InvoiceRepo   *repository.InvoiceRepo
	BankRepo      *repository.BankInfoRepo
}

// NewCatalogHandler constructs a CatalogHandler.  All repositories must be
// non-nil.
func NewCatalogHandler(customerRepo *repository.CustomerRepo, accessoryRepo *repository.AccessoryRepo, packageRepo *repository.PackageRepo, pricingRepo *repository.PricingRepo, invoiceRepo *repository.InvoiceRepo, bankRepo *repository.BankInfoRepo) *CatalogHandler {
	if customerRepo == nil || accessoryRepo == nil || packageRepo == nil || pricingRepo == nil || invoiceRepo == nil || bankRepo == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{
		CustomerRepo:  customerRepo,
		AccessoryRepo: accessoryRepo,
		PackageRepo:   packageRepo,
		PricingRepo:   pricingRepo,
		InvoiceRepo:   invoiceRepo,
		BankRepo:      bankRepo,
	}
}

// ListCustomers handles GET /v1/customers.
func (h *CatalogHandler) ListCustomers(c echo.Context) error {
	items, err := h.CustomerRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load customers"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetCustomer handles GET /v1/customers/:id.
func (h *CatalogHandler) GetCustomer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}
	customer, err := h.CustomerRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": customer})
}

// CreateCustomer handles POST /v1/customers.  A missing customerCode is
// generated so the code stays unique without client coordination.
func (h *CatalogHandler) CreateCustomer(c echo.Context) error {
	var body struct {
		CustomerCode string  `json:"customerCode"`
		Name         string  `json:"name"`
		Phone        *string `json:"phone"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	code := body.CustomerCode
	if code == "" {
		code = newCustomerCode()
	}
	customer, err := h.CustomerRepo.Create(c.Request().Context(), code, body.Name, body.Phone)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create customer"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": customer})
}

// ListAccessories handles GET /v1/accessories.
func (h *CatalogHandler) ListAccessories(c echo.Context) error {
	items, err := h.AccessoryRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load accessories"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListPackages handles GET /v1/packages.
func (h *CatalogHandler) ListPackages(c echo.Context) error {
	items, err := h.PackageRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load packages"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListTiers handles GET /v1/pricing/tiers.
func (h *CatalogHandler) ListTiers(c echo.Context) error {
	items, err := h.PricingRepo.ListTiers(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load pricing"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListInvoices handles GET /v1/invoices.
func (h *CatalogHandler) ListInvoices(c echo.Context) error {
	items, err := h.InvoiceRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load invoices"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetInvoice handles GET /v1/invoices/:id.
func (h *CatalogHandler) GetInvoice(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid invoice id"})
	}
	inv, err := h.InvoiceRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrInvoiceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Invoice not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": inv})
}

// GetBankInfo handles GET /v1/bank-info.
func (h *CatalogHandler) GetBankInfo(c echo.Context) error {
	bank, err := h.BankRepo.Get(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bank info"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": bank})
}
