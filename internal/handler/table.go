package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/billiard-club-pos/internal/model"
	"github.com/iliyamo/billiard-club-pos/internal/pricing"
	"github.com/iliyamo/billiard-club-pos/internal/repository"
)

// TableHandler serves the live table lifecycle: the status board, starting
// a session and settling it.  Start and settle run inside transactions with
// row locks so two concurrent starts on one table, or two settles of one
// session, cannot both succeed.
type TableHandler struct {
	TableRepo     *repository.TableRepo
	RentalRepo    *repository.RentalRepo
	CustomerRepo  *repository.CustomerRepo
	AccessoryRepo *repository.AccessoryRepo
	InvoiceRepo   *repository.InvoiceRepo
	BankRepo      *repository.BankInfoRepo
	Tariff        pricing.Tariff
}

// NewTableHandler constructs a TableHandler.  All repositories must be
// non-nil.
func NewTableHandler(tableRepo *repository.TableRepo, rentalRepo *repository.RentalRepo, customerRepo *repository.CustomerRepo, accessoryRepo *repository.AccessoryRepo, invoiceRepo *repository.InvoiceRepo, bankRepo *repository.BankInfoRepo, tariff pricing.Tariff) *TableHandler {
	if tableRepo == nil || rentalRepo == nil || customerRepo == nil || accessoryRepo == nil || invoiceRepo == nil || bankRepo == nil {
		panic("nil repository passed to NewTableHandler")
	}
	return &TableHandler{
		TableRepo:     tableRepo,
		RentalRepo:    rentalRepo,
		CustomerRepo:  customerRepo,
		AccessoryRepo: accessoryRepo,
		InvoiceRepo:   invoiceRepo,
		BankRepo:      bankRepo,
		Tariff:        tariff,
	}
}

// Status handles GET /v1/tables/status.  It returns every table with its
// derived occupancy and, for occupied tables, the open rental with the
// customer and accessory lines.
func (h *TableHandler) Status(c echo.Context) error {
	ctx := c.Request().Context()
	tables, err := h.TableRepo.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tables"})
	}
	open, err := h.RentalRepo.ListOpen(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load rentals"})
	}
	byTable := make(map[uint64]*repository.OpenRentalDetail, len(open))
	for i := range open {
		byTable[open[i].TableID] = &open[i]
	}
	items := make([]echo.Map, 0, len(tables))
	for _, t := range tables {
		item := echo.Map{
			"id":     t.ID,
			"code":   t.Code,
			"name":   t.Name,
			"status": "free",
			"rental": nil,
		}
		if d, ok := byTable[t.ID]; ok {
			item["status"] = "occupied"
			item["rental"] = d
		}
		items = append(items, item)
	}
	return c.JSON(http.StatusOK, items)
}

// StartShort handles POST /v1/tables/:tableId/start-short.  It opens a
// time-based session on the table for the resolved (or freshly
// provisioned) customer and snapshots the requested accessory lines at
// current catalog prices.  The occupancy check runs under a row lock in
// the same transaction as the insert, so two concurrent starts on one
// table cannot both succeed.
func (h *TableHandler) StartShort(c echo.Context) error {
	tableID, err := pathID(c, "tableId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	var body struct {
		CustomerID   uint64 `json:"customerId"`
		CustomerCode string `json:"customerCode"`
		Accessories  []struct {
			AccessoryID uint64 `json:"accessoryId"`
			Quantity    int    `json:"quantity"`
		} `json:"accessories"`
		Discount float64 `json:"discount"`
		Note     *string `json:"note"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()

	table, err := h.TableRepo.GetByID(ctx, tableID)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	customer, err := resolveCustomer(ctx, h.CustomerRepo, body.CustomerID, body.CustomerCode)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve customer"})
	}

	// Resolve catalog prices before opening the transaction.
	ids := make([]uint64, 0, len(body.Accessories))
	for _, a := range body.Accessories {
		if a.AccessoryID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid accessory id"})
		}
		ids = append(ids, a.AccessoryID)
	}
	catalog, err := h.AccessoryRepo.GetByIDs(ctx, ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load accessories"})
	}
	for _, id := range ids {
		if _, ok := catalog[id]; !ok {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Accessory not found"})
		}
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

	if err := h.RentalRepo.EnsureTableFreeTx(ctx, tx, tableID); err != nil {
		if errors.Is(err, repository.ErrTableOccupied) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Table is occupied"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check table"})
	}

	rent := &model.Rental{
		Type:       model.RentalTypeShort,
		CustomerID: customer.ID,
		TableID:    &table.ID,
		StartAt:    time.Now().UTC(),
		Discount:   body.Discount,
		Note:       body.Note,
	}
	if err := h.RentalRepo.CreateTx(ctx, tx, rent); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create rental"})
	}

	lines := make([]model.RentalAccessory, 0, len(body.Accessories))
	for _, a := range body.Accessories {
		qty := a.Quantity
		if qty <= 0 {
			qty = 1
		}
		item := catalog[a.AccessoryID]
		line := model.RentalAccessory{
			RentalID:    rent.ID,
			AccessoryID: item.ID,
			Quantity:    qty,
			UnitPrice:   item.Price,
			TotalPrice:  item.Price * float64(qty),
		}
		if err := h.RentalRepo.CreateAccessoryTx(ctx, tx, &line); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create accessory line"})
		}
		lines = append(lines, line)
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusCreated, echo.Map{
		"rental":      rent,
		"accessories": lines,
		"message":     "Rental started - will calculate cost on settle",
	})
}

// Settle handles POST /v1/tables/:tableId/settle.  It runs the whole
// settlement in one transaction: lock the open rental and the customer
// row, compute the breakdown, debit the balance, close the rental and
// write the invoice snapshot.  A package bought during the session rides
// on this invoice.  Settling a table twice yields 404 on the second call
// because the rental is no longer open.
func (h *TableHandler) Settle(c echo.Context) error {
	tableID, err := pathID(c, "tableId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	var body struct {
		Discount *float64 `json:"discount"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()

	table, err := h.TableRepo.GetByID(ctx, tableID)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
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

	rent, err := h.RentalRepo.OpenByTableTx(ctx, tx, tableID)
	if err != nil {
		if errors.Is(err, repository.ErrNoActiveRental) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "No active rental"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load rental"})
	}

	customer, err := h.CustomerRepo.GetForUpdateTx(ctx, tx, rent.CustomerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load customer"})
	}

	rawLines, err := h.RentalRepo.AccessoryLinesTx(ctx, tx, rent.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load accessories"})
	}
	accLines := make([]pricing.AccessoryLine, 0, len(rawLines))
	for _, l := range rawLines {
		accLines = append(accLines, pricing.AccessoryLine{
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Total:     l.TotalPrice,
		})
	}

	// A package bought mid-session carries no invoice of its own; fold its
	// price into this one.
	var pkgInfo *pricing.PackageInfo
	pkgTotal := 0.0
	if pp, err := h.RentalRepo.LatestPackagePurchaseTx(ctx, tx, customer.ID, rent.StartAt); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load package purchase"})
	} else if pp != nil {
		pkgInfo = &pricing.PackageInfo{
			Name:       pp.Package.Name,
			TotalHours: pp.Package.TotalHours,
			BonusHours: pp.Package.BonusHours,
			Price:      pp.TotalAmount,
		}
		pkgTotal = pp.TotalAmount
	}

	discount := rent.Discount
	if body.Discount != nil {
		discount = *body.Discount
	}

	endAt := time.Now().UTC()
	breakdown := pricing.Settle(pricing.Input{
		StartAt:          rent.StartAt,
		EndAt:            endAt,
		RemainingMinutes: customer.RemainingMinutes,
		Accessories:      accLines,
		Package:          pkgInfo,
		PackageTotal:     pkgTotal,
		Discount:         discount,
		Tariff:           h.Tariff,
	})

	if err := h.CustomerRepo.SetRemainingMinutesTx(ctx, tx, customer.ID, breakdown.RemainingMinutes); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update balance"})
	}
	if err := h.RentalRepo.CloseTx(ctx, tx, rent.ID, endAt, breakdown.Hours, breakdown.Minutes, breakdown.Total); err != nil {
		if errors.Is(err, repository.ErrNoActiveRental) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "No active rental"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to close rental"})
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
		RentalStartAt:    &rent.StartAt,
		RentalEndAt:      &endAt,
		RentalMinutes:    breakdown.Minutes,
		RentalType:       rent.Type,
		TableName:        table.Name,
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

	// Reflect the close on the returned record.
	rent.EndAt = &endAt
	rent.Hours = breakdown.Hours
	rent.Minutes = breakdown.Minutes
	rent.TotalAmount = breakdown.Total

	bank, err := h.BankRepo.Get(ctx)
	if err != nil {
		bank = nil
	}
	return c.JSON(http.StatusOK, echo.Map{
		"rental":    rent,
		"invoice":   inv,
		"breakdown": breakdown,
		"bank":      bank,
	})
}
