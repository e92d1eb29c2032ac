// Package handler contains the Echo HTTP handlers of the billiard club POS.
// Handlers bind anonymous request structs, run multi-step mutations inside a
// single transaction and answer echo.Map JSON bodies.  Repository sentinel
// errors are mapped to HTTP statuses here.
package handler

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/billiard-club-pos/internal/model"
	"github.com/iliyamo/billiard-club-pos/internal/queue"
	"github.com/iliyamo/billiard-club-pos/internal/repository"
	queue_publisher "github.com/iliyamo/billiard-club-pos/internal/service"
)

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// newInvoiceCode generates a unique invoice code from the current time.
func newInvoiceCode() string {
	return fmt.Sprintf("INV-%d", time.Now().UnixMilli())
}

// newCustomerCode generates a customer code for records created through the
// customers endpoint.  Auto-provisioned walk-ins use the shorter form built
// in resolveCustomer.
func newCustomerCode() string {
	return fmt.Sprintf("KH%d%06d", time.Now().UnixMilli(), rand.Intn(1000000))
}

// resolveCustomer finds the customer a request refers to.  A positive id
// wins over a code.  Walk-ins never fail here: an unknown id gets a fresh
// customer with a generated code, an unknown code gets a customer created
// under that code (the code doubles as the name), and with neither present
// a placeholder customer is provisioned, so every rental and invoice
// always has an owner.
func resolveCustomer(ctx context.Context, repo *repository.CustomerRepo, id uint64, code string) (*model.Customer, error) {
	if id > 0 {
		customer, err := repo.GetByID(ctx, id)
		if !errors.Is(err, repository.ErrCustomerNotFound) {
			return customer, err
		}
		return provisionCustomer(ctx, repo)
	}
	if code != "" {
		customer, err := repo.GetByCode(ctx, code)
		if !errors.Is(err, repository.ErrCustomerNotFound) {
			return customer, err
		}
		return repo.Create(ctx, code, code, nil)
	}
	return provisionCustomer(ctx, repo)
}

func provisionCustomer(ctx context.Context, repo *repository.CustomerRepo) (*model.Customer, error) {
	now := time.Now().UnixMilli()
	return repo.Create(ctx, fmt.Sprintf("KH%d", now), fmt.Sprintf("Khách %d", now), nil)
}

// publishInvoiceIssued fires the invoice.issued event in the background.
// Publishing happens only after the commit and must never delay or fail the
// HTTP response, so the error is deliberately dropped here; the publisher
// already logs it.
func publishInvoiceIssued(inv *model.Invoice) {
	ev := queue.InvoiceIssuedEvent{
		EventID:          queue.NewEventID(),
		InvoiceID:        inv.ID,
		InvoiceCode:      inv.Code,
		CustomerID:       inv.CustomerID,
		CustomerName:     inv.CustomerName,
		CustomerCode:     inv.CustomerCode,
		TableName:        inv.TableName,
		RentalType:       inv.RentalType,
		RentalMinutes:    inv.RentalMinutes,
		Subtotal:         inv.Subtotal,
		Discount:         inv.Discount,
		Total:            inv.Total,
		RemainingMinutes: inv.RemainingMinutes,
		IssuedAt:         time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishInvoiceIssued(ctx, ev)
	}()
}
