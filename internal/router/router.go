// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/billiard-club-pos/internal/handler"
)

// RegisterRoutes registers the health check on the provided Echo instance.
// This endpoint can be used by load balancers or monitoring systems to
// verify that the service is up and running.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterTables registers the live table lifecycle under /v1/tables.  The
// cache middleware, when enabled, serves the status board from Redis.
func RegisterTables(e *echo.Echo, t *handler.TableHandler, cache echo.MiddlewareFunc) {
	e.GET("/v1/tables/status", t.Status, cache)
	e.POST("/v1/tables/:tableId/start-short", t.StartShort)
	e.POST("/v1/tables/:tableId/settle", t.Settle)
}

// RegisterOrders registers the table-less sales endpoints under /v1/orders.
func RegisterOrders(e *echo.Echo, o *handler.OrderHandler) {
	g := e.Group("/v1/orders")
	g.POST("/short-rental", o.ShortRental)
	g.POST("/purchase-package", o.PurchasePackage)
	g.POST("/purchase-package-only", o.PurchasePackageOnly)
	g.POST("/manual-invoice", o.ManualInvoice)
}

// RegisterPricing registers the read-only price previews under /v1/pricing.
func RegisterPricing(e *echo.Echo, p *handler.PricingHandler) {
	e.POST("/v1/pricing/calculate", p.Calculate)
	e.POST("/v1/pricing/calculate-rental", p.CalculateRental)
}

// RegisterCatalog registers the reference-data reads.  List endpoints go
// through the response cache when it is enabled.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	// Customer reads stay uncached: balances change on every settle.
	e.GET("/v1/customers", h.ListCustomers)
	e.GET("/v1/customers/:id", h.GetCustomer)
	e.POST("/v1/customers", h.CreateCustomer)
	e.GET("/v1/accessories", h.ListAccessories, cache)
	e.GET("/v1/packages", h.ListPackages, cache)
	e.GET("/v1/pricing/tiers", h.ListTiers, cache)
	e.GET("/v1/invoices", h.ListInvoices)
	e.GET("/v1/invoices/:id", h.GetInvoice)
	e.GET("/v1/bank-info", h.GetBankInfo, cache)
}
