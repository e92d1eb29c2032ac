package model

import (
	"encoding/json"
	"time"
)

// Invoice status values.  Only the initial state is modeled; payment
// collection happens outside this system.
const InvoiceStatusUnpaid = "unpaid"

// Invoice is an immutable snapshot of a completed settlement or purchase.
// Customer and rental fields are denormalized on purpose: an invoice must
// keep displaying the amounts and names it was issued with even if the
// customer record is edited or deleted later.
//
// ServiceDetails holds the structured cost breakdown (rental block,
// accessory lines, package info, pricing summary) as stored JSON.
type Invoice struct {
	ID               uint64          `json:"id"`               // invoices.id
	Code             string          `json:"code"`             // invoices.code (unique, INV-<millis>)
	CustomerID       uint64          `json:"customerId"`       // invoices.customer_id
	CustomerName     string          `json:"customerName"`     // invoices.customer_name
	CustomerPhone    string          `json:"customerPhone"`    // invoices.customer_phone
	CustomerCode     string          `json:"customerCode"`     // invoices.customer_code
	RentalID         uint64          `json:"rentalId"`         // invoices.rental_id
	Subtotal         float64         `json:"subtotal"`         // invoices.subtotal
	Discount         float64         `json:"discount"`         // invoices.discount
	Total            float64         `json:"total"`            // invoices.total
	Status           string          `json:"status"`           // invoices.status
	ServiceDetails   json.RawMessage `json:"serviceDetails"`   // invoices.service_details (JSON)
	RentalStartAt    *time.Time      `json:"rentalStartAt"`    // invoices.rental_start_at (nullable)
	RentalEndAt      *time.Time      `json:"rentalEndAt"`      // invoices.rental_end_at (nullable)
	RentalMinutes    int             `json:"rentalMinutes"`    // invoices.rental_minutes
	RentalType       string          `json:"rentalType"`       // invoices.rental_type
	TableName        string          `json:"tableName"`        // invoices.table_name
	RemainingMinutes int             `json:"remainingMinutes"` // invoices.remaining_minutes (balance after settlement)
	CreatedAt        time.Time       `json:"createdAt"`        // invoices.created_at
}
