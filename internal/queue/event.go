// Package queue defines message payloads exchanged over the message broker.
package queue

import "github.com/google/uuid"

// InvoiceIssuedEvent is published after an invoice is committed, whether it
// came from a table settlement, a package purchase or a manual invoice.  It
// carries enough of the snapshot for downstream consumers to log or notify
// without querying the primary database.
type InvoiceIssuedEvent struct {
	EventID          string  `json:"event_id"`
	InvoiceID        uint64  `json:"invoice_id"`
	InvoiceCode      string  `json:"invoice_code"`
	CustomerID       uint64  `json:"customer_id"`
	CustomerName     string  `json:"customer_name"`
	CustomerCode     string  `json:"customer_code"`
	TableName        string  `json:"table_name"`
	RentalType       string  `json:"rental_type"`
	RentalMinutes    int     `json:"rental_minutes"`
	Subtotal         float64 `json:"subtotal"`
	Discount         float64 `json:"discount"`
	Total            float64 `json:"total"`
	RemainingMinutes int     `json:"remaining_minutes"`
	IssuedAt         string  `json:"issued_at"`
}

// NewEventID returns a fresh unique id for an outgoing event.
func NewEventID() string { return uuid.NewString() }
