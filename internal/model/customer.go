package model

import "time"

// Customer is a club member or walk-in guest.  The prepaid time balance
// lives in RemainingMinutes and is the only mutable business field: it is
// credited by package purchases and debited by settlements, and it never
// goes below zero.
//
// Fields:
//  ID               – primary key identifier.
//  CustomerCode     – unique human-facing code (auto-generated "KH..." for
//                     walk-ins).
//  Name             – display name.
//  Phone            – optional phone number.
//  RemainingMinutes – prepaid time balance in minutes, never negative.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Customer struct {
	ID               uint64    `json:"id"`               // customers.id
	CustomerCode     string    `json:"customerCode"`     // customers.customer_code
	Name             string    `json:"name"`             // customers.name
	Phone            *string   `json:"phone,omitempty"`  // customers.phone (nullable)
	RemainingMinutes int       `json:"remainingMinutes"` // customers.remaining_minutes
	CreatedAt        time.Time `json:"createdAt"`        // customers.created_at
	UpdatedAt        time.Time `json:"updatedAt"`        // customers.updated_at
}
