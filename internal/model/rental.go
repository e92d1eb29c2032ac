package model

import "time"

// Rental type discriminator values.
const (
	RentalTypeShort   = "short"   // time-based table session or manual invoice
	RentalTypePackage = "package" // package purchase audit record, no time span
)

// Rental records one table session or one package purchase.  A table
// session starts open (EndAt nil, Minutes/TotalAmount zero) and is closed
// exactly once by settlement, which fills EndAt, Minutes, Hours and
// TotalAmount.  Package purchases and manual invoices are created already
// closed.  Closed rentals are immutable.
//
// Fields:
//  ID          – primary key identifier.
//  Type        – RentalTypeShort or RentalTypePackage.
//  CustomerID  – customer the session belongs to.
//  TableID     – table for live sessions (nil for manual/package rentals).
//  PackageID   – purchased package for package rentals.
//  StartAt     – session start (equals EndAt for package purchases).
//  EndAt       – nil while the session is open.
//  Hours       – elapsed hours, fractional, display only.
//  Minutes     – elapsed minutes rounded up, 0 while open.
//  TotalAmount – final billed amount, 0 while open.
//  Discount    – discount staged at start, may be overridden at settle.
//  Note        – free-form operator note.
type Rental struct {
	ID          uint64     `json:"id"`                // rentals.id
	Type        string     `json:"type"`              // rentals.type
	CustomerID  uint64     `json:"customerId"`        // rentals.customer_id
	TableID     *uint64    `json:"tableId,omitempty"` // rentals.table_id (nullable)
	PackageID   *uint64    `json:"packageId,omitempty"` // rentals.package_id (nullable)
	StartAt     time.Time  `json:"startAt"`           // rentals.start_at
	EndAt       *time.Time `json:"endAt"`             // rentals.end_at (nullable, nil = open)
	Hours       float64    `json:"hours"`             // rentals.hours
	Minutes     int        `json:"minutes"`           // rentals.minutes
	TotalAmount float64    `json:"totalAmount"`       // rentals.total_amount
	Discount    float64    `json:"discount"`          // rentals.discount
	Note        *string    `json:"note,omitempty"`    // rentals.note (nullable)
	CreatedAt   time.Time  `json:"createdAt"`         // rentals.created_at
	UpdatedAt   time.Time  `json:"updatedAt"`         // rentals.updated_at
}

// Open reports whether the rental is still in progress.
func (r *Rental) Open() bool { return r.EndAt == nil }

// RentalAccessory is one accessory line attached to a rental.  UnitPrice is
// snapshotted from the accessory catalog when the line is created and the
// line is never mutated afterwards, so later catalog price changes do not
// affect past or in-flight sessions.
type RentalAccessory struct {
	ID          uint64  `json:"id"`          // rental_accessories.id
	RentalID    uint64  `json:"rentalId"`    // rental_accessories.rental_id
	AccessoryID uint64  `json:"accessoryId"` // rental_accessories.accessory_id
	Quantity    int     `json:"quantity"`    // rental_accessories.quantity
	UnitPrice   float64 `json:"unitPrice"`   // rental_accessories.unit_price
	TotalPrice  float64 `json:"totalPrice"`  // rental_accessories.total_price
}
