package model

import "time"

// Table is a physical billiard table.  Occupancy is not stored here: a
// table is occupied exactly when a rental with a NULL end_at references it,
// so the status endpoint derives it from the rentals table.
type Table struct {
	ID        uint64    `json:"id"`        // club_tables.id
	Code      string    `json:"code"`      // club_tables.code
	Name      string    `json:"name"`      // club_tables.name
	CreatedAt time.Time `json:"createdAt"` // club_tables.created_at
}
