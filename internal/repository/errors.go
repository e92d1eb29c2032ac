// Package repository defines sentinel errors shared by the repositories.
// Handlers compare against these with errors.Is and translate them into
// HTTP statuses: not-found sentinels become 404, ErrTableOccupied becomes
// a 400 conflict, anything else a 500.
package repository

import "errors"

// ErrCustomerNotFound is returned when a customer id or code matches no row.
var ErrCustomerNotFound = errors.New("customer not found")

// ErrTableNotFound is returned when a table id matches no row.
var ErrTableNotFound = errors.New("table not found")

// ErrRentalNotFound is returned when a rental id matches no row.
var ErrRentalNotFound = errors.New("rental not found")

// ErrNoActiveRental is returned when a settle targets a table with no open
// rental, including a second settle of an already-closed session.
var ErrNoActiveRental = errors.New("no active rental")

// ErrTableOccupied is returned when a start targets a table that already
// has an open rental.
var ErrTableOccupied = errors.New("table is occupied")

// ErrPackageNotFound is returned when a package id matches no row.
var ErrPackageNotFound = errors.New("package not found")

// ErrAccessoryNotFound is returned when an accessory id matches no row.
var ErrAccessoryNotFound = errors.New("accessory not found")

// ErrInvoiceNotFound is returned when an invoice id matches no row.
var ErrInvoiceNotFound = errors.New("invoice not found")
