package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/billiard-club-pos/internal/model"
)

// RentalRepo provides access to rentals and their accessory lines.  The
// open/closed lifecycle is encoded in end_at: NULL means the session is in
// progress.  Settlement-critical reads take row locks so the occupancy
// check and the balance debit cannot race with concurrent requests.
type RentalRepo struct {
	db *sql.DB
}

// NewRentalRepo returns a new RentalRepo bound to the given database.
func NewRentalRepo(db *sql.DB) *RentalRepo { return &RentalRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *RentalRepo) DB() *sql.DB { return r.db }

const rentalColumns = `id, type, customer_id, table_id, package_id, start_at, end_at,
       hours, minutes, total_amount, discount, note, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRental(row rowScanner) (*model.Rental, error) {
	var rent model.Rental
	var tableID, packageID sql.NullInt64
	var endAt sql.NullTime
	var note sql.NullString
	err := row.Scan(&rent.ID, &rent.Type, &rent.CustomerID, &tableID, &packageID,
		&rent.StartAt, &endAt, &rent.Hours, &rent.Minutes, &rent.TotalAmount,
		&rent.Discount, &note, &rent.CreatedAt, &rent.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if tableID.Valid {
		v := uint64(tableID.Int64)
		rent.TableID = &v
	}
	if packageID.Valid {
		v := uint64(packageID.Int64)
		rent.PackageID = &v
	}
	if endAt.Valid {
		t := endAt.Time
		rent.EndAt = &t
	}
	if note.Valid {
		n := note.String
		rent.Note = &n
	}
	return &rent, nil
}

// GetByID returns a rental by primary key or ErrRentalNotFound.
func (r *RentalRepo) GetByID(ctx context.Context, id uint64) (*model.Rental, error) {
	const q = `SELECT ` + rentalColumns + ` FROM rentals WHERE id = ?`
	rent, err := scanRental(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRentalNotFound
	}
	return rent, err
}

// OpenByTableTx returns the open rental on the given table with a row lock,
// or ErrNoActiveRental when the table has none.  Settle calls this first so
// that a second settle of the same session blocks and then fails cleanly.
func (r *RentalRepo) OpenByTableTx(ctx context.Context, tx *sql.Tx, tableID uint64) (*model.Rental, error) {
	const q = `SELECT ` + rentalColumns + ` FROM rentals
               WHERE table_id = ? AND end_at IS NULL
               ORDER BY start_at LIMIT 1 FOR UPDATE`
	rent, err := scanRental(tx.QueryRowContext(ctx, q, tableID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoActiveRental
	}
	return rent, err
}

// EnsureTableFreeTx locks any open rental on the table and returns
// ErrTableOccupied when one exists.  Running the check and the subsequent
// insert in one transaction closes the check-then-act window between two
// concurrent starts.
func (r *RentalRepo) EnsureTableFreeTx(ctx context.Context, tx *sql.Tx, tableID uint64) error {
	const q = `SELECT id FROM rentals WHERE table_id = ? AND end_at IS NULL LIMIT 1 FOR UPDATE`
	var id uint64
	err := tx.QueryRowContext(ctx, q, tableID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	return ErrTableOccupied
}

// CreateTx inserts a rental within the transaction and populates the
// generated ID and timestamps on the given record.
func (r *RentalRepo) CreateTx(ctx context.Context, tx *sql.Tx, rent *model.Rental) error {
	const q = `INSERT INTO rentals (type, customer_id, table_id, package_id, start_at, end_at,
                hours, minutes, total_amount, discount, note)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, rent.Type, rent.CustomerID, rent.TableID, rent.PackageID,
		rent.StartAt, rent.EndAt, rent.Hours, rent.Minutes, rent.TotalAmount, rent.Discount, rent.Note)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rent.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM rentals WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, rent.ID).Scan(&rent.CreatedAt, &rent.UpdatedAt)
}

// CloseTx performs the single open-to-closed transition: it fills end_at,
// the computed duration and the final amount.  The WHERE guard on end_at
// keeps a closed rental immutable even if something re-reaches this path.
func (r *RentalRepo) CloseTx(ctx context.Context, tx *sql.Tx, id uint64, endAt time.Time, hours float64, minutes int, totalAmount float64) error {
	const q = `UPDATE rentals SET end_at = ?, hours = ?, minutes = ?, total_amount = ?
               WHERE id = ? AND end_at IS NULL`
	res, err := tx.ExecContext(ctx, q, endAt, hours, minutes, totalAmount, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoActiveRental
	}
	return nil
}

// AccessoryLine is one accessory entry joined with its catalog name, as
// stored on the rental.
type AccessoryLine struct {
	AccessoryID uint64  `json:"accessoryId"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
}

func scanAccessoryLines(rows *sql.Rows) ([]AccessoryLine, error) {
	defer rows.Close()
	out := make([]AccessoryLine, 0)
	for rows.Next() {
		var l AccessoryLine
		if err := rows.Scan(&l.AccessoryID, &l.Name, &l.Quantity, &l.UnitPrice, &l.TotalPrice); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

const accessoryLineQuery = `SELECT ra.accessory_id, a.name, ra.quantity, ra.unit_price, ra.total_price
          FROM rental_accessories ra
          JOIN accessories a ON a.id = ra.accessory_id
          WHERE ra.rental_id = ?
          ORDER BY ra.id`

// AccessoryLines returns the accessory lines attached to a rental.
func (r *RentalRepo) AccessoryLines(ctx context.Context, rentalID uint64) ([]AccessoryLine, error) {
	rows, err := r.db.QueryContext(ctx, accessoryLineQuery, rentalID)
	if err != nil {
		return nil, err
	}
	return scanAccessoryLines(rows)
}

// AccessoryLinesTx is AccessoryLines inside the caller's transaction.
func (r *RentalRepo) AccessoryLinesTx(ctx context.Context, tx *sql.Tx, rentalID uint64) ([]AccessoryLine, error) {
	rows, err := tx.QueryContext(ctx, accessoryLineQuery, rentalID)
	if err != nil {
		return nil, err
	}
	return scanAccessoryLines(rows)
}

// CreateAccessoryTx attaches one accessory line to a rental.  Prices are
// snapshots supplied by the caller; lines are never updated afterwards.
func (r *RentalRepo) CreateAccessoryTx(ctx context.Context, tx *sql.Tx, line *model.RentalAccessory) error {
	const q = `INSERT INTO rental_accessories (rental_id, accessory_id, quantity, unit_price, total_price)
               VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, line.RentalID, line.AccessoryID, line.Quantity, line.UnitPrice, line.TotalPrice)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	line.ID = uint64(id)
	return nil
}

// PackagePurchase is a package bought during a table session, found by
// LatestPackagePurchaseTx so its price can ride on the session invoice.
type PackagePurchase struct {
	RentalID    uint64
	TotalAmount float64
	Package     model.Package
}

// LatestPackagePurchaseTx returns the most recent package rental of the
// customer started at or after the given time, or nil when there is none.
// A package bought mid-session (via purchase-package-only) folds into the
// session's invoice instead of producing its own.
func (r *RentalRepo) LatestPackagePurchaseTx(ctx context.Context, tx *sql.Tx, customerID uint64, since time.Time) (*PackagePurchase, error) {
	const q = `SELECT r.id, r.total_amount, p.id, p.name, p.total_hours, p.bonus_hours, p.price
               FROM rentals r
               JOIN packages p ON p.id = r.package_id
               WHERE r.customer_id = ? AND r.type = ? AND r.start_at >= ?
               ORDER BY r.start_at DESC LIMIT 1`
	var pp PackagePurchase
	err := tx.QueryRowContext(ctx, q, customerID, model.RentalTypePackage, since).Scan(
		&pp.RentalID, &pp.TotalAmount,
		&pp.Package.ID, &pp.Package.Name, &pp.Package.TotalHours, &pp.Package.BonusHours, &pp.Package.Price,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pp, nil
}

// OpenRentalDetail is an open rental joined with its customer and table for
// the table-status endpoint.
type OpenRentalDetail struct {
	Rental       model.Rental    `json:"rental"`
	CustomerName string          `json:"customerName"`
	CustomerCode string          `json:"customerCode"`
	TableID      uint64          `json:"tableId"`
	Accessories  []AccessoryLine `json:"accessories"`
}

// ListOpen returns every open rental with customer info and accessory
// lines, keyed for the status endpoint to merge with the table list.
func (r *RentalRepo) ListOpen(ctx context.Context) ([]OpenRentalDetail, error) {
	const q = `SELECT r.id, r.type, r.customer_id, r.table_id, r.package_id,
               r.start_at, r.end_at, r.hours, r.minutes, r.total_amount, r.discount, r.note,
               r.created_at, r.updated_at, c.name, c.customer_code
               FROM rentals r
               JOIN customers c ON c.id = r.customer_id
               WHERE r.table_id IS NOT NULL AND r.end_at IS NULL
               ORDER BY r.start_at`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]OpenRentalDetail, 0)
	for rows.Next() {
		var d OpenRentalDetail
		var tableID, packageID sql.NullInt64
		var endAt sql.NullTime
		var note sql.NullString
		if err := rows.Scan(&d.Rental.ID, &d.Rental.Type, &d.Rental.CustomerID, &tableID, &packageID,
			&d.Rental.StartAt, &endAt, &d.Rental.Hours, &d.Rental.Minutes, &d.Rental.TotalAmount,
			&d.Rental.Discount, &note, &d.Rental.CreatedAt, &d.Rental.UpdatedAt,
			&d.CustomerName, &d.CustomerCode); err != nil {
			return nil, err
		}
		if tableID.Valid {
			v := uint64(tableID.Int64)
			d.Rental.TableID = &v
			d.TableID = v
		}
		if packageID.Valid {
			v := uint64(packageID.Int64)
			d.Rental.PackageID = &v
		}
		if endAt.Valid {
			t := endAt.Time
			d.Rental.EndAt = &t
		}
		if note.Valid {
			n := note.String
			d.Rental.Note = &n
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Attach accessory lines per rental; open tables are few, so one query
	// each keeps this simple.
	for i := range out {
		lines, err := r.AccessoryLines(ctx, out[i].Rental.ID)
		if err != nil {
			return nil, err
		}
		out[i].Accessories = lines
	}
	return out, nil
}
