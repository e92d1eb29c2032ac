package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/billiard-club-pos/internal/model"
)

// InvoiceRepo persists settlement snapshots.  Invoices are write-once:
// there is no update method on purpose.
type InvoiceRepo struct {
	db *sql.DB
}

// NewInvoiceRepo returns a new InvoiceRepo bound to the given database.
func NewInvoiceRepo(db *sql.DB) *InvoiceRepo { return &InvoiceRepo{db: db} }

const invoiceColumns = `id, code, customer_id, customer_name, customer_phone, customer_code,
       rental_id, subtotal, discount, total, status, service_details,
       rental_start_at, rental_end_at, rental_minutes, rental_type, table_name,
       remaining_minutes, created_at`

func scanInvoice(row rowScanner) (*model.Invoice, error) {
	var inv model.Invoice
	var details sql.NullString
	var startAt, endAt sql.NullTime
	err := row.Scan(&inv.ID, &inv.Code, &inv.CustomerID, &inv.CustomerName, &inv.CustomerPhone,
		&inv.CustomerCode, &inv.RentalID, &inv.Subtotal, &inv.Discount, &inv.Total, &inv.Status,
		&details, &startAt, &endAt, &inv.RentalMinutes, &inv.RentalType, &inv.TableName,
		&inv.RemainingMinutes, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	if details.Valid {
		inv.ServiceDetails = []byte(details.String)
	}
	if startAt.Valid {
		t := startAt.Time
		inv.RentalStartAt = &t
	}
	if endAt.Valid {
		t := endAt.Time
		inv.RentalEndAt = &t
	}
	return &inv, nil
}

// CreateTx inserts the invoice snapshot within the transaction and
// populates the generated ID and creation timestamp.
func (r *InvoiceRepo) CreateTx(ctx context.Context, tx *sql.Tx, inv *model.Invoice) error {
	const q = `INSERT INTO invoices (code, customer_id, customer_name, customer_phone, customer_code,
                rental_id, subtotal, discount, total, status, service_details,
                rental_start_at, rental_end_at, rental_minutes, rental_type, table_name, remaining_minutes)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, inv.Code, inv.CustomerID, inv.CustomerName, inv.CustomerPhone,
		inv.CustomerCode, inv.RentalID, inv.Subtotal, inv.Discount, inv.Total, inv.Status,
		string(inv.ServiceDetails), inv.RentalStartAt, inv.RentalEndAt, inv.RentalMinutes,
		inv.RentalType, inv.TableName, inv.RemainingMinutes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	inv.ID = uint64(id)
	const sel = `SELECT created_at FROM invoices WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, inv.ID).Scan(&inv.CreatedAt)
}

// GetByID returns an invoice by primary key or ErrInvoiceNotFound.
func (r *InvoiceRepo) GetByID(ctx context.Context, id uint64) (*model.Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = ?`
	inv, err := scanInvoice(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	return inv, err
}

// List returns invoices newest first.
func (r *InvoiceRepo) List(ctx context.Context) ([]model.Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *inv)
	}
	return out, rows.Err()
}
