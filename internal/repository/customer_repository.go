package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/billiard-club-pos/internal/model"
)

// CustomerRepo provides access to the customers table.  The balance column
// remaining_minutes follows a single-writer discipline: it is only ever
// changed through SetRemainingMinutesTx (settlement debit) and
// CreditMinutesTx (package purchase), both of which run inside the caller's
// transaction with the row locked by GetForUpdateTx.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo returns a new CustomerRepo bound to the given database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *CustomerRepo) DB() *sql.DB { return r.db }

const customerColumns = `id, customer_code, name, phone, remaining_minutes, created_at, updated_at`

func scanCustomer(row *sql.Row) (*model.Customer, error) {
	var c model.Customer
	var phone sql.NullString
	err := row.Scan(&c.ID, &c.CustomerCode, &c.Name, &phone, &c.RemainingMinutes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	if phone.Valid {
		p := phone.String
		c.Phone = &p
	}
	return &c, nil
}

// GetByID returns a customer by primary key or ErrCustomerNotFound.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (*model.Customer, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers WHERE id = ?`
	return scanCustomer(r.db.QueryRowContext(ctx, q, id))
}

// GetByCode returns a customer by its unique customer code.
func (r *CustomerRepo) GetByCode(ctx context.Context, code string) (*model.Customer, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers WHERE customer_code = ?`
	return scanCustomer(r.db.QueryRowContext(ctx, q, code))
}

// GetForUpdateTx reads a customer inside the transaction with a row lock so
// concurrent settlements for the same customer serialize instead of racing
// on the balance.
func (r *CustomerRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Customer, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers WHERE id = ? FOR UPDATE`
	return scanCustomer(tx.QueryRowContext(ctx, q, id))
}

// Create inserts a customer and returns the stored row.  Phone may be nil.
func (r *CustomerRepo) Create(ctx context.Context, code, name string, phone *string) (*model.Customer, error) {
	const q = `INSERT INTO customers (customer_code, name, phone, remaining_minutes) VALUES (?, ?, ?, 0)`
	res, err := r.db.ExecContext(ctx, q, code, name, phone)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// List returns all customers ordered by creation time descending.
func (r *CustomerRepo) List(ctx context.Context) ([]model.Customer, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Customer, 0)
	for rows.Next() {
		var c model.Customer
		var phone sql.NullString
		if err := rows.Scan(&c.ID, &c.CustomerCode, &c.Name, &phone, &c.RemainingMinutes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if phone.Valid {
			p := phone.String
			c.Phone = &p
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SetRemainingMinutesTx writes the post-settlement balance.  The caller
// must hold the row lock from GetForUpdateTx in the same transaction.
func (r *CustomerRepo) SetRemainingMinutesTx(ctx context.Context, tx *sql.Tx, id uint64, minutes int) error {
	if minutes < 0 {
		minutes = 0
	}
	const q = `UPDATE customers SET remaining_minutes = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, minutes, id)
	return err
}

// CreditMinutesTx adds purchased minutes to the balance as a single atomic
// increment and returns the new balance.
func (r *CustomerRepo) CreditMinutesTx(ctx context.Context, tx *sql.Tx, id uint64, add int) (int, error) {
	const q = `UPDATE customers SET remaining_minutes = remaining_minutes + ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q, add, id); err != nil {
		return 0, err
	}
	var balance int
	const sel = `SELECT remaining_minutes FROM customers WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, id).Scan(&balance); err != nil {
		return 0, err
	}
	return balance, nil
}
