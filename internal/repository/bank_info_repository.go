package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/billiard-club-pos/internal/model"
)

// BankInfoRepo reads the club's single bank-info row used on invoices.
type BankInfoRepo struct {
	db *sql.DB
}

// NewBankInfoRepo returns a new BankInfoRepo bound to the given database.
func NewBankInfoRepo(db *sql.DB) *BankInfoRepo { return &BankInfoRepo{db: db} }

// Get returns the bank info, or nil when none is configured.  A missing
// row is not an error; invoices simply render without payment details.
func (r *BankInfoRepo) Get(ctx context.Context) (*model.BankInfo, error) {
	const q = `SELECT id, bank_name, account_name, account_number, qr_image_url
               FROM bank_info ORDER BY id LIMIT 1`
	var b model.BankInfo
	var qr sql.NullString
	err := r.db.QueryRowContext(ctx, q).Scan(&b.ID, &b.BankName, &b.AccountName, &b.AccountNumber, &qr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if qr.Valid {
		u := qr.String
		b.QRImageURL = &u
	}
	return &b, nil
}
