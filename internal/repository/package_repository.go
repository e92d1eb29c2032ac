package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/billiard-club-pos/internal/model"
)

// PackageRepo provides read access to the prepaid-time packages.
type PackageRepo struct {
	db *sql.DB
}

// NewPackageRepo returns a new PackageRepo bound to the given database.
func NewPackageRepo(db *sql.DB) *PackageRepo { return &PackageRepo{db: db} }

// GetByID returns a package by primary key or ErrPackageNotFound.
func (r *PackageRepo) GetByID(ctx context.Context, id uint64) (*model.Package, error) {
	const q = `SELECT id, name, total_hours, bonus_hours, price FROM packages WHERE id = ?`
	var p model.Package
	err := r.db.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.Name, &p.TotalHours, &p.BonusHours, &p.Price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns all packages ordered by price ascending.
func (r *PackageRepo) List(ctx context.Context) ([]model.Package, error) {
	const q = `SELECT id, name, total_hours, bonus_hours, price FROM packages ORDER BY price`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Package, 0)
	for rows.Next() {
		var p model.Package
		if err := rows.Scan(&p.ID, &p.Name, &p.TotalHours, &p.BonusHours, &p.Price); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
