package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/billiard-club-pos/internal/model"
)

// AccessoryRepo provides read access to the accessory catalog.
type AccessoryRepo struct {
	db *sql.DB
}

// NewAccessoryRepo returns a new AccessoryRepo bound to the given database.
func NewAccessoryRepo(db *sql.DB) *AccessoryRepo { return &AccessoryRepo{db: db} }

// GetByID returns an accessory by primary key or ErrAccessoryNotFound.
func (r *AccessoryRepo) GetByID(ctx context.Context, id uint64) (*model.Accessory, error) {
	const q = `SELECT id, name, price FROM accessories WHERE id = ?`
	var a model.Accessory
	err := r.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.Name, &a.Price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccessoryNotFound
		}
		return nil, err
	}
	return &a, nil
}

// List returns the whole catalog ordered by name.
func (r *AccessoryRepo) List(ctx context.Context) ([]model.Accessory, error) {
	const q = `SELECT id, name, price FROM accessories ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Accessory, 0)
	for rows.Next() {
		var a model.Accessory
		if err := rows.Scan(&a.ID, &a.Name, &a.Price); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetByIDs returns the requested accessories keyed by id.  Unknown ids are
// simply absent from the map; callers decide whether that is an error.
func (r *AccessoryRepo) GetByIDs(ctx context.Context, ids []uint64) (map[uint64]model.Accessory, error) {
	out := make(map[uint64]model.Accessory, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	placeholders := make([]string, 0, len(ids))
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	q := `SELECT id, name, price FROM accessories WHERE id IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var a model.Accessory
		if err := rows.Scan(&a.ID, &a.Name, &a.Price); err != nil {
			return nil, err
		}
		out[a.ID] = a
	}
	return out, rows.Err()
}
