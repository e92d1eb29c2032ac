package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/billiard-club-pos/internal/model"
)

// PricingRepo reads the configurable short-term tier table used by the
// generic pricing preview.
type PricingRepo struct {
	db *sql.DB
}

// NewPricingRepo returns a new PricingRepo bound to the given database.
func NewPricingRepo(db *sql.DB) *PricingRepo { return &PricingRepo{db: db} }

// ListTiers returns all tiers ordered by min_hours ascending, the order the
// preview scans them in.
func (r *PricingRepo) ListTiers(ctx context.Context) ([]model.PricingTier, error) {
	const q = `SELECT id, min_hours, max_hours, price_per_hour FROM pricing_tiers ORDER BY min_hours`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.PricingTier, 0)
	for rows.Next() {
		var t model.PricingTier
		var maxHours sql.NullFloat64
		if err := rows.Scan(&t.ID, &t.MinHours, &maxHours, &t.PricePerHour); err != nil {
			return nil, err
		}
		if maxHours.Valid {
			v := maxHours.Float64
			t.MaxHours = &v
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
