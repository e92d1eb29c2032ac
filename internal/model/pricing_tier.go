package model

// PricingTier is one row of the configurable short-term rate table used by
// the generic pricing preview.  A nil MaxHours means the tier is unbounded
// above.  Settlement does not use these tiers; it applies the fixed
// two-step tariff in the pricing package.
type PricingTier struct {
	ID           uint64   `json:"id"`                 // pricing_tiers.id
	MinHours     float64  `json:"minHours"`           // pricing_tiers.min_hours
	MaxHours     *float64 `json:"maxHours,omitempty"` // pricing_tiers.max_hours (nullable = unbounded)
	PricePerHour float64  `json:"pricePerHour"`       // pricing_tiers.price_per_hour
}

// Matches reports whether the given duration in hours falls inside the tier.
func (t *PricingTier) Matches(hours float64) bool {
	if hours < t.MinHours {
		return false
	}
	return t.MaxHours == nil || hours <= *t.MaxHours
}
