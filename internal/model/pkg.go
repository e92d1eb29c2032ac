package model

// Package is a purchasable prepaid-time bundle.  Buying one credits
// (TotalHours + BonusHours) * 60 minutes to the customer's balance.
type Package struct {
	ID         uint64  `json:"id"`         // packages.id
	Name       string  `json:"name"`       // packages.name
	TotalHours int     `json:"totalHours"` // packages.total_hours
	BonusHours int     `json:"bonusHours"` // packages.bonus_hours
	Price      float64 `json:"price"`      // packages.price
}

// CreditMinutes returns the number of balance minutes a purchase of this
// package grants, bonus hours included.
func (p *Package) CreditMinutes() int {
	return (p.TotalHours + p.BonusHours) * 60
}
