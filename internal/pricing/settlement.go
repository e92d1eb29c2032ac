package pricing

import "time"

// AccessoryLine is one priced accessory entry in a breakdown.  Total is
// taken from the stored line when available, otherwise unit price times
// quantity.
type AccessoryLine struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Total     float64 `json:"total"`
}

// PackageInfo describes a package folded into a settlement bill.
type PackageInfo struct {
	Name       string  `json:"name"`
	TotalHours int     `json:"totalHours"`
	BonusHours int     `json:"bonusHours"`
	Price      float64 `json:"price"`
}

// Input carries everything a settlement needs.  All reads happen before
// Settle is called; the engine itself touches no storage.
type Input struct {
	StartAt time.Time
	EndAt   time.Time

	// RemainingMinutes is the customer's balance read (under lock) before
	// any mutation.
	RemainingMinutes int

	Accessories []AccessoryLine

	// Package and PackageTotal describe a package bought during this
	// session whose price rides on this invoice.  PackageTotal is the
	// amount stored on the purchase rental (package price minus any
	// discount granted at purchase time).
	Package      *PackageInfo
	PackageTotal float64

	// Discount is applied to the subtotal unclamped; a discount larger
	// than the subtotal produces a negative total.
	Discount float64

	Tariff Tariff
}

// Breakdown is the settlement result.  Its JSON shape is the wire contract
// of the settle and manual-invoice endpoints and must stay field-for-field
// stable.
type Breakdown struct {
	Minutes          int     `json:"minutes"`
	Hours            float64 `json:"hours"`
	RemainingMinutes int     `json:"remainingMinutes"`
	RemainingHours   float64 `json:"remainingHours"`

	UsedPackageMinutes int     `json:"usedPackageMinutes"`
	UsedPackageHours   float64 `json:"usedPackageHours"`
	PaidMinutes        int     `json:"paidMinutes"`
	PaidHours          float64 `json:"paidHours"`

	MinuteRate float64 `json:"minuteRate"`
	HourlyRate float64 `json:"hourlyRate"`
	RentalCost float64 `json:"rentalCost"`

	Accessories      []AccessoryLine `json:"accessories"`
	AccessoriesTotal float64         `json:"accessoriesTotal"`

	Package      *PackageInfo `json:"package"`
	PackageTotal float64      `json:"packageTotal"`

	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// Settle computes the full settlement breakdown:
//
//  1. elapsed minutes, rounded up to the next whole minute;
//  2. split into balance-covered and paid minutes;
//  3. the paid block priced at the tariff rate selected by its own length;
//  4. accessory and package totals added, discount subtracted.
//
// The returned RemainingMinutes is the customer's new balance; callers
// persist it together with the closed rental and the invoice in one
// transaction.
func Settle(in Input) Breakdown {
	actualMinutes := ElapsedMinutes(in.EndAt.Sub(in.StartAt))

	balance := in.RemainingMinutes
	if balance < 0 {
		balance = 0
	}

	var usedPackageMinutes, paidMinutes int
	if actualMinutes <= balance {
		usedPackageMinutes = actualMinutes
		paidMinutes = 0
	} else {
		usedPackageMinutes = balance
		paidMinutes = actualMinutes - balance
	}

	minuteRate := in.Tariff.MinuteRate(paidMinutes)
	rentalCost := float64(paidMinutes) * minuteRate

	newRemaining := balance - usedPackageMinutes
	if newRemaining < 0 {
		newRemaining = 0
	}

	lines := make([]AccessoryLine, 0, len(in.Accessories))
	accessoriesTotal := 0.0
	for _, l := range in.Accessories {
		if l.Total == 0 {
			l.Total = l.UnitPrice * float64(l.Quantity)
		}
		accessoriesTotal += l.Total
		lines = append(lines, l)
	}

	packageTotal := 0.0
	if in.Package != nil {
		packageTotal = in.PackageTotal
	}

	subtotal := rentalCost + accessoriesTotal + packageTotal
	total := subtotal - in.Discount

	return Breakdown{
		Minutes:            actualMinutes,
		Hours:              float64(actualMinutes) / 60,
		RemainingMinutes:   newRemaining,
		RemainingHours:     float64(newRemaining) / 60,
		UsedPackageMinutes: usedPackageMinutes,
		UsedPackageHours:   float64(usedPackageMinutes) / 60,
		PaidMinutes:        paidMinutes,
		PaidHours:          float64(paidMinutes) / 60,
		MinuteRate:         minuteRate,
		HourlyRate:         in.Tariff.HourlyRate(paidMinutes),
		RentalCost:         rentalCost,
		Accessories:        lines,
		AccessoriesTotal:   accessoriesTotal,
		Package:            in.Package,
		PackageTotal:       packageTotal,
		Subtotal:           subtotal,
		Discount:           in.Discount,
		Total:              total,
	}
}

// ClampDiscount bounds a preview discount to [0, subtotal].  Only the
// generic preview clamps; settlement applies the discount as given.
func ClampDiscount(discount, subtotal float64) float64 {
	if discount < 0 {
		return 0
	}
	if discount > subtotal {
		return subtotal
	}
	return discount
}
