package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPackageCreditMinutes(t *testing.T) {
	p := Package{TotalHours: 10, BonusHours: 2}
	require.Equal(t, 720, p.CreditMinutes())

	empty := Package{}
	require.Equal(t, 0, empty.CreditMinutes())
}

func TestPricingTierMatches(t *testing.T) {
	max := 3.0
	bounded := PricingTier{MinHours: 1, MaxHours: &max}
	require.False(t, bounded.Matches(0.5))
	require.True(t, bounded.Matches(1))
	require.True(t, bounded.Matches(3))
	require.False(t, bounded.Matches(3.5))

	open := PricingTier{MinHours: 3}
	require.True(t, open.Matches(3))
	require.True(t, open.Matches(100))
	require.False(t, open.Matches(2.9))
}

func TestRentalOpen(t *testing.T) {
	r := Rental{}
	require.True(t, r.Open())
	now := time.Now()
	r.EndAt = &now
	require.False(t, r.Open())
}
