package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

func TestSettlePaidOnly(t *testing.T) {
	// 2h05m on an empty balance: 125 paid minutes at the standard rate.
	b := Settle(Input{
		StartAt:          testStart,
		EndAt:            testStart.Add(2*time.Hour + 5*time.Minute),
		RemainingMinutes: 0,
		Tariff:           DefaultTariff(),
	})

	require.Equal(t, 125, b.Minutes)
	require.Equal(t, 0, b.UsedPackageMinutes)
	require.Equal(t, 125, b.PaidMinutes)
	require.Equal(t, b.Minutes, b.UsedPackageMinutes+b.PaidMinutes)
	require.Equal(t, 0, b.RemainingMinutes)
	require.Equal(t, StandardHourlyRate, b.HourlyRate)
	require.InDelta(t, StandardHourlyRate/60, b.MinuteRate, 1e-9)
	require.InDelta(t, 125*StandardHourlyRate/60, b.RentalCost, 1e-6)
	require.InDelta(t, b.RentalCost, b.Subtotal, 1e-9)
	require.InDelta(t, b.Subtotal, b.Total, 1e-9)
}

func TestSettleBalanceCoversSession(t *testing.T) {
	// 2h30m against a 200 minute balance: nothing to pay, 50 minutes left.
	b := Settle(Input{
		StartAt:          testStart,
		EndAt:            testStart.Add(2*time.Hour + 30*time.Minute),
		RemainingMinutes: 200,
		Tariff:           DefaultTariff(),
	})

	require.Equal(t, 150, b.Minutes)
	require.Equal(t, 150, b.UsedPackageMinutes)
	require.Equal(t, 0, b.PaidMinutes)
	require.Equal(t, 50, b.RemainingMinutes)
	require.Equal(t, 0.0, b.RentalCost)
	require.Equal(t, 0.0, b.MinuteRate)
	require.Equal(t, 0.0, b.HourlyRate)
	require.Equal(t, 0.0, b.Total)
}

func TestSettleSplitsBalanceAndPaid(t *testing.T) {
	// 4h against a 60 minute balance: the 180 paid minutes sit exactly on
	// the 3h boundary and still bill at the standard rate.
	b := Settle(Input{
		StartAt:          testStart,
		EndAt:            testStart.Add(4 * time.Hour),
		RemainingMinutes: 60,
		Tariff:           DefaultTariff(),
	})

	require.Equal(t, 240, b.Minutes)
	require.Equal(t, 60, b.UsedPackageMinutes)
	require.Equal(t, 180, b.PaidMinutes)
	require.Equal(t, 0, b.RemainingMinutes)
	require.Equal(t, StandardHourlyRate, b.HourlyRate)
	require.InDelta(t, 180*StandardHourlyRate/60, b.RentalCost, 1e-6)
}

func TestSettleExtendedRateWholeBlock(t *testing.T) {
	// One minute past the threshold flips the whole paid block to the
	// extended rate, there is no per-tier blending.
	b := Settle(Input{
		StartAt:          testStart,
		EndAt:            testStart.Add(3*time.Hour + time.Minute),
		RemainingMinutes: 0,
		Tariff:           DefaultTariff(),
	})

	require.Equal(t, 181, b.PaidMinutes)
	require.Equal(t, ExtendedHourlyRate, b.HourlyRate)
	require.InDelta(t, 181*ExtendedHourlyRate/60, b.RentalCost, 1e-6)
}

func TestSettleRoundsStartedMinuteUp(t *testing.T) {
	b := Settle(Input{
		StartAt: testStart,
		EndAt:   testStart.Add(90 * time.Second),
		Tariff:  DefaultTariff(),
	})
	require.Equal(t, 2, b.Minutes)
	require.Equal(t, 2, b.PaidMinutes)
}

func TestSettleAccessoriesAndPackage(t *testing.T) {
	pkg := &PackageInfo{Name: "Gói 10 giờ", TotalHours: 10, BonusHours: 2, Price: 450000}
	b := Settle(Input{
		StartAt:          testStart,
		EndAt:            testStart.Add(time.Hour),
		RemainingMinutes: 0,
		Accessories: []AccessoryLine{
			{Name: "Găng tay", Quantity: 2, UnitPrice: 10000, Total: 20000},
			// A line without a stored total falls back to unit price times
			// quantity.
			{Name: "Phấn", Quantity: 3, UnitPrice: 5000},
		},
		Package:      pkg,
		PackageTotal: 450000,
		Tariff:       DefaultTariff(),
	})

	require.InDelta(t, 35000, b.AccessoriesTotal, 1e-9)
	require.Equal(t, 20000.0, b.Accessories[0].Total)
	require.Equal(t, 15000.0, b.Accessories[1].Total)
	require.Equal(t, 450000.0, b.PackageTotal)
	require.Equal(t, pkg, b.Package)
	require.InDelta(t, b.RentalCost+b.AccessoriesTotal+b.PackageTotal, b.Subtotal, 1e-9)
}

func TestSettleDiscountUnclamped(t *testing.T) {
	// Settlement applies the discount as given; an over-large one yields a
	// negative total instead of clamping.
	b := Settle(Input{
		StartAt:          testStart,
		EndAt:            testStart.Add(time.Minute),
		RemainingMinutes: 0,
		Discount:         100000,
		Tariff:           DefaultTariff(),
	})
	require.Equal(t, 100000.0, b.Discount)
	require.Less(t, b.Total, 0.0)
	require.InDelta(t, b.Subtotal-b.Discount, b.Total, 1e-9)
}

func TestSettleNegativeBalanceTreatedAsZero(t *testing.T) {
	b := Settle(Input{
		StartAt:          testStart,
		EndAt:            testStart.Add(time.Hour),
		RemainingMinutes: -30,
		Tariff:           DefaultTariff(),
	})
	require.Equal(t, 0, b.UsedPackageMinutes)
	require.Equal(t, 60, b.PaidMinutes)
	require.Equal(t, 0, b.RemainingMinutes)
}

func TestClampDiscount(t *testing.T) {
	require.Equal(t, 0.0, ClampDiscount(-10, 100))
	require.Equal(t, 50.0, ClampDiscount(50, 100))
	require.Equal(t, 100.0, ClampDiscount(150, 100))
}
