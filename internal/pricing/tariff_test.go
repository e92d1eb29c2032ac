package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHourlyRate(t *testing.T) {
	tariff := DefaultTariff()

	// Zero paid minutes price at zero.
	require.Equal(t, 0.0, tariff.HourlyRate(0))
	require.Equal(t, 0.0, tariff.MinuteRate(0))

	// At or below the threshold the standard rate applies, beyond it the
	// extended rate does. 180 minutes is exactly the 3h boundary.
	require.Equal(t, StandardHourlyRate, tariff.HourlyRate(1))
	require.Equal(t, StandardHourlyRate, tariff.HourlyRate(180))
	require.Equal(t, ExtendedHourlyRate, tariff.HourlyRate(181))
	require.Equal(t, ExtendedHourlyRate, tariff.HourlyRate(600))

	require.InDelta(t, StandardHourlyRate/60, tariff.MinuteRate(60), 1e-9)
	require.InDelta(t, ExtendedHourlyRate/60, tariff.MinuteRate(181), 1e-9)
}

func TestNewTariff(t *testing.T) {
	require.Equal(t, 2.0, NewTariff(2).ThresholdHours)
	require.Equal(t, DefaultThresholdHours, NewTariff(0).ThresholdHours)
	require.Equal(t, DefaultThresholdHours, NewTariff(-1).ThresholdHours)

	// With a 2h threshold the boundary moves: 120 paid minutes is still
	// standard, 121 is extended.
	tariff := NewTariff(2)
	require.Equal(t, StandardHourlyRate, tariff.HourlyRate(120))
	require.Equal(t, ExtendedHourlyRate, tariff.HourlyRate(121))
}

func TestElapsedMinutes(t *testing.T) {
	require.Equal(t, 0, ElapsedMinutes(0))
	require.Equal(t, 0, ElapsedMinutes(-time.Minute))
	require.Equal(t, 1, ElapsedMinutes(time.Second))
	require.Equal(t, 1, ElapsedMinutes(time.Minute))
	// A started minute counts in full: 90s bills as 2 minutes.
	require.Equal(t, 2, ElapsedMinutes(90*time.Second))
	require.Equal(t, 60, ElapsedMinutes(time.Hour))
	require.Equal(t, 61, ElapsedMinutes(time.Hour+time.Second))
}

func TestElapsedWholeHours(t *testing.T) {
	require.Equal(t, 0, ElapsedWholeHours(0))
	require.Equal(t, 1, ElapsedWholeHours(time.Minute))
	require.Equal(t, 1, ElapsedWholeHours(time.Hour))
	require.Equal(t, 2, ElapsedWholeHours(time.Hour+time.Minute))
}

func TestLegacyHourlyRate(t *testing.T) {
	require.Equal(t, 0.0, LegacyHourlyRate(0))
	require.Equal(t, StandardHourlyRate, LegacyHourlyRate(1))
	require.Equal(t, StandardHourlyRate, LegacyHourlyRate(2))
	require.Equal(t, ExtendedHourlyRate, LegacyHourlyRate(3))
	require.Equal(t, ExtendedHourlyRate, LegacyHourlyRate(10))
}
