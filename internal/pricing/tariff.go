// Package pricing implements the settlement engine: elapsed-time rounding,
// balance consumption, the fixed two-step tariff and the invoice breakdown.
// It is pure computation on in-memory inputs; storage and HTTP live in the
// repository and handler packages.
package pricing

import "time"

// Fixed business tariff for paid table time.  The whole paid block is
// billed at a single rate chosen by its own total length: up to the
// threshold it costs StandardHourlyRate per hour, beyond it the cheaper
// ExtendedHourlyRate applies.  There is no per-tier blending.
const (
	StandardHourlyRate = 50000.0
	ExtendedHourlyRate = 45000.0

	// DefaultThresholdHours is the canonical breakpoint.  Historical call
	// sites disagreed between 2 and 3 hours; 3 is what settlements actually
	// charged, so 3 is the default and the value is configurable.
	DefaultThresholdHours = 3.0
)

// Tariff selects the hourly rate for paid minutes.
type Tariff struct {
	ThresholdHours float64
}

// DefaultTariff returns the tariff with the canonical threshold.
func DefaultTariff() Tariff { return Tariff{ThresholdHours: DefaultThresholdHours} }

// NewTariff builds a tariff with the given threshold, falling back to the
// default when the value is not positive.
func NewTariff(thresholdHours float64) Tariff {
	if thresholdHours <= 0 {
		thresholdHours = DefaultThresholdHours
	}
	return Tariff{ThresholdHours: thresholdHours}
}

// HourlyRate returns the rate per hour applied to the given paid block.
// Zero paid minutes price at zero.
func (t Tariff) HourlyRate(paidMinutes int) float64 {
	if paidMinutes <= 0 {
		return 0
	}
	if float64(paidMinutes)/60 <= t.ThresholdHours {
		return StandardHourlyRate
	}
	return ExtendedHourlyRate
}

// MinuteRate is HourlyRate expressed per minute (50000/60 = 833.33 or
// 45000/60 = 750).
func (t Tariff) MinuteRate(paidMinutes int) float64 {
	return t.HourlyRate(paidMinutes) / 60
}

// ElapsedMinutes converts a duration to billable minutes, rounding up so a
// started minute always counts in full.  Non-positive durations yield zero.
func ElapsedMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	mins := int(d / time.Minute)
	if d%time.Minute != 0 {
		mins++
	}
	return mins
}

// ElapsedWholeHours converts a duration to whole hours rounded up.  Only the
// legacy hour-granularity preview uses this; settlement bills by minutes.
func ElapsedWholeHours(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	hours := int(d / time.Hour)
	if d%time.Hour != 0 {
		hours++
	}
	return hours
}

// LegacyHourlyRate is the rate table of the hour-granularity preview: one
// or two paid hours at the standard rate, anything longer at the extended
// rate.  Zero paid hours price at zero.
func LegacyHourlyRate(paidHours int) float64 {
	if paidHours <= 0 {
		return 0
	}
	if paidHours <= 2 {
		return StandardHourlyRate
	}
	return ExtendedHourlyRate
}
