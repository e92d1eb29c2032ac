package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptIntDefaultsAndOverride(t *testing.T) {
	require.Equal(t, 16, optInt("DB_MAX_OPEN_CONNS", 16))

	t.Setenv("DB_MAX_OPEN_CONNS", "4")
	require.Equal(t, 4, optInt("DB_MAX_OPEN_CONNS", 16))
}

func TestOptFloatDefaultsAndOverride(t *testing.T) {
	require.Equal(t, 3.0, optFloat("TARIFF_THRESHOLD_HOURS", 3))

	t.Setenv("TARIFF_THRESHOLD_HOURS", "2")
	require.Equal(t, 2.0, optFloat("TARIFF_THRESHOLD_HOURS", 3))
}
