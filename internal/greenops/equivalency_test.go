package greenops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	out, err := Calculate(150, "kg")
	require.NoError(t, err)
	assert.False(t, out.Empty)
	assert.InDelta(t, 150.0, out.InputKg, 1e-9)
	require.Len(t, out.Results, 4)

	miles, ok := out.Find(EquivalencyMilesDriven)
	require.True(t, ok)
	assert.Equal(t, "781", miles.FormattedValue)

	phones, ok := out.Find(EquivalencySmartphonesCharged)
	require.True(t, ok)
	assert.Equal(t, "18,248", phones.FormattedValue)

	assert.Equal(t, "Equivalent to driving ~781 miles or charging ~18,248 smartphones", out.DisplayText)
}

func TestCalculateTonnes(t *testing.T) {
	out, err := Calculate(0.15, "tCO2e")
	require.NoError(t, err)
	assert.InDelta(t, 150.0, out.InputKg, 1e-9)
}

func TestCalculateBelowThreshold(t *testing.T) {
	out, err := CalculateKg(0.5)
	require.NoError(t, err)
	assert.True(t, out.Empty)
	assert.Empty(t, out.Results)
	assert.InDelta(t, 0.5, out.InputKg, 1e-9)
}

func TestCalculateErrors(t *testing.T) {
	_, err := Calculate(10, "kWh")
	require.ErrorIs(t, err, ErrInvalidUnit)

	_, err = CalculateKg(-1)
	require.ErrorIs(t, err, ErrNegativeValue)
}

func TestCalculateLargeValues(t *testing.T) {
	out, err := CalculateKg(1_000_000)
	require.NoError(t, err)
	phones, ok := out.Find(EquivalencySmartphonesCharged)
	require.True(t, ok)
	assert.Equal(t, "~121.7 million", phones.FormattedValue)
}

func TestEquivalencyTypeString(t *testing.T) {
	assert.Equal(t, "TreeSeedlings", EquivalencyTreeSeedlings.String())
	assert.Equal(t, "EquivalencyType(9)", EquivalencyType(9).String())
}
