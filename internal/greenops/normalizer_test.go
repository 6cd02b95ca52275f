package greenops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeToKg(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		unit    string
		want    float64
		wantErr error
	}{
		{name: "grams", value: 1500, unit: "g", want: 1.5},
		{name: "kilograms", value: 2, unit: "kg", want: 2},
		{name: "tonnes", value: 0.5, unit: "t", want: 500},
		{name: "pounds", value: 10, unit: "lb", want: 4.53592},
		{name: "kgCO2e", value: 3, unit: "kgCO2e", want: 3},
		{name: "characterized unit", value: 3, unit: "kg CO2-eq", want: 3},
		{name: "case and spaces", value: 1, unit: "  KG ", want: 1},
		{name: "negative credit", value: -2, unit: "kg", want: -2},
		{name: "energy unit", value: 1, unit: "kWh", wantErr: ErrInvalidUnit},
		{name: "unknown", value: 1, unit: "bushel", wantErr: ErrInvalidUnit},
		{name: "infinite", value: math.Inf(1), unit: "kg", wantErr: ErrCalculationOverflow},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeToKg(tc.value, tc.unit)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestNormalizeToMJ(t *testing.T) {
	got, err := NormalizeToMJ(10, "kWh")
	require.NoError(t, err)
	assert.InDelta(t, 36.0, got, 1e-9)

	got, err = NormalizeToMJ(2, "GJ")
	require.NoError(t, err)
	assert.InDelta(t, 2000.0, got, 1e-9)

	_, err = NormalizeToMJ(1, "kg")
	require.ErrorIs(t, err, ErrInvalidUnit)
}

func TestNormalize(t *testing.T) {
	v, unit, err := Normalize(500, "Wh")
	require.NoError(t, err)
	assert.Equal(t, EnergyUnit, unit)
	assert.InDelta(t, 1.8, v, 1e-9)

	v, unit, err = Normalize(250, "g")
	require.NoError(t, err)
	assert.Equal(t, MassUnit, unit)
	assert.InDelta(t, 0.25, v, 1e-9)

	_, _, err = Normalize(1, "piece")
	require.ErrorIs(t, err, ErrInvalidUnit)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, UnitMass, Classify("tonnes"))
	assert.Equal(t, UnitEnergy, Classify("MJ"))
	assert.Equal(t, UnitUnknown, Classify("m3"))
	assert.Equal(t, UnitUnknown, Classify(""))
}
