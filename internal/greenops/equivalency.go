package greenops

import (
	"fmt"
	"math"
)

//nolint:gochecknoglobals // Static EPA table.
var equivalencyTable = []struct {
	kind   EquivalencyType
	factor float64
	label  string
}{
	{EquivalencyMilesDriven, EPAMilesDrivenFactor, "miles driven"},
	{EquivalencySmartphonesCharged, EPASmartphoneChargeFactor, "smartphones charged"},
	{EquivalencyTreeSeedlings, EPATreeSeedlingFactor, "tree seedlings grown for 10 years"},
	{EquivalencyHomeDays, EPAHomeDayFactor, "days of home electricity"},
}

// Calculate computes EPA equivalencies for a footprint expressed in any
// mass unit (kg, t, kgCO2e, ...).
//
// Footprints below MinEquivalencyThresholdKg return an empty result with
// no error. Negative footprints return ErrNegativeValue.
func Calculate(value float64, unit string) (Equivalencies, error) {
	kg, err := NormalizeToKg(value, unit)
	if err != nil {
		return Equivalencies{Empty: true}, err
	}
	return CalculateKg(kg)
}

// CalculateKg is Calculate for a footprint already in kg CO2e.
func CalculateKg(kg float64) (Equivalencies, error) {
	if math.IsNaN(kg) || math.IsInf(kg, 0) {
		return Equivalencies{Empty: true}, ErrCalculationOverflow
	}
	if kg < 0 {
		return Equivalencies{Empty: true}, ErrNegativeValue
	}
	if kg < MinEquivalencyThresholdKg {
		return Equivalencies{InputKg: kg, Empty: true}, nil
	}

	out := Equivalencies{InputKg: kg, Results: make([]Equivalency, 0, len(equivalencyTable))}
	for _, row := range equivalencyTable {
		v := kg / row.factor
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return Equivalencies{Empty: true}, ErrCalculationOverflow
		}
		out.Results = append(out.Results, Equivalency{
			Type:           row.kind,
			Value:          v,
			FormattedValue: formatEquivalencyValue(v),
			Label:          row.label,
		})
	}

	out.DisplayText = fmt.Sprintf("Equivalent to driving ~%s miles or charging ~%s smartphones",
		out.Results[0].FormattedValue, out.Results[1].FormattedValue)
	return out, nil
}

func formatEquivalencyValue(v float64) string {
	if v >= LargeNumberThreshold {
		return FormatLarge(v)
	}
	return FormatNumber(int64(math.Round(v)))
}
