package greenops

import (
	"math"
	"strings"
)

// UnitKind tells which dimension a unit measures.
type UnitKind int

// Unit kinds.
const (
	UnitUnknown UnitKind = iota
	UnitMass
	UnitEnergy
)

// massFactor returns the conversion factor to kilograms. CO2e-suffixed
// variants (kgCO2e, tCO2e, ...) are accepted since emissions are masses.
func massFactor(unit string) (float64, bool) {
	u := strings.ToLower(strings.TrimSpace(unit))
	u = strings.TrimSuffix(u, "co2e")
	u = strings.TrimSuffix(u, " co2-eq")
	switch u {
	case "mg":
		return MilligramsToKg, true
	case "g":
		return GramsToKg, true
	case "kg":
		return KgToKg, true
	case "t", "tonne", "tonnes":
		return TonsToKg, true
	case "lb", "lbs":
		return PoundsToKg, true
	default:
		return 0, false
	}
}

// energyFactor returns the conversion factor to megajoules.
func energyFactor(unit string) (float64, bool) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "kj":
		return KJToMJ, true
	case "mj":
		return MJToMJ, true
	case "gj":
		return GJToMJ, true
	case "wh":
		return WhToMJ, true
	case "kwh":
		return KWhToMJ, true
	case "mwh":
		return MWhToMJ, true
	default:
		return 0, false
	}
}

// Classify reports the dimension of a unit.
func Classify(unit string) UnitKind {
	if _, ok := massFactor(unit); ok {
		return UnitMass
	}
	if _, ok := energyFactor(unit); ok {
		return UnitEnergy
	}
	return UnitUnknown
}

// NormalizeToKg converts a mass (or CO2e mass) to kilograms.
// Returns ErrInvalidUnit for non-mass units and ErrCalculationOverflow for
// non-finite input or result. Negative values are allowed: avoided
// burdens and credits are negative masses.
func NormalizeToKg(value float64, unit string) (float64, error) {
	factor, ok := massFactor(unit)
	if !ok {
		return 0, ErrInvalidUnit
	}
	return scale(value, factor)
}

// NormalizeToMJ converts an energy quantity to megajoules.
func NormalizeToMJ(value float64, unit string) (float64, error) {
	factor, ok := energyFactor(unit)
	if !ok {
		return 0, ErrInvalidUnit
	}
	return scale(value, factor)
}

// Normalize converts value to the canonical unit of its dimension and
// returns the canonical unit. Unknown units return ErrInvalidUnit.
func Normalize(value float64, unit string) (float64, string, error) {
	switch Classify(unit) {
	case UnitMass:
		v, err := NormalizeToKg(value, unit)
		return v, MassUnit, err
	case UnitEnergy:
		v, err := NormalizeToMJ(value, unit)
		return v, EnergyUnit, err
	default:
		return 0, "", ErrInvalidUnit
	}
}

func scale(value, factor float64) (float64, error) {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, ErrCalculationOverflow
	}
	result := value * factor
	if math.IsInf(result, 0) {
		return 0, ErrCalculationOverflow
	}
	return result, nil
}
