// Package greenops normalizes physical units and turns carbon footprints
// into relatable equivalencies.
//
// Mass quantities normalize to kilograms and energy quantities to
// megajoules. Footprints in kg CO2e convert to EPA-published
// equivalencies such as miles driven or tree seedlings grown.
package greenops

import "fmt"

// EquivalencyType represents a category of carbon emission equivalency.
type EquivalencyType int

const (
	// EquivalencyMilesDriven converts CO2e to miles driven in an average passenger vehicle.
	EquivalencyMilesDriven EquivalencyType = iota

	// EquivalencySmartphonesCharged converts CO2e to smartphone full charges.
	EquivalencySmartphonesCharged

	// EquivalencyTreeSeedlings converts CO2e to tree seedlings grown for 10 years.
	EquivalencyTreeSeedlings

	// EquivalencyHomeDays converts CO2e to days of average US home electricity use.
	EquivalencyHomeDays
)

// String returns a human-readable representation of the EquivalencyType.
func (e EquivalencyType) String() string {
	switch e {
	case EquivalencyMilesDriven:
		return "MilesDriven"
	case EquivalencySmartphonesCharged:
		return "SmartphonesCharged"
	case EquivalencyTreeSeedlings:
		return "TreeSeedlings"
	case EquivalencyHomeDays:
		return "HomeDays"
	default:
		return fmt.Sprintf("EquivalencyType(%d)", e)
	}
}

// Equivalency is a single calculated equivalency.
type Equivalency struct {
	Type           EquivalencyType `json:"type"`
	Value          float64         `json:"value"`
	FormattedValue string          `json:"formattedValue"`
	Label          string          `json:"label"`
}

// Equivalencies is the full set computed for one footprint.
type Equivalencies struct {
	// InputKg is the normalized footprint in kilograms CO2e.
	InputKg float64 `json:"inputKg"`

	Results []Equivalency `json:"results,omitempty"`

	// DisplayText is the prose form, e.g.
	// "Equivalent to driving ~781 miles or charging ~18,248 smartphones".
	DisplayText string `json:"displayText,omitempty"`

	// Empty is set when the footprint is below MinEquivalencyThresholdKg.
	Empty bool `json:"empty"`
}

// Find returns the equivalency of the given type.
func (e Equivalencies) Find(t EquivalencyType) (Equivalency, bool) {
	for _, r := range e.Results {
		if r.Type == t {
			return r, true
		}
	}
	return Equivalency{}, false
}
