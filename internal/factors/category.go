// Package factors holds characterization factor tables: read-only lookups
// of environmental factors keyed by substance and impact category.
//
// Tables are constructed explicitly (built-in presets or YAML files) and
// injected into the matcher and the engine; there is no package-level
// factor database.
package factors

import "fmt"

// ImpactCategory names a midpoint impact category.
type ImpactCategory string

// Impact categories.
const (
	GWP                    ImpactCategory = "gwp"
	Acidification          ImpactCategory = "acidification"
	Eutrophication         ImpactCategory = "eutrophication"
	OzoneDepletion         ImpactCategory = "ozone_depletion"
	PhotochemicalOxidation ImpactCategory = "photochemical_oxidation"
	AbioticDepletion       ImpactCategory = "abiotic_depletion"
)

// CategoryInfo describes an impact category for reporting.
type CategoryInfo struct {
	Category ImpactCategory
	Name     string
	Unit     string
}

// AllCategories returns every known category in reporting order.
func AllCategories() []CategoryInfo {
	return []CategoryInfo{
		{Category: GWP, Name: "Global warming potential (100a)", Unit: "kg CO2-eq"},
		{Category: Acidification, Name: "Acidification potential", Unit: "kg SO2-eq"},
		{Category: Eutrophication, Name: "Eutrophication potential", Unit: "kg PO4-eq"},
		{Category: OzoneDepletion, Name: "Ozone depletion potential", Unit: "kg CFC-11-eq"},
		{Category: PhotochemicalOxidation, Name: "Photochemical ozone creation", Unit: "kg C2H4-eq"},
		{Category: AbioticDepletion, Name: "Abiotic depletion (elements)", Unit: "kg Sb-eq"},
	}
}

// Info returns the description of c.
func Info(c ImpactCategory) (CategoryInfo, error) {
	for _, info := range AllCategories() {
		if info.Category == c {
			return info, nil
		}
	}
	return CategoryInfo{}, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
}

// Valid reports whether c is a known category.
func (c ImpactCategory) Valid() bool {
	_, err := Info(c)
	return err == nil
}

// order returns the reporting position of c, or len(AllCategories()) when unknown.
func (c ImpactCategory) order() int {
	for i, info := range AllCategories() {
		if info.Category == c {
			return i
		}
	}
	return len(AllCategories())
}
