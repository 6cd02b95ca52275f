package factors

import "fmt"

// Built-in table names, from least to most complete.
const (
	TableBasic        = "basic"
	TableProfessional = "professional"
	TableResearch     = "research"
	TableCarbon       = "carbon"
)

// Factor sources.
const (
	sourceIPCC    = "IPCC AR5 GWP100"
	sourceCML     = "CML-IA baseline"
	sourceGeneric = "generic cradle-to-gate dataset"
)

// gwpCore covers greenhouse gases and the most common materials and
// energy carriers. Material factors are per kg, electricity per kWh,
// natural gas per m3, diesel per litre.
//
//nolint:gochecknoglobals // Static reference data, copied into each Table.
var gwpCore = []Factor{
	{Substance: "co2", Category: GWP, Value: 1, Source: sourceIPCC},
	{Substance: "ch4", Category: GWP, Value: 28, Source: sourceIPCC},
	{Substance: "n2o", Category: GWP, Value: 265, Source: sourceIPCC},
	{Substance: "steel_primary", Category: GWP, Value: 2.3, Source: sourceGeneric},
	{Substance: "aluminum_primary", Category: GWP, Value: 11.5, Source: sourceGeneric},
	{Substance: "cement", Category: GWP, Value: 0.91, Source: sourceGeneric},
	{Substance: "plastic_pe", Category: GWP, Value: 1.9, Source: sourceGeneric},
	{Substance: "electricity_grid", Category: GWP, Value: 0.58, Source: sourceGeneric},
	{Substance: "natural_gas", Category: GWP, Value: 2.0, Source: sourceGeneric},
	{Substance: "diesel", Category: GWP, Value: 2.68, Source: sourceGeneric},
}

//nolint:gochecknoglobals // Static reference data.
var gwpExtended = []Factor{
	{Substance: "sf6", Category: GWP, Value: 23500, Source: sourceIPCC},
	{Substance: "hfc_134a", Category: GWP, Value: 1300, Source: sourceIPCC},
	{Substance: "cf4", Category: GWP, Value: 6630, Source: sourceIPCC},
	{Substance: "steel_recycled", Category: GWP, Value: 0.6, Source: sourceGeneric},
	{Substance: "aluminum_recycled", Category: GWP, Value: 0.6, Source: sourceGeneric},
	{Substance: "copper", Category: GWP, Value: 3.8, Source: sourceGeneric},
	{Substance: "concrete", Category: GWP, Value: 0.13, Source: sourceGeneric},
	{Substance: "glass", Category: GWP, Value: 0.85, Source: sourceGeneric},
	{Substance: "plastic_pp", Category: GWP, Value: 1.6, Source: sourceGeneric},
	{Substance: "plastic_pet", Category: GWP, Value: 2.2, Source: sourceGeneric},
	{Substance: "paper", Category: GWP, Value: 1.1, Source: sourceGeneric},
	{Substance: "electricity_renewable", Category: GWP, Value: 0.05, Source: sourceGeneric},
	{Substance: "coal", Category: GWP, Value: 2.42, Source: sourceGeneric},
	{Substance: "gasoline", Category: GWP, Value: 2.31, Source: sourceGeneric},
	{Substance: "waste_landfill", Category: GWP, Value: 0.45, Source: sourceGeneric},
	{Substance: "waste_incineration", Category: GWP, Value: 0.9, Source: sourceGeneric},
}

//nolint:gochecknoglobals // Static reference data.
var acidification = []Factor{
	{Substance: "so2", Category: Acidification, Value: 1, Source: sourceCML},
	{Substance: "nox", Category: Acidification, Value: 0.5, Source: sourceCML},
	{Substance: "nh3", Category: Acidification, Value: 1.6, Source: sourceCML},
	{Substance: "hcl", Category: Acidification, Value: 0.88, Source: sourceCML},
	{Substance: "hf", Category: Acidification, Value: 1.6, Source: sourceCML},
	{Substance: "h2s", Category: Acidification, Value: 1.88, Source: sourceCML},
}

//nolint:gochecknoglobals // Static reference data.
var eutrophication = []Factor{
	{Substance: "po4", Category: Eutrophication, Value: 1, Source: sourceCML},
	{Substance: "nox", Category: Eutrophication, Value: 0.13, Source: sourceCML},
	{Substance: "nh3", Category: Eutrophication, Value: 0.35, Source: sourceCML},
	{Substance: "no3", Category: Eutrophication, Value: 0.1, Source: sourceCML},
	{Substance: "nitrogen", Category: Eutrophication, Value: 0.42, Source: sourceCML},
	{Substance: "phosphorus", Category: Eutrophication, Value: 3.06, Source: sourceCML},
	{Substance: "cod", Category: Eutrophication, Value: 0.022, Source: sourceCML},
}

//nolint:gochecknoglobals // Static reference data.
var ozoneDepletion = []Factor{
	{Substance: "cfc_11", Category: OzoneDepletion, Value: 1, Source: sourceCML},
	{Substance: "cfc_12", Category: OzoneDepletion, Value: 1, Source: sourceCML},
	{Substance: "hcfc_22", Category: OzoneDepletion, Value: 0.055, Source: sourceCML},
	{Substance: "halon_1301", Category: OzoneDepletion, Value: 10, Source: sourceCML},
	{Substance: "ccl4", Category: OzoneDepletion, Value: 1.1, Source: sourceCML},
	{Substance: "ch3br", Category: OzoneDepletion, Value: 0.6, Source: sourceCML},
}

//nolint:gochecknoglobals // Static reference data.
var photochemical = []Factor{
	{Substance: "c2h4", Category: PhotochemicalOxidation, Value: 1, Source: sourceCML},
	{Substance: "ch4", Category: PhotochemicalOxidation, Value: 0.006, Source: sourceCML},
	{Substance: "co", Category: PhotochemicalOxidation, Value: 0.027, Source: sourceCML},
	{Substance: "nmvoc", Category: PhotochemicalOxidation, Value: 0.416, Source: sourceCML},
	{Substance: "so2", Category: PhotochemicalOxidation, Value: 0.048, Source: sourceCML},
	{Substance: "nox", Category: PhotochemicalOxidation, Value: 0.028, Source: sourceCML},
	{Substance: "benzene", Category: PhotochemicalOxidation, Value: 0.22, Source: sourceCML},
	{Substance: "toluene", Category: PhotochemicalOxidation, Value: 0.64, Source: sourceCML},
}

//nolint:gochecknoglobals // Static reference data.
var abioticDepletion = []Factor{
	{Substance: "antimony", Category: AbioticDepletion, Value: 1, Source: sourceCML},
	{Substance: "copper", Category: AbioticDepletion, Value: 0.00137, Source: sourceCML},
	{Substance: "zinc", Category: AbioticDepletion, Value: 0.000538, Source: sourceCML},
	{Substance: "lead", Category: AbioticDepletion, Value: 0.00634, Source: sourceCML},
	{Substance: "iron", Category: AbioticDepletion, Value: 5.24e-8, Source: sourceCML},
}

// BuiltinNames lists the built-in table names.
func BuiltinNames() []string {
	return []string{TableBasic, TableProfessional, TableResearch, TableCarbon}
}

// Builtin returns a fresh copy of a built-in table.
func Builtin(name string) (*Table, error) {
	var sets [][]Factor
	switch name {
	case TableBasic:
		sets = [][]Factor{gwpCore}
	case TableProfessional:
		sets = [][]Factor{gwpCore, gwpExtended, acidification, eutrophication, ozoneDepletion}
	case TableResearch:
		sets = [][]Factor{gwpCore, gwpExtended, acidification, eutrophication, ozoneDepletion,
			photochemical, abioticDepletion}
	case TableCarbon:
		sets = [][]Factor{gwpCore, gwpExtended}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}

	var all []Factor
	for _, s := range sets {
		all = append(all, s...)
	}
	return NewTable(name, all)
}

// MustBuiltin is Builtin for names known at compile time.
func MustBuiltin(name string) *Table {
	t, err := Builtin(name)
	if err != nil {
		panic(err)
	}
	return t
}
