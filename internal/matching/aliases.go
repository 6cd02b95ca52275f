package matching

//nolint:gochecknoglobals // Static alias data, copied by DefaultAliases.
var defaultAliases = [][2]string{
	{"钢", "steel_primary"},
	{"钢材", "steel_primary"},
	{"钢铁", "steel_primary"},
	{"steel", "steel_primary"},
	{"primary_steel", "steel_primary"},
	{"再生钢", "steel_recycled"},
	{"recycled_steel", "steel_recycled"},
	{"铝", "aluminum_primary"},
	{"铝材", "aluminum_primary"},
	{"aluminum", "aluminum_primary"},
	{"aluminium", "aluminum_primary"},
	{"recycled_aluminum", "aluminum_recycled"},
	{"水泥", "cement"},
	{"混凝土", "concrete"},
	{"铜", "copper"},
	{"玻璃", "glass"},
	{"纸", "paper"},
	{"纸张", "paper"},
	{"塑料", "plastic_pe"},
	{"polyethylene", "plastic_pe"},
	{"pe", "plastic_pe"},
	{"polypropylene", "plastic_pp"},
	{"pp", "plastic_pp"},
	{"pet", "plastic_pet"},
	{"电", "electricity_grid"},
	{"电力", "electricity_grid"},
	{"electricity", "electricity_grid"},
	{"grid_electricity", "electricity_grid"},
	{"电网电力", "electricity_grid"},
	{"绿电", "electricity_renewable"},
	{"可再生电力", "electricity_renewable"},
	{"天然气", "natural_gas"},
	{"gas", "natural_gas"},
	{"柴油", "diesel"},
	{"汽油", "gasoline"},
	{"petrol", "gasoline"},
	{"煤", "coal"},
	{"煤炭", "coal"},
	{"二氧化碳", "co2"},
	{"carbon_dioxide", "co2"},
	{"甲烷", "ch4"},
	{"methane", "ch4"},
	{"氧化亚氮", "n2o"},
	{"nitrous_oxide", "n2o"},
	{"六氟化硫", "sf6"},
	{"二氧化硫", "so2"},
	{"sulfur_dioxide", "so2"},
	{"sulphur_dioxide", "so2"},
	{"氮氧化物", "nox"},
	{"nitrogen_oxides", "nox"},
	{"氨", "nh3"},
	{"ammonia", "nh3"},
	{"磷酸盐", "po4"},
	{"phosphate", "po4"},
	{"一氧化碳", "co"},
	{"carbon_monoxide", "co"},
	{"填埋", "waste_landfill"},
	{"landfill", "waste_landfill"},
	{"焚烧", "waste_incineration"},
	{"incineration", "waste_incineration"},
}

// DefaultAliases maps common synonyms and Chinese names onto table keys.
// Keys and values are in Normalize form.
func DefaultAliases() map[string]string {
	out := make(map[string]string, len(defaultAliases))
	for _, pair := range defaultAliases {
		out[pair[0]] = pair[1]
	}
	return out
}
