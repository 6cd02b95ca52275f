package greenops

// EPA greenhouse gas equivalency divisors (2024 edition):
//
//	equivalency = kg_CO2e / factor
const (
	// EPAMilesDrivenFactor is kg CO2e per mile of an average passenger vehicle.
	EPAMilesDrivenFactor = 0.192

	// EPASmartphoneChargeFactor is kg CO2e per full smartphone charge.
	EPASmartphoneChargeFactor = 0.00822

	// EPATreeSeedlingFactor is kg CO2e absorbed by one urban tree seedling over 10 years.
	EPATreeSeedlingFactor = 60.0

	// EPAHomeDayFactor is kg CO2e of one day of average US home electricity.
	EPAHomeDayFactor = 18.3
)

// Mass conversions to kilograms.
const (
	MilligramsToKg = 0.000001
	GramsToKg      = 0.001
	KgToKg         = 1.0
	TonsToKg       = 1000.0
	PoundsToKg     = 0.453592
)

// Energy conversions to megajoules.
const (
	KJToMJ  = 0.001
	MJToMJ  = 1.0
	GJToMJ  = 1000.0
	WhToMJ  = 0.0036
	KWhToMJ = 3.6
	MWhToMJ = 3600.0
)

// Canonical units produced by the normalizers.
const (
	MassUnit   = "kg"
	EnergyUnit = "MJ"
	CarbonUnit = "kg CO2-eq"
)

// Display thresholds.
const (
	// MinEquivalencyThresholdKg is the smallest footprint that gets equivalencies.
	MinEquivalencyThresholdKg = 1.0

	// LargeNumberThreshold switches display to "~X.X million".
	LargeNumberThreshold = 1_000_000

	// BillionThreshold switches display to "~X.X billion".
	BillionThreshold = 1_000_000_000
)
