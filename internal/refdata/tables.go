package refdata

// Blend constants shared by the calculators and their callers.
const (
	// B9DilutionFactor is the wastewater fraction retained after mixing in
	// 30% B9 electrolyte: final concentration = blend concentration * 0.7.
	B9DilutionFactor = 0.7

	// WaterPerKgH2 is litres of electrolyte per kg of hydrogen produced
	// (40% efficiency assumption for the 250kW electrolyser).
	WaterPerKgH2 = 12.6

	// DefaultMaxCombinationSize and MaxCombinationSize bound how many water
	// sources a single blend may combine. The exhaustive search grows as
	// sum of C(n,r) for r=1..max, so the cap keeps it tractable.
	DefaultMaxCombinationSize = 4
	MaxCombinationSize        = 5

	// DefaultTopN is how many ranked combinations a search reports unless
	// the caller asks otherwise.
	DefaultTopN = 20

	// MaxSourceEntries is the most distinct sources one request may carry.
	MaxSourceEntries = 15
)

func yield(v float64) *float64 { return &v }

// defaultWaterTypes holds median concentrations (mg/L) per water category,
// EA Statistics 2000-2025, restricted to the 8 analytes assessed for the
// electrolyte feed. Sludge yields are kg dry solids per m3 of inflow; nil
// where no sampling data exists for the category.
func defaultWaterTypes() []WaterType {
	return []WaterType{
		{
			Name: "PURIFIED WATER",
			Concentrations: map[Analyte]float64{
				Chloride: 0.0, Bromide: 0.0, Iodide: 0.0, Sulphide: 0.0,
				Cyanide: 0.0, Nitrate: 0.0, Nitrite: 0.0, Ammonium: 0.0,
			},
			SludgeYieldKgPerM3: yield(0.0),
		},
		{
			Name: "RAIN WATER",
			Concentrations: map[Analyte]float64{
				Chloride: 3.47, Bromide: 0.0, Iodide: 0.0, Sulphide: 0.0,
				Cyanide: 0.0, Nitrate: 0.27, Nitrite: 0.0, Ammonium: 0.41,
			},
			SludgeYieldKgPerM3: yield(0.0),
		},
		{
			Name: "TAP WATER (CARDIFF)",
			Concentrations: map[Analyte]float64{
				Chloride: 0.0, Bromide: 0.0, Iodide: 0.0, Sulphide: 0.0,
				Cyanide: 0.0, Nitrate: 0.0, Nitrite: 0.0, Ammonium: 0.0,
			},
			SludgeYieldKgPerM3: yield(0.0),
		},
		{
			Name: "FINAL SEWAGE EFFLUENT",
			Concentrations: map[Analyte]float64{
				Chloride: 94.3, Bromide: 0.119, Iodide: 0.003, Sulphide: 0.017,
				Cyanide: 0.005, Nitrate: 14.0, Nitrite: 0.2, Ammonium: 0.82,
			},
			SludgeYieldKgPerM3: yield(0.07),
		},
		{
			Name: "CRUDE SEWAGE",
			Concentrations: map[Analyte]float64{
				Chloride: 180.0, Bromide: 0.0, Iodide: 0.0, Sulphide: 0.016,
				Cyanide: 0.007, Nitrate: 0.6, Nitrite: 0.038, Ammonium: 28.0,
			},
			SludgeYieldKgPerM3: yield(0.26),
		},
		{
			Name: "ANY SEWAGE",
			Concentrations: map[Analyte]float64{
				Chloride: 99.0, Bromide: 0.0, Iodide: 0.0, Sulphide: 0.022,
				Cyanide: 0.005, Nitrate: 9.72, Nitrite: 0.12, Ammonium: 3.39,
			},
			SludgeYieldKgPerM3: yield(0.18),
		},
		{
			Name: "ANY TRADE EFFLUENT",
			Concentrations: map[Analyte]float64{
				Chloride: 77.0, Bromide: 0.317, Iodide: 0.013, Sulphide: 0.024,
				Cyanide: 0.012, Nitrate: 3.415, Nitrite: 0.044, Ammonium: 0.5,
			},
			SludgeYieldKgPerM3: nil, // mixed trade inflows, no usable sludge sampling
		},
		{
			Name: "TRADE EFFLUENT - FRESHWATER RETURNED ABSTRACTED",
			Concentrations: map[Analyte]float64{
				Chloride: 39.6, Bromide: 0.145, Iodide: 0.0, Sulphide: 0.01,
				Cyanide: 0.0, Nitrate: 6.225, Nitrite: 0.024, Ammonium: 0.087,
			},
			SludgeYieldKgPerM3: nil,
		},
		{
			Name: "STORM SEWER OVERFLOW DISCHARGE",
			Concentrations: map[Analyte]float64{
				Chloride: 58.4, Bromide: 0.0, Iodide: 0.0, Sulphide: 0.073,
				Cyanide: 0.382, Nitrate: 0.9, Nitrite: 0.1, Ammonium: 6.43,
			},
			SludgeYieldKgPerM3: yield(0.11),
		},
		{
			Name: "SURFACE DRAINAGE",
			Concentrations: map[Analyte]float64{
				Chloride: 69.6, Bromide: 0.076, Iodide: 0.02, Sulphide: 0.015,
				Cyanide: 0.005, Nitrate: 1.68, Nitrite: 0.05, Ammonium: 0.5,
			},
			SludgeYieldKgPerM3: yield(0.05),
		},
		{
			Name: "ANY LEACHATE",
			Concentrations: map[Analyte]float64{
				Chloride: 778.0, Bromide: 7.6, Iodide: 0.02, Sulphide: 0.07,
				Cyanide: 0.05, Nitrate: 0.9, Nitrite: 0.1, Ammonium: 120.5,
			},
			SludgeYieldKgPerM3: nil,
		},
		{
			Name: "GROUNDWATER - PURGED/PUMPED/REFILLED",
			Concentrations: map[Analyte]float64{
				Chloride: 43.8, Bromide: 0.082, Iodide: 0.003, Sulphide: 0.01,
				Cyanide: 0.005, Nitrate: 6.0, Nitrite: 0.004, Ammonium: 0.089,
			},
			SludgeYieldKgPerM3: yield(0.02),
		},
		{
			Name: "MINEWATER",
			Concentrations: map[Analyte]float64{
				Chloride: 19.0, Bromide: 0.101, Iodide: 0.003, Sulphide: 0.01,
				Cyanide: 0.005, Nitrate: 0.312, Nitrite: 0.004, Ammonium: 0.03,
			},
			SludgeYieldKgPerM3: yield(0.04),
		},
		{
			Name: "CANAL WATER",
			Concentrations: map[Analyte]float64{
				Chloride: 58.0, Bromide: 0.067, Iodide: 0.0, Sulphide: 0.011,
				Cyanide: 0.008, Nitrate: 2.04, Nitrite: 0.019, Ammonium: 0.056,
			},
			SludgeYieldKgPerM3: yield(0.03),
		},
	}
}

// defaultProfiles holds the escalation levels (mg/L) per pH class. There is
// no tabulated acidic profile; deployments that run acidic streams supply
// one through the override file.
func defaultProfiles() []Profile {
	return []Profile{
		{
			Class: Alkaline,
			Levels: map[Analyte]float64{
				Chloride: 3500.0,
				Bromide:  8.0,
				Iodide:   1.3,
				Sulphide: 1.0,
				Cyanide:  0.02,
				Nitrate:  50.0,
				Nitrite:  50.0,
				Ammonium: 10.0,
			},
		},
		{
			Class: Neutral,
			Levels: map[Analyte]float64{
				Chloride: 20.0,
				Bromide:  0.5,
				Iodide:   0.1,
				Sulphide: 0.2,
				Cyanide:  0.02,
				Nitrate:  10.0,
				Nitrite:  1.0,
				Ammonium: 2.0,
			},
		},
	}
}

// Default returns the built-in reference tables.
func Default() *Store {
	s, err := New(defaultWaterTypes(), defaultProfiles())
	if err != nil {
		// The built-in tables are compile-time data; failing to assemble
		// them is a programming error, not a runtime condition.
		panic(err)
	}
	return s
}
