package refdata

import (
	"fmt"
	"sort"
)

// Analyte is one of the regulated contaminants tracked per litre of feed water.
type Analyte string

const (
	Chloride Analyte = "Chloride"
	Bromide  Analyte = "Bromide"
	Iodide   Analyte = "Iodide"
	Sulphide Analyte = "Sulphide"
	Cyanide  Analyte = "Cyanide"
	Nitrate  Analyte = "Nitrate"
	Nitrite  Analyte = "Nitrite"
	Ammonium Analyte = "Ammonium"
)

// AnalyteOrder is the canonical iteration order for the 8 assessed analytes.
// Every loop that reports per-analyte results walks this slice so that ties
// (worst analyte, limiting analyte) resolve the same way on every run.
var AnalyteOrder = []Analyte{
	Chloride, Bromide, Iodide, Sulphide, Cyanide, Nitrate, Nitrite, Ammonium,
}

// Valid reports whether a is one of the 8 assessed analytes.
func (a Analyte) Valid() bool {
	for _, known := range AnalyteOrder {
		if a == known {
			return true
		}
	}
	return false
}

// PHClass selects which escalation profile applies to a wastewater stream.
type PHClass string

const (
	Alkaline PHClass = "alkaline"
	Neutral  PHClass = "neutral"
	Acidic   PHClass = "acidic"
)

// WaterType is one reference water category with its median analyte
// concentrations (mg/L). Analytes absent from Concentrations contribute 0
// to any blend. SludgeYieldKgPerM3 is kg of dry sludge per m3 of this water;
// nil means no yield data exists and must surface as N/A, never as 0.
type WaterType struct {
	Name               string              `json:"name" yaml:"name"`
	Concentrations     map[Analyte]float64 `json:"concentrations" yaml:"concentrations"`
	SludgeYieldKgPerM3 *float64            `json:"sludge_yield_kg_per_m3" yaml:"sludge_yield_kg_per_m3"`
}

// Profile maps each assessed analyte to its escalation level (mg/L) for one
// pH class. A diluted concentration at or above the level is an escalation.
type Profile struct {
	Class  PHClass             `json:"class" yaml:"class"`
	Levels map[Analyte]float64 `json:"levels" yaml:"levels"`
}

// Store holds the reference tables for one process lifetime. It is built once
// at startup and injected into the calculators; nothing mutates it afterwards,
// so it is safe to share across requests without locking.
type Store struct {
	types    map[string]WaterType
	order    []string
	profiles map[PHClass]Profile
}

// New builds a Store from explicit tables. The slice order of types is kept
// as the display order. Duplicate names, empty names and unknown analytes are
// construction errors.
func New(types []WaterType, profiles []Profile) (*Store, error) {
	s := &Store{
		types:    make(map[string]WaterType, len(types)),
		profiles: make(map[PHClass]Profile, len(profiles)),
	}
	for _, wt := range types {
		if wt.Name == "" {
			return nil, fmt.Errorf("water type with empty name")
		}
		if _, dup := s.types[wt.Name]; dup {
			return nil, fmt.Errorf("duplicate water type %q", wt.Name)
		}
		for a := range wt.Concentrations {
			if !a.Valid() {
				return nil, fmt.Errorf("water type %q: unknown analyte %q", wt.Name, a)
			}
		}
		s.types[wt.Name] = wt
		s.order = append(s.order, wt.Name)
	}
	for _, p := range profiles {
		if p.Class == "" {
			return nil, fmt.Errorf("profile with empty pH class")
		}
		if _, dup := s.profiles[p.Class]; dup {
			return nil, fmt.Errorf("duplicate profile %q", p.Class)
		}
		for a := range p.Levels {
			if !a.Valid() {
				return nil, fmt.Errorf("profile %q: unknown analyte %q", p.Class, a)
			}
		}
		s.profiles[p.Class] = p
	}
	return s, nil
}

// WaterType looks up one reference water category by its exact name.
func (s *Store) WaterType(name string) (WaterType, bool) {
	wt, ok := s.types[name]
	return wt, ok
}

// Profile looks up the escalation profile for a pH class.
func (s *Store) Profile(class PHClass) (Profile, bool) {
	p, ok := s.profiles[class]
	return p, ok
}

// TypeNames returns water type names in display order: the common inflows
// first (rain, tap, purified), then the remaining categories in table order.
func (s *Store) TypeNames() []string {
	priority := []string{"RAIN WATER", "TAP WATER (CARDIFF)", "PURIFIED WATER"}
	names := make([]string, 0, len(s.order))
	for _, p := range priority {
		if _, ok := s.types[p]; ok {
			names = append(names, p)
		}
	}
	for _, n := range s.order {
		if !contains(names, n) {
			names = append(names, n)
		}
	}
	return names
}

// Profiles returns the pH classes this store carries, in table order.
func (s *Store) Profiles() []PHClass {
	classes := make([]PHClass, 0, len(s.profiles))
	for _, c := range []PHClass{Alkaline, Neutral, Acidic} {
		if _, ok := s.profiles[c]; ok {
			classes = append(classes, c)
		}
	}
	// Deployments may define profiles outside the three standard classes.
	var extra []string
	for c := range s.profiles {
		if c != Alkaline && c != Neutral && c != Acidic {
			extra = append(extra, string(c))
		}
	}
	sort.Strings(extra)
	for _, c := range extra {
		classes = append(classes, PHClass(c))
	}
	return classes
}

func contains(ss []string, v string) bool {
	for _, s := range ss {
		if s == v {
			return true
		}
	}
	return false
}
