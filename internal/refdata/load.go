package refdata

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

type waterTypeOverride struct {
	Concentrations     map[Analyte]float64 `yaml:"concentrations"`
	SludgeYieldKgPerM3 *float64            `yaml:"sludge_yield_kg_per_m3"`
}

type overrideFile struct {
	WaterTypes map[string]waterTypeOverride   `yaml:"water_types"`
	Profiles   map[string]map[Analyte]float64 `yaml:"profiles"`
}

// Load returns the built-in tables merged with an optional YAML override
// file. A named water type or profile in the file replaces the default entry
// wholesale (an omitted sludge yield therefore means unknown, not "keep the
// default"); names not present in the defaults are appended. An empty path
// returns the defaults unchanged.
func Load(path string) (*Store, error) {
	if path == "" {
		return Default(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference data: %w", err)
	}
	var file overrideFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse reference data %s: %w", path, err)
	}

	types := defaultWaterTypes()
	replaced := make(map[string]bool, len(file.WaterTypes))
	for i, wt := range types {
		if o, ok := file.WaterTypes[wt.Name]; ok {
			types[i] = WaterType{
				Name:               wt.Name,
				Concentrations:     o.Concentrations,
				SludgeYieldKgPerM3: o.SludgeYieldKgPerM3,
			}
			replaced[wt.Name] = true
		}
	}
	// New categories go after the defaults, alphabetically for determinism.
	var added []string
	for name := range file.WaterTypes {
		if !replaced[name] {
			added = append(added, name)
		}
	}
	sort.Strings(added)
	for _, name := range added {
		o := file.WaterTypes[name]
		types = append(types, WaterType{
			Name:               name,
			Concentrations:     o.Concentrations,
			SludgeYieldKgPerM3: o.SludgeYieldKgPerM3,
		})
	}

	profiles := defaultProfiles()
	replacedClass := make(map[PHClass]bool, len(file.Profiles))
	for i, p := range profiles {
		if levels, ok := file.Profiles[string(p.Class)]; ok {
			profiles[i] = Profile{Class: p.Class, Levels: levels}
			replacedClass[p.Class] = true
		}
	}
	var addedClasses []string
	for class := range file.Profiles {
		if !replacedClass[PHClass(class)] {
			addedClasses = append(addedClasses, class)
		}
	}
	sort.Strings(addedClasses)
	for _, class := range addedClasses {
		profiles = append(profiles, Profile{Class: PHClass(class), Levels: file.Profiles[class]})
	}

	s, err := New(types, profiles)
	if err != nil {
		return nil, fmt.Errorf("reference data %s: %w", path, err)
	}
	return s, nil
}
