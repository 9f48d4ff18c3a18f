package refdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTablesComplete(t *testing.T) {
	s := Default()

	names := s.TypeNames()
	require.Len(t, names, 14)
	for _, name := range names {
		wt, ok := s.WaterType(name)
		require.True(t, ok, "missing water type %s", name)
		assert.Len(t, wt.Concentrations, 8, "water type %s", name)
		for _, a := range AnalyteOrder {
			_, present := wt.Concentrations[a]
			assert.True(t, present, "water type %s missing %s", name, a)
		}
	}

	for _, class := range []PHClass{Alkaline, Neutral} {
		p, ok := s.Profile(class)
		require.True(t, ok)
		assert.Len(t, p.Levels, 8)
	}
	_, ok := s.Profile(Acidic)
	assert.False(t, ok, "no built-in acidic profile")
}

func TestTypeNamesPriorityOrder(t *testing.T) {
	names := Default().TypeNames()
	require.True(t, len(names) >= 3)
	assert.Equal(t, "RAIN WATER", names[0])
	assert.Equal(t, "TAP WATER (CARDIFF)", names[1])
	assert.Equal(t, "PURIFIED WATER", names[2])
	assert.Equal(t, "FINAL SEWAGE EFFLUENT", names[3])
}

func TestKnownThresholds(t *testing.T) {
	s := Default()
	alk, _ := s.Profile(Alkaline)
	assert.Equal(t, 10.0, alk.Levels[Ammonium])
	assert.Equal(t, 0.02, alk.Levels[Cyanide])
	neu, _ := s.Profile(Neutral)
	assert.Equal(t, 20.0, neu.Levels[Chloride])
}

func TestSludgeYields(t *testing.T) {
	s := Default()

	crude, _ := s.WaterType("CRUDE SEWAGE")
	require.NotNil(t, crude.SludgeYieldKgPerM3)
	assert.Equal(t, 0.26, *crude.SludgeYieldKgPerM3)

	leachate, _ := s.WaterType("ANY LEACHATE")
	assert.Nil(t, leachate.SludgeYieldKgPerM3, "leachate yield is unknown, not zero")
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name     string
		types    []WaterType
		profiles []Profile
		wantErr  string
	}{
		{
			name:    "duplicate water type",
			types:   []WaterType{{Name: "A"}, {Name: "A"}},
			wantErr: "duplicate water type",
		},
		{
			name:    "empty name",
			types:   []WaterType{{Name: ""}},
			wantErr: "empty name",
		},
		{
			name:    "unknown analyte",
			types:   []WaterType{{Name: "A", Concentrations: map[Analyte]float64{"Lead": 1}}},
			wantErr: "unknown analyte",
		},
		{
			name:     "unknown analyte in profile",
			profiles: []Profile{{Class: Alkaline, Levels: map[Analyte]float64{"Mercury": 1}}},
			wantErr:  "unknown analyte",
		},
		{
			name:     "duplicate profile",
			profiles: []Profile{{Class: Neutral}, {Class: Neutral}},
			wantErr:  "duplicate profile",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.types, tc.profiles)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Len(t, s.TypeNames(), 14)
}

func TestLoadOverrideReplacesWholesale(t *testing.T) {
	path := writeFile(t, `
water_types:
  "CANAL WATER":
    concentrations:
      Chloride: 60.0
profiles:
  acidic:
    Chloride: 1200.0
    Ammonium: 5.0
`)
	s, err := Load(path)
	require.NoError(t, err)

	canal, ok := s.WaterType("CANAL WATER")
	require.True(t, ok)
	assert.Equal(t, 60.0, canal.Concentrations[Chloride])
	// Replacement is wholesale: analytes the override omits read as 0 and
	// the sludge yield becomes unknown.
	assert.Equal(t, 0.0, canal.Concentrations[Ammonium])
	assert.Nil(t, canal.SludgeYieldKgPerM3)

	acidic, ok := s.Profile(Acidic)
	require.True(t, ok)
	assert.Equal(t, 1200.0, acidic.Levels[Chloride])
	assert.Equal(t, []PHClass{Alkaline, Neutral, Acidic}, s.Profiles())
}

func TestLoadAppendsNewTypes(t *testing.T) {
	path := writeFile(t, `
water_types:
  "QUARRY RUNOFF":
    concentrations:
      Chloride: 12.0
    sludge_yield_kg_per_m3: 0.09
`)
	s, err := Load(path)
	require.NoError(t, err)

	names := s.TypeNames()
	require.Len(t, names, 15)
	assert.Equal(t, "QUARRY RUNOFF", names[len(names)-1])

	wt, ok := s.WaterType("QUARRY RUNOFF")
	require.True(t, ok)
	require.NotNil(t, wt.SludgeYieldKgPerM3)
	assert.Equal(t, 0.09, *wt.SludgeYieldKgPerM3)
}

func TestLoadRejectsUnknownAnalyte(t *testing.T) {
	path := writeFile(t, `
water_types:
  "RAIN WATER":
    concentrations:
      Arsenic: 0.5
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown analyte")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "refdata.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
