package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/blend"
	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/refdata"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	path := writeScenario(t, `
ph_class: neutral
h2_target_kg: 10
sources:
  - type: RAIN WATER
    volume_l: 250
  - type: CRUDE SEWAGE
    volume_l: 40.5
`)

	sc, err := loadScenario(path)
	require.NoError(t, err)
	require.Equal(t, refdata.Neutral, sc.PHClass)
	require.Equal(t, 10.0, sc.H2TargetKg)
	require.Len(t, sc.Sources, 2)
	require.Equal(t, "RAIN WATER", sc.Sources[0].Type)
	require.Equal(t, 40.5, sc.Sources[1].VolumeL)
}

func TestLoadScenarioDefaultsClass(t *testing.T) {
	path := writeScenario(t, `
h2_target_kg: 2
sources:
  - type: RAIN WATER
    volume_l: 100
`)

	sc, err := loadScenario(path)
	require.NoError(t, err)
	require.Equal(t, refdata.Alkaline, sc.PHClass)
}

func TestLoadScenarioErrors(t *testing.T) {
	_, err := loadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "reading scenario")

	path := writeScenario(t, "sources: [not: {balanced")
	_, err = loadScenario(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing scenario")
}

func TestSourcesLabel(t *testing.T) {
	label := sourcesLabel([]blend.SourceEntry{
		{Type: "RAIN WATER", VolumeL: 100},
		{Type: "CRUDE SEWAGE", VolumeL: 2.5},
	})
	require.Equal(t, "RAIN WATER (100 L) + CRUDE SEWAGE (2.5 L)", label)
}
