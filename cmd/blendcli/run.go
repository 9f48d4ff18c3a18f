package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/blend"
	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/optimizer"
	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/planner"
	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/sludge"
	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/refdata"
)

type scenario struct {
	PHClass    refdata.PHClass     `yaml:"ph_class"`
	H2TargetKg float64             `yaml:"h2_target_kg"`
	Sources    []blend.SourceEntry `yaml:"sources"`
}

func loadScenario(path string) (scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return scenario{}, fmt.Errorf("reading scenario: %w", err)
	}
	var sc scenario
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return scenario{}, fmt.Errorf("parsing scenario: %w", err)
	}
	if sc.PHClass == "" {
		sc.PHClass = refdata.Alkaline
	}
	return sc, nil
}

func loadStore() (*refdata.Store, error) {
	store, err := refdata.Load(refdataPath)
	if err != nil {
		return nil, fmt.Errorf("loading reference tables: %w", err)
	}
	return store, nil
}

func runOptimize(file string, maxSources, topN int) error {
	store, err := loadStore()
	if err != nil {
		return err
	}
	sc, err := loadScenario(file)
	if err != nil {
		return err
	}

	sum, err := optimizer.Run(blend.New(store), optimizer.OptimizeRequest{
		PHClass:    sc.PHClass,
		Sources:    sc.Sources,
		H2TargetKg: sc.H2TargetKg,
		MaxSources: maxSources,
		TopN:       topN,
	})
	if err != nil {
		return err
	}

	printOptimizeSummary(sc, sum)

	if len(sum.Results) == 0 {
		// Scriptable outcome: the target is simply not reachable.
		os.Exit(2)
	}
	return nil
}

func runPlan(file string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}
	sc, err := loadScenario(file)
	if err != nil {
		return err
	}
	if sc.H2TargetKg <= 0 {
		return fmt.Errorf("h2_target_kg must be greater than zero")
	}
	if err := blend.ValidateSources(sc.Sources); err != nil {
		return err
	}

	res, err := planner.Plan(blend.New(store), sc.Sources, sc.PHClass, sc.H2TargetKg*refdata.WaterPerKgH2)
	if err != nil {
		return err
	}

	printPlan(sc, res)
	return nil
}

func runSludge(file string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}
	sc, err := loadScenario(file)
	if err != nil {
		return err
	}
	if err := blend.ValidateSources(sc.Sources); err != nil {
		return err
	}

	res, err := sludge.Estimate(store, sc.Sources)
	if err != nil {
		return err
	}

	printSludge(res)
	return nil
}

func runTypes() error {
	store, err := loadStore()
	if err != nil {
		return err
	}
	printReference(store)
	return nil
}
