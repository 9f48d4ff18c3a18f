package batch

import (
	"fmt"

	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/blend"
	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/optimizer"
)

// Scenario is one optimize request plus a label so multi-site runs stay
// readable in the combined output.
type Scenario struct {
	Label string `json:"label"`
	optimizer.OptimizeRequest
}

type OptimizeBatchInput struct {
	Scenarios []Scenario `json:"scenarios"`
}

type ScenarioSummary struct {
	Label      string  `json:"label"`
	H2TargetKg float64 `json:"h2_target_kg"`
	optimizer.Summary
}

type OptimizeBatchResult struct {
	Results []ScenarioSummary `json:"results"`
}

// CalculateOptimize runs every scenario through the combination search.
// The first failing scenario aborts the whole batch.
func CalculateOptimize(eng *blend.Engine, in OptimizeBatchInput) (OptimizeBatchResult, error) {
	if len(in.Scenarios) == 0 {
		return OptimizeBatchResult{}, fmt.Errorf("no scenarios")
	}
	out := OptimizeBatchResult{Results: make([]ScenarioSummary, 0, len(in.Scenarios))}
	for i, sc := range in.Scenarios {
		sum, err := optimizer.Run(eng, sc.OptimizeRequest)
		if err != nil {
			return OptimizeBatchResult{}, fmt.Errorf("scenario %d: %w", i+1, err)
		}
		out.Results = append(out.Results, ScenarioSummary{
			Label:      sc.Label,
			H2TargetKg: sc.H2TargetKg,
			Summary:    sum,
		})
	}
	return out, nil
}
