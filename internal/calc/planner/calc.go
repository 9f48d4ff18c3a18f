package planner

import (
	"fmt"
	"sort"

	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/blend"
	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/refdata"
)

// RankedSource is one source judged on its own merits, with the volume the
// operator has on hand riding along for the fill pass.
type RankedSource struct {
	Type             string          `json:"type"`
	AvailableVolumeL float64         `json:"available_volume_l"`
	Status           blend.Status    `json:"status"`
	SafetyScore      float64         `json:"safety_score"`
	WorstAnalyte     refdata.Analyte `json:"worst_analyte,omitempty"`
}

type PlanResult struct {
	Ranked          []RankedSource      `json:"ranked"`
	Selected        []blend.SourceEntry `json:"selected"`
	ShortfallL      float64             `json:"shortfall_l"`
	RequiredVolumeL float64             `json:"required_volume_l"`
	Blend           *blend.Result       `json:"blend,omitempty"`
}

// RankSources evaluates each source alone at one liter, so the ranking
// reflects intrinsic water quality rather than how much of it happens to be
// available. Safe sources sort before escalating ones, higher score first;
// stable on exact ties.
func RankSources(eng *blend.Engine, entries []blend.SourceEntry, class refdata.PHClass) ([]RankedSource, error) {
	ranked := make([]RankedSource, 0, len(entries))
	for _, e := range entries {
		res, err := eng.Evaluate([]blend.SourceEntry{{Type: e.Type, VolumeL: 1}}, class)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, RankedSource{
			Type:             e.Type,
			AvailableVolumeL: e.VolumeL,
			Status:           res.OverallStatus,
			SafetyScore:      res.SafetyScore,
			WorstAnalyte:     res.WorstAnalyte,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Status != b.Status {
			return a.Status == blend.StatusSafe
		}
		return a.SafetyScore > b.SafetyScore
	})
	return ranked, nil
}

// BuildBlend walks the ranking once, taking min(available, still needed) from
// each source until the requirement is covered or the list runs out. No
// backtracking; the unmet remainder comes back as shortfall (0 when covered).
func BuildBlend(ranked []RankedSource, requiredVolumeL float64) ([]blend.SourceEntry, float64) {
	var selected []blend.SourceEntry
	remaining := requiredVolumeL
	for _, rs := range ranked {
		if remaining <= 0 {
			break
		}
		take := rs.AvailableVolumeL
		if take > remaining {
			take = remaining
		}
		if take <= 0 {
			continue
		}
		selected = append(selected, blend.SourceEntry{Type: rs.Type, VolumeL: take})
		remaining -= take
	}
	return selected, remaining
}

// Plan ranks the sources, greedily fills the required volume and runs the
// composed recipe through the evaluator. A shortfall is data for the caller,
// not an error.
func Plan(eng *blend.Engine, entries []blend.SourceEntry, class refdata.PHClass, requiredVolumeL float64) (PlanResult, error) {
	if len(entries) == 0 {
		return PlanResult{}, fmt.Errorf("no water sources")
	}
	ranked, err := RankSources(eng, entries, class)
	if err != nil {
		return PlanResult{}, err
	}
	selected, shortfall := BuildBlend(ranked, requiredVolumeL)

	out := PlanResult{
		Ranked:          ranked,
		Selected:        selected,
		ShortfallL:      shortfall,
		RequiredVolumeL: requiredVolumeL,
	}
	if len(selected) > 0 {
		res, err := eng.Evaluate(selected, class)
		if err != nil {
			return PlanResult{}, err
		}
		out.Blend = &res
	}
	return out, nil
}
