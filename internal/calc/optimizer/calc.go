package optimizer

import (
	"fmt"
	"sort"

	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/blend"
	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/refdata"
)

// Candidate is one evaluated combination plus the hydrogen mass its volume
// could feed.
type Candidate struct {
	blend.Result
	H2ProducibleKg float64 `json:"h2_producible_kg"`
}

type Params struct {
	MaxSources      int
	RequiredVolumeL float64
	TopN            int
}

type Summary struct {
	Results             []Candidate `json:"results"`
	CombinationsChecked int         `json:"combinations_checked"`
	TotalAvailableL     float64     `json:"total_available_l"`
	RequiredVolumeL     float64     `json:"required_volume_l"`
	SafeCount           int         `json:"safe_count"`
	EscalationCount     int         `json:"escalation_count"`
}

// Combinations enumerates every subset of entries of size 1 through
// min(len(entries), maxSize): smaller subsets first, index order within each
// size. Entry volumes ride along untouched. Count grows as Sum C(n,r), so
// callers bound both n and maxSize.
func Combinations(entries []blend.SourceEntry, maxSize int) [][]blend.SourceEntry {
	n := len(entries)
	if maxSize > n {
		maxSize = n
	}
	var out [][]blend.SourceEntry
	for r := 1; r <= maxSize; r++ {
		idx := make([]int, r)
		for i := range idx {
			idx[i] = i
		}
		for {
			combo := make([]blend.SourceEntry, r)
			for i, j := range idx {
				combo[i] = entries[j]
			}
			out = append(out, combo)

			// next index tuple, lexicographic
			i := r - 1
			for i >= 0 && idx[i] == n-r+i {
				i--
			}
			if i < 0 {
				break
			}
			idx[i]++
			for k := i + 1; k < r; k++ {
				idx[k] = idx[k-1] + 1
			}
		}
	}
	return out
}

// Optimize evaluates every combination of the given sources and keeps those
// whose volume covers the required electrolyte amount, best first. An empty
// result set with a nonzero CombinationsChecked means no combination was big
// enough; that is an answer, not an error.
func Optimize(eng *blend.Engine, entries []blend.SourceEntry, class refdata.PHClass, p Params) (Summary, error) {
	if len(entries) == 0 {
		return Summary{}, fmt.Errorf("no water sources")
	}

	sum := Summary{RequiredVolumeL: p.RequiredVolumeL}
	for _, e := range entries {
		sum.TotalAvailableL += e.VolumeL
	}

	combos := Combinations(entries, p.MaxSources)
	sum.CombinationsChecked = len(combos)
	sum.Results = make([]Candidate, 0, len(combos))

	for _, combo := range combos {
		res, err := eng.Evaluate(combo, class)
		if err != nil {
			return Summary{}, err
		}
		if res.TotalVolumeL < p.RequiredVolumeL {
			continue
		}
		sum.Results = append(sum.Results, Candidate{
			Result:         res,
			H2ProducibleKg: res.TotalVolumeL / refdata.WaterPerKgH2,
		})
	}

	// Safe blends first, then the highest safety score. Stable, so exact
	// ties keep enumeration order.
	sort.SliceStable(sum.Results, func(i, j int) bool {
		a, b := sum.Results[i], sum.Results[j]
		if a.OverallStatus != b.OverallStatus {
			return a.OverallStatus == blend.StatusSafe
		}
		return a.SafetyScore > b.SafetyScore
	})

	for _, c := range sum.Results {
		if c.OverallStatus == blend.StatusSafe {
			sum.SafeCount++
		} else {
			sum.EscalationCount++
		}
	}

	if p.TopN > 0 && len(sum.Results) > p.TopN {
		sum.Results = sum.Results[:p.TopN]
	}
	return sum, nil
}
