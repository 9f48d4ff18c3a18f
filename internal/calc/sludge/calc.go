package sludge

import (
	"fmt"

	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/blend"
	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/refdata"
)

// Entry is the by-product estimate for one source of a chosen blend. A nil
// yield rate means the reference table has no sampling data for the type; the
// mass is then nil as well and stays out of the total.
type Entry struct {
	Type         string   `json:"type"`
	VolumeL      float64  `json:"volume_l"`
	YieldKgPerM3 *float64 `json:"yield_kg_per_m3"`
	MassKg       *float64 `json:"mass_kg"`
}

type Result struct {
	TotalKg      float64 `json:"total_kg"`
	KnownCount   int     `json:"known_count"`
	UnknownCount int     `json:"unknown_count"`
	Breakdown    []Entry `json:"breakdown"`
}

// Estimate computes the dewatered sludge mass per source: volume/1000 * rate,
// rates being per cubic meter. Entries without a rate are kept in the
// breakdown but excluded from the total; they are unknown, not zero.
func Estimate(store *refdata.Store, sources []blend.SourceEntry) (Result, error) {
	if len(sources) == 0 {
		return Result{}, fmt.Errorf("no water sources")
	}

	out := Result{Breakdown: make([]Entry, 0, len(sources))}
	for _, s := range sources {
		wt, ok := store.WaterType(s.Type)
		if !ok {
			return Result{}, fmt.Errorf("%w: %q", blend.ErrUnknownWaterType, s.Type)
		}
		entry := Entry{Type: s.Type, VolumeL: s.VolumeL, YieldKgPerM3: wt.SludgeYieldKgPerM3}
		if wt.SludgeYieldKgPerM3 != nil {
			mass := s.VolumeL / 1000.0 * *wt.SludgeYieldKgPerM3
			entry.MassKg = &mass
			out.TotalKg += mass
			out.KnownCount++
		} else {
			out.UnknownCount++
		}
		out.Breakdown = append(out.Breakdown, entry)
	}
	return out, nil
}
