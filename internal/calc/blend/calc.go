package blend

import (
	"errors"
	"fmt"
	"math"

	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/refdata"
)

var (
	ErrUnknownWaterType = errors.New("unknown water type")
	ErrUnknownProfile   = errors.New("unknown escalation profile")
)

// SourceEntry is one available water source: a reference water type and the
// volume of it on hand.
type SourceEntry struct {
	Type    string  `json:"type" yaml:"type"`
	VolumeL float64 `json:"volume_l" yaml:"volume_l"`
}

type Status string

const (
	StatusSafe       Status = "safe"
	StatusEscalation Status = "escalation"
)

// AnalyteResult is the per-analyte outcome for one blend.
type AnalyteResult struct {
	BlendConcentration float64 `json:"blend_concentration"`
	FinalConcentration float64 `json:"final_concentration"`
	EscalationLevel    float64 `json:"escalation_level"`
	Status             Status  `json:"status"`
}

// Result is the full assessment of one source combination against an
// escalation profile. It is derived data: computed once, never mutated.
type Result struct {
	Sources                 []SourceEntry                      `json:"sources"`
	OverallStatus           Status                             `json:"overall_status"`
	TotalVolumeL            float64                            `json:"total_volume_l"`
	AnalyteResults          map[refdata.Analyte]AnalyteResult  `json:"analyte_results"`
	SafeCount               int                                `json:"safe_count"`
	EscalationCount         int                                `json:"escalation_count"`
	SafetyScore             float64                            `json:"safety_score"`
	WorstAnalyte            refdata.Analyte                    `json:"worst_analyte,omitempty"`
	WorstRatio              float64                            `json:"worst_ratio"`
	RequiredDilution        float64                            `json:"required_dilution"`
	DilutionLimitingAnalyte refdata.Analyte                    `json:"dilution_limiting_analyte,omitempty"`
	PureWaterNeededL        float64                            `json:"pure_water_needed_l"`
}

// Engine evaluates source combinations against the injected reference
// tables. It is stateless apart from the read-only tables, so one Engine
// serves concurrent requests without locking.
type Engine struct {
	store    *refdata.Store
	dilution float64
	scoreCap float64
}

func New(store *refdata.Store) *Engine {
	return &Engine{
		store:    store,
		dilution: refdata.B9DilutionFactor,
		scoreCap: 100.0, // keeps safety scores readable and comparable
	}
}

// Store returns the reference tables the engine was built with.
func (e *Engine) Store() *refdata.Store { return e.store }

type resolvedSource struct {
	conc    map[refdata.Analyte]float64
	volumeL float64
}

func (e *Engine) resolve(sources []SourceEntry) ([]resolvedSource, error) {
	out := make([]resolvedSource, 0, len(sources))
	for _, s := range sources {
		wt, ok := e.store.WaterType(s.Type)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownWaterType, s.Type)
		}
		out = append(out, resolvedSource{conc: wt.Concentrations, volumeL: s.VolumeL})
	}
	return out, nil
}

// blendConcentration is the volume-weighted average for one analyte:
// C_blend = (C1*V1 + C2*V2 + ...) / (V1 + V2 + ...).
// Analytes missing from a type's table contribute 0. Zero total volume is
// defined as "no contribution", not a division error.
func blendConcentration(sources []resolvedSource, a refdata.Analyte) float64 {
	var mass, volume float64
	for _, s := range sources {
		mass += s.conc[a] * s.volumeL
		volume += s.volumeL
	}
	if volume == 0 {
		return 0.0
	}
	return mass / volume
}

// BlendConcentration computes the volume-weighted concentration of one
// analyte across the given sources, before B9 dilution.
func (e *Engine) BlendConcentration(sources []SourceEntry, a refdata.Analyte) (float64, error) {
	resolved, err := e.resolve(sources)
	if err != nil {
		return 0, err
	}
	return blendConcentration(resolved, a), nil
}

// ApplyDilution applies the 30% B9 electrolyte mix: final = blend * 0.7.
func (e *Engine) ApplyDilution(concentration float64) float64 {
	return concentration * e.dilution
}

// Evaluate assesses one combination of sources against the escalation
// profile for the given pH class.
//
// Per analyte: status is escalation when the diluted concentration meets or
// exceeds the level (the boundary itself is unsafe). The overall status is
// escalation as soon as any analyte escalates. The safety score is the worst
// level/concentration ratio over analytes with a positive diluted
// concentration, capped at 100; zero-concentration analytes carry no signal
// and are left out of that minimum. RequiredDilution is the extra dilution
// that would bring the worst exceeding analyte back under its level (1.0
// when nothing exceeds), and PureWaterNeededL converts it into litres of
// purified water to add.
//
// Analytes are walked in refdata.AnalyteOrder so that ties on the worst
// ratio resolve to the first analyte encountered, run after run.
func (e *Engine) Evaluate(sources []SourceEntry, class refdata.PHClass) (Result, error) {
	profile, ok := e.store.Profile(class)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownProfile, class)
	}
	resolved, err := e.resolve(sources)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Sources:          sources,
		OverallStatus:    StatusSafe,
		AnalyteResults:   make(map[refdata.Analyte]AnalyteResult, len(profile.Levels)),
		RequiredDilution: 1.0,
	}
	for _, s := range sources {
		res.TotalVolumeL += s.VolumeL
	}

	worst := math.Inf(1)
	for _, analyte := range refdata.AnalyteOrder {
		level, assessed := profile.Levels[analyte]
		if !assessed {
			continue
		}
		blendC := blendConcentration(resolved, analyte)
		finalC := e.ApplyDilution(blendC)

		status := StatusSafe
		if finalC >= level {
			status = StatusEscalation
		}
		res.AnalyteResults[analyte] = AnalyteResult{
			BlendConcentration: blendC,
			FinalConcentration: finalC,
			EscalationLevel:    level,
			Status:             status,
		}
		if status == StatusSafe {
			res.SafeCount++
		} else {
			res.EscalationCount++
			res.OverallStatus = StatusEscalation
		}

		if finalC > 0 {
			ratio := level / finalC
			if ratio < worst {
				worst = ratio
				res.WorstAnalyte = analyte
			}
			if finalC > level {
				dilution := finalC / level
				if dilution > res.RequiredDilution {
					res.RequiredDilution = dilution
					res.DilutionLimitingAnalyte = analyte
				}
			}
		}
	}

	if math.IsInf(worst, 1) {
		// Nothing measurable in the blend: maximal safety.
		res.SafetyScore = e.scoreCap
		res.WorstRatio = e.scoreCap
	} else {
		res.SafetyScore = math.Min(worst, e.scoreCap)
		res.WorstRatio = worst
	}
	if res.RequiredDilution > 1 {
		res.PureWaterNeededL = res.TotalVolumeL * (res.RequiredDilution - 1)
	}
	return res, nil
}
