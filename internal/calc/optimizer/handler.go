package optimizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/blend"
	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/refdata"
)

type Handler struct {
	Eng *blend.Engine
}

type OptimizeRequest struct {
	PHClass    refdata.PHClass     `json:"ph_class"`
	Sources    []blend.SourceEntry `json:"sources"`
	H2TargetKg float64             `json:"h2_target_kg"`
	MaxSources int                 `json:"max_sources"`
	TopN       int                 `json:"top_n"`
}

type OptimizeResponse struct {
	Summary
	H2TargetKg float64 `json:"h2_target_kg"`
}

// Run applies request defaults, validates, and executes the combination
// search. Shared by the HTTP handler, the batch tool and the exporter.
func Run(eng *blend.Engine, req OptimizeRequest) (Summary, error) {
	if req.PHClass == "" {
		req.PHClass = refdata.Alkaline
	}
	if req.MaxSources == 0 {
		req.MaxSources = refdata.DefaultMaxCombinationSize
	}
	if req.TopN == 0 {
		req.TopN = refdata.DefaultTopN
	}
	if req.H2TargetKg <= 0 {
		return Summary{}, errors.New("h2_target_kg must be greater than zero")
	}
	if req.MaxSources < 1 || req.MaxSources > refdata.MaxCombinationSize {
		return Summary{}, fmt.Errorf("max_sources must be between 1 and %d", refdata.MaxCombinationSize)
	}
	if err := blend.ValidateSources(req.Sources); err != nil {
		return Summary{}, err
	}

	// Zero-volume rows cannot contribute to any blend; drop them before the
	// search instead of enumerating subsets around them.
	entries := make([]blend.SourceEntry, 0, len(req.Sources))
	for _, s := range req.Sources {
		if s.VolumeL > 0 {
			entries = append(entries, s)
		}
	}
	if len(entries) == 0 {
		return Summary{}, errors.New("at least one water source with volume greater than zero required")
	}

	return Optimize(eng, entries, req.PHClass, Params{
		MaxSources:      req.MaxSources,
		RequiredVolumeL: req.H2TargetKg * refdata.WaterPerKgH2,
		TopN:            req.TopN,
	})
}

func (h *Handler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	sum, err := Run(h.Eng, req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(OptimizeResponse{Summary: sum, H2TargetKg: req.H2TargetKg})
}
