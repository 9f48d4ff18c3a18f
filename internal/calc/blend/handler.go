package blend

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/refdata"
)

// ValidateSources enforces the caller-side input contract before entries
// reach the calculators: at least one source, a bounded count, known-format
// entries with non-negative volumes.
func ValidateSources(sources []SourceEntry) error {
	if len(sources) == 0 {
		return fmt.Errorf("at least one water source required")
	}
	if len(sources) > refdata.MaxSourceEntries {
		return fmt.Errorf("too many water sources (max %d)", refdata.MaxSourceEntries)
	}
	for _, s := range sources {
		if s.Type == "" {
			return fmt.Errorf("water source with empty type")
		}
		if s.VolumeL < 0 {
			return fmt.Errorf("negative volume for %q", s.Type)
		}
	}
	return nil
}

type Handler struct {
	Eng *Engine
}

type EvaluateRequest struct {
	PHClass refdata.PHClass `json:"ph_class"`
	Sources []SourceEntry   `json:"sources"`
}

func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.PHClass == "" {
		req.PHClass = refdata.Alkaline
	}
	if err := ValidateSources(req.Sources); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := h.Eng.Evaluate(req.Sources, req.PHClass)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// ReferenceResponse is what the frontend builds its pickers from, so that
// callers only ever submit water type names and pH classes the store knows.
type ReferenceResponse struct {
	Analytes           []refdata.Analyte   `json:"analytes"`
	WaterTypes         []refdata.WaterType `json:"water_types"`
	Profiles           []refdata.Profile   `json:"profiles"`
	B9DilutionFactor   float64             `json:"b9_dilution_factor"`
	WaterPerKgH2       float64             `json:"water_per_kg_h2"`
	MaxCombinationSize int                 `json:"max_combination_size"`
	MaxSourceEntries   int                 `json:"max_source_entries"`
}

func (h *Handler) Reference(w http.ResponseWriter, r *http.Request) {
	store := h.Eng.Store()

	resp := ReferenceResponse{
		Analytes:           refdata.AnalyteOrder,
		B9DilutionFactor:   refdata.B9DilutionFactor,
		WaterPerKgH2:       refdata.WaterPerKgH2,
		MaxCombinationSize: refdata.MaxCombinationSize,
		MaxSourceEntries:   refdata.MaxSourceEntries,
	}
	for _, name := range store.TypeNames() {
		wt, _ := store.WaterType(name)
		resp.WaterTypes = append(resp.WaterTypes, wt)
	}
	for _, class := range store.Profiles() {
		p, _ := store.Profile(class)
		resp.Profiles = append(resp.Profiles, p)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
