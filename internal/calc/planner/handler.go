package planner

import (
	"encoding/json"
	"net/http"

	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/blend"
	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/refdata"
)

type Handler struct {
	Eng *blend.Engine
}

type PlanRequest struct {
	PHClass    refdata.PHClass     `json:"ph_class"`
	Sources    []blend.SourceEntry `json:"sources"`
	H2TargetKg float64             `json:"h2_target_kg"`
}

type PlanResponse struct {
	PlanResult
	H2TargetKg     float64 `json:"h2_target_kg"`
	H2ProducibleKg float64 `json:"h2_producible_kg"`
}

func (h *Handler) Plan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.PHClass == "" {
		req.PHClass = refdata.Alkaline
	}
	if req.H2TargetKg <= 0 {
		http.Error(w, "h2_target_kg must be greater than zero", http.StatusBadRequest)
		return
	}
	if err := blend.ValidateSources(req.Sources); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := Plan(h.Eng, req.Sources, req.PHClass, req.H2TargetKg*refdata.WaterPerKgH2)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := PlanResponse{PlanResult: res, H2TargetKg: req.H2TargetKg}
	if res.Blend != nil {
		resp.H2ProducibleKg = res.Blend.TotalVolumeL / refdata.WaterPerKgH2
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
