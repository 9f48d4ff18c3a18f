package sludge

import (
	"encoding/json"
	"net/http"

	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/blend"
	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/refdata"
)

type Handler struct {
	Store *refdata.Store
}

type EstimateRequest struct {
	Sources []blend.SourceEntry `json:"sources"`
}

func (h *Handler) Estimate(w http.ResponseWriter, r *http.Request) {
	var req EstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := blend.ValidateSources(req.Sources); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := Estimate(h.Store, req.Sources)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
