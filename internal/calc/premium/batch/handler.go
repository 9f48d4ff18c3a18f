package batch

import (
	"encoding/json"
	"net/http"

	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/calc/blend"
)

type Handler struct {
	Eng *blend.Engine
}

func (h *Handler) Optimize(w http.ResponseWriter, r *http.Request) {
	var input OptimizeBatchInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := CalculateOptimize(h.Eng, input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
