package history

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/auth"
	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/repo"
)

const defaultListLimit = 50

// Handler persists tool results so operators can revisit what they submitted
// to the works. Runs are stored whole, as the JSON payload the tool returned.
type Handler struct {
	Repo repo.Repository
}

type SaveRequest struct {
	Tool    string          `json:"tool"`
	PHClass string          `json:"ph_class"`
	Payload json.RawMessage `json:"payload"`
}

type SaveResponse struct {
	ID uuid.UUID `json:"id"`
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	operatorID, ok := auth.OperatorID(r.Context())
	if !ok || operatorID == 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.Tool == "" {
		http.Error(w, "Tool name required", http.StatusBadRequest)
		return
	}
	if len(req.Payload) == 0 {
		http.Error(w, "Payload required", http.StatusBadRequest)
		return
	}

	run := repo.Run{
		ID:         uuid.New(),
		OperatorID: operatorID,
		Tool:       req.Tool,
		PHClass:    req.PHClass,
		Payload:    req.Payload,
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.Repo.SaveRun(r.Context(), run); err != nil {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(SaveResponse{ID: run.ID})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	operatorID, ok := auth.OperatorID(r.Context())
	if !ok || operatorID == 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := h.Repo.ListRuns(r.Context(), operatorID, limit)
	if err != nil {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	operatorID, ok := auth.OperatorID(r.Context())
	if !ok || operatorID == 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid run id", http.StatusBadRequest)
		return
	}

	run, err := h.Repo.GetRun(r.Context(), operatorID, id)
	if err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}
