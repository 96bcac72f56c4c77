package analysishttp

import (
	"encoding/json"
	"errors"
	"net/http"

	curtailment "github.com/Saske77/eco-env-curtailment-analysis/internal/curtailment/domain"
)

// AnalysisHandler serves the latest finalized analysis run.
type AnalysisHandler struct {
	repo           curtailment.RunRepository
	defaultPlantID string
}

// NewAnalysisHandler constructs an AnalysisHandler.
func NewAnalysisHandler(repo curtailment.RunRepository, defaultPlantID string) *AnalysisHandler {
	return &AnalysisHandler{repo: repo, defaultPlantID: defaultPlantID}
}

type runResponse struct {
	ID          string                      `json:"id"`
	PlantID     string                      `json:"plant_id"`
	RanAt       string                      `json:"ran_at"`
	Result      curtailment.AggregateResult `json:"result"`
	Diagnostics curtailment.RunDiagnostics  `json:"diagnostics"`
}

// ServeHTTP handles GET /api/v1/analysis/latest.
func (h *AnalysisHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.repo == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	plantID := r.URL.Query().Get("plant_id")
	if plantID == "" {
		plantID = h.defaultPlantID
	}
	if plantID == "" {
		http.Error(w, "plant_id is required", http.StatusBadRequest)
		return
	}

	run, err := h.repo.Latest(r.Context(), plantID)
	if errors.Is(err, curtailment.ErrRunNotFound) {
		http.Error(w, "no analysis run for plant", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "query run error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(runResponse{
		ID:          run.ID,
		PlantID:     run.PlantID,
		RanAt:       run.RanAt.Format("2006-01-02T15:04:05Z07:00"),
		Result:      run.Result,
		Diagnostics: run.Diagnostics,
	})
}
