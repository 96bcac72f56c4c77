package analysishttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	curtailment "github.com/Saske77/eco-env-curtailment-analysis/internal/curtailment/domain"
	"github.com/Saske77/eco-env-curtailment-analysis/internal/curtailment/infrastructure/memory"
)

func TestAnalysisHandlerLatest(t *testing.T) {
	repo := memory.NewRunRepository()
	err := repo.Save(context.Background(), &curtailment.RunRecord{
		ID:      "run-1",
		PlantID: "plant-1",
		RanAt:   time.Date(2025, time.January, 10, 12, 0, 0, 0, time.UTC),
		Result:  curtailment.AggregateResult{TotalCurtailedEnergyMWh: 8.36, ProcessedEventCount: 10},
		Diagnostics: curtailment.RunDiagnostics{
			ParseFailures: 2,
		},
	})
	if err != nil {
		t.Fatalf("save run: %v", err)
	}

	handler := NewAnalysisHandler(repo, "plant-1")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/latest", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body struct {
		ID          string                      `json:"id"`
		PlantID     string                      `json:"plant_id"`
		Result      curtailment.AggregateResult `json:"result"`
		Diagnostics curtailment.RunDiagnostics  `json:"diagnostics"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.ID != "run-1" || body.PlantID != "plant-1" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if body.Result.TotalCurtailedEnergyMWh != 8.36 || body.Diagnostics.ParseFailures != 2 {
		t.Fatalf("unexpected payload: %+v", body)
	}
}

func TestAnalysisHandlerNotFound(t *testing.T) {
	handler := NewAnalysisHandler(memory.NewRunRepository(), "plant-1")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/latest?plant_id=plant-9", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestAnalysisHandlerMethodNotAllowed(t *testing.T) {
	handler := NewAnalysisHandler(memory.NewRunRepository(), "plant-1")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/latest", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.Code)
	}
}
