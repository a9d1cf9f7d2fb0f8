package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alienxp03/botsleuth/internal/core"
	"github.com/alienxp03/botsleuth/internal/storage"
)

// setupTestHandler creates a handler backed by a temporary database.
func setupTestHandler(t *testing.T) *Handler {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Initialize(); err != nil {
		t.Fatalf("Failed to initialize storage: %v", err)
	}

	return New(store)
}

func seedRun(t *testing.T, h *Handler, id string) {
	t.Helper()

	now := time.Now()
	completed := now.Add(time.Minute)
	run := &core.Run{
		ID:          id,
		DatasetPath: "accounts.csv",
		Format:      "flat",
		Protocol:    core.ProtocolSimple,
		Provider:    "mock",
		Model:       "mock",
		Temperature: 0.5,
		Status:      core.StatusClassified,
		Total:       1,
		Metrics:     &core.Metrics{Total: 1, Correct: 1, Accuracy: 1.0},
		CreatedAt:   now,
		UpdatedAt:   now,
		CompletedAt: &completed,
	}
	if err := h.storage.CreateRun(run); err != nil {
		t.Fatalf("Failed to create test run: %v", err)
	}

	result := &core.AccountResult{
		ID:        id + "-r1",
		RunID:     id,
		Username:  "@spambot",
		TrueLabel: core.LabelBot,
		Predicted: core.LabelBot,
		Status:    core.StatusClassified,
		Transcript: &core.Transcript{
			JudgeText: "- **Classification:** Yes",
		},
		CreatedAt: now,
	}
	if err := h.storage.AddResult(result); err != nil {
		t.Fatalf("Failed to create test result: %v", err)
	}
}

func doRequest(t *testing.T, h *Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func TestHandleListRuns(t *testing.T) {
	h := setupTestHandler(t)
	seedRun(t, h, "run-1")

	rec := doRequest(t, h, http.MethodGet, "/api/runs")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var body struct {
		Runs []*core.RunSummary `json:"runs"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("invalid response: %v", err)
	}

	if len(body.Runs) != 1 {
		t.Fatalf("wrong number of runs: got %d, want 1", len(body.Runs))
	}
	if body.Runs[0].ID != "run-1" {
		t.Errorf("wrong run id: %s", body.Runs[0].ID)
	}
	if body.Runs[0].Accuracy != 1.0 {
		t.Errorf("wrong accuracy: %v", body.Runs[0].Accuracy)
	}
}

func TestHandleGetRun(t *testing.T) {
	h := setupTestHandler(t)
	seedRun(t, h, "run-1")

	rec := doRequest(t, h, http.MethodGet, "/api/runs/run-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var run core.Run
	if err := json.NewDecoder(rec.Body).Decode(&run); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if run.ID != "run-1" || run.Metrics == nil {
		t.Errorf("incomplete run payload: %+v", run)
	}
}

func TestHandleGetRunNotFound(t *testing.T) {
	h := setupTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/api/runs/missing")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestHandleGetResults(t *testing.T) {
	h := setupTestHandler(t)
	seedRun(t, h, "run-1")

	rec := doRequest(t, h, http.MethodGet, "/api/runs/run-1/results")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var body struct {
		RunID   string                `json:"run_id"`
		Results []*core.AccountResult `json:"results"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("invalid response: %v", err)
	}

	if len(body.Results) != 1 {
		t.Fatalf("wrong number of results: got %d, want 1", len(body.Results))
	}
	if body.Results[0].Username != "@spambot" {
		t.Errorf("wrong username: %s", body.Results[0].Username)
	}
	if body.Results[0].Transcript == nil {
		t.Error("transcript missing from payload")
	}
}

func TestHandleDeleteRun(t *testing.T) {
	h := setupTestHandler(t)
	seedRun(t, h, "run-1")

	rec := doRequest(t, h, http.MethodDelete, "/api/runs/run-1")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	rec = doRequest(t, h, http.MethodGet, "/api/runs/run-1")
	if rec.Code != http.StatusNotFound {
		t.Errorf("run still retrievable after delete: %d", rec.Code)
	}
}

func TestHandleExportRun(t *testing.T) {
	h := setupTestHandler(t)
	seedRun(t, h, "run-1")

	t.Run("Markdown", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/runs/run-1/export/markdown")
		if rec.Code != http.StatusOK {
			t.Fatalf("unexpected status: %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "@spambot") {
			t.Error("export missing account row")
		}
		if !strings.Contains(rec.Header().Get("Content-Disposition"), ".md") {
			t.Errorf("wrong disposition: %s", rec.Header().Get("Content-Disposition"))
		}
	})

	t.Run("PDF", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/runs/run-1/export/pdf")
		if rec.Code != http.StatusOK {
			t.Fatalf("unexpected status: %d", rec.Code)
		}
		if rec.Header().Get("Content-Type") != "application/pdf" {
			t.Errorf("wrong content type: %s", rec.Header().Get("Content-Type"))
		}
	})

	t.Run("UnsupportedFormat", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/runs/run-1/export/docx")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("unexpected status: %d", rec.Code)
		}
	})
}

func TestHandleHealth(t *testing.T) {
	h := setupTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}
