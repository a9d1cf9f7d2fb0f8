package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/alienxp03/botsleuth/internal/core"
)

func TestSQLiteStorage(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer store.Close()

	if err := store.Initialize(); err != nil {
		t.Fatalf("failed to initialize: %v", err)
	}

	t.Run("CreateAndGetRun", func(t *testing.T) {
		now := time.Now()
		run := &core.Run{
			ID:          "test-run-1",
			DatasetPath: "accounts.csv",
			Format:      "flat",
			Protocol:    core.ProtocolCritique,
			Provider:    "openai",
			Model:       "gpt-3.5-turbo",
			Temperature: 0.5,
			Status:      core.StatusPending,
			Total:       2,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := store.CreateRun(run); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}

		got, err := store.GetRun(run.ID)
		if err != nil {
			t.Fatalf("failed to get run: %v", err)
		}

		if got == nil {
			t.Fatal("run not found")
		}

		if got.ID != run.ID {
			t.Errorf("ID mismatch: got %s, want %s", got.ID, run.ID)
		}
		if got.Protocol != core.ProtocolCritique {
			t.Errorf("Protocol mismatch: got %s, want %s", got.Protocol, core.ProtocolCritique)
		}
		if got.Metrics != nil {
			t.Error("expected no metrics on a pending run")
		}
		if got.CompletedAt != nil {
			t.Error("expected no completion time on a pending run")
		}
	})

	t.Run("UpdateRunWithMetrics", func(t *testing.T) {
		run, _ := store.GetRun("test-run-1")
		run.Status = core.StatusClassified
		run.Metrics = &core.Metrics{
			Total:     2,
			Correct:   1,
			Accuracy:  0.5,
			Precision: 1.0,
			Recall:    0.5,
			F1:        2.0 / 3.0,
		}
		completed := time.Now()
		run.CompletedAt = &completed

		if err := store.UpdateRun(run); err != nil {
			t.Fatalf("failed to update run: %v", err)
		}

		got, _ := store.GetRun(run.ID)
		if got.Status != core.StatusClassified {
			t.Errorf("Status not updated: got %s, want %s", got.Status, core.StatusClassified)
		}
		if got.Metrics == nil {
			t.Fatal("metrics not persisted")
		}
		if got.Metrics.Accuracy != 0.5 {
			t.Errorf("Accuracy mismatch: got %v, want 0.5", got.Metrics.Accuracy)
		}
		if got.CompletedAt == nil {
			t.Error("completion time not persisted")
		}
	})

	t.Run("AddAndGetResults", func(t *testing.T) {
		result1 := &core.AccountResult{
			ID:        "result-1",
			RunID:     "test-run-1",
			Username:  "@spambot",
			TrueLabel: core.LabelBot,
			Predicted: core.LabelBot,
			Status:    core.StatusClassified,
			Transcript: &core.Transcript{
				BotArgument:   "Posts identical content every 6 minutes.",
				HumanArgument: "The account has a plausible sleep pattern.",
				JudgeText:     "- **Classification:** Yes",
			},
			CreatedAt: time.Now(),
		}

		result2 := &core.AccountResult{
			ID:        "result-2",
			RunID:     "test-run-1",
			Username:  "@alice",
			TrueLabel: core.LabelHuman,
			Predicted: core.LabelHuman,
			Status:    core.StatusFailed,
			Stage:     "verdict",
			Error:     "judge verdict missing classification marker",
			CreatedAt: time.Now().Add(time.Second),
		}

		if err := store.AddResult(result1); err != nil {
			t.Fatalf("failed to add result 1: %v", err)
		}
		if err := store.AddResult(result2); err != nil {
			t.Fatalf("failed to add result 2: %v", err)
		}

		results, err := store.GetResults("test-run-1")
		if err != nil {
			t.Fatalf("failed to get results: %v", err)
		}

		if len(results) != 2 {
			t.Fatalf("wrong number of results: got %d, want 2", len(results))
		}

		if results[0].Username != "@spambot" || results[1].Username != "@alice" {
			t.Error("results not in insertion order")
		}
		if results[0].TrueLabel != core.LabelBot || results[0].Predicted != core.LabelBot {
			t.Error("labels not persisted")
		}
		if results[0].Transcript == nil || results[0].Transcript.BotArgument == "" {
			t.Error("transcript not persisted")
		}
		if results[1].Transcript != nil {
			t.Error("expected no transcript on failed result")
		}
		if results[1].Stage != "verdict" || results[1].Error == "" {
			t.Error("failure details not persisted")
		}
	})

	t.Run("ListRuns", func(t *testing.T) {
		summaries, err := store.ListRuns(10, 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}

		if len(summaries) != 1 {
			t.Fatalf("wrong number of runs: got %d, want 1", len(summaries))
		}

		if summaries[0].ID != "test-run-1" {
			t.Errorf("wrong run id: got %s", summaries[0].ID)
		}
		if summaries[0].Accuracy != 0.5 {
			t.Errorf("summary accuracy mismatch: got %v, want 0.5", summaries[0].Accuracy)
		}
	})

	t.Run("DeleteRun", func(t *testing.T) {
		if err := store.DeleteRun("test-run-1"); err != nil {
			t.Fatalf("failed to delete run: %v", err)
		}

		got, _ := store.GetRun("test-run-1")
		if got != nil {
			t.Error("run still exists after deletion")
		}

		// Results should also be deleted (cascade)
		results, _ := store.GetResults("test-run-1")
		if len(results) != 0 {
			t.Error("results still exist after run deletion")
		}
	})

	t.Run("GetNonexistentRun", func(t *testing.T) {
		got, err := store.GetRun("nonexistent")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Error("expected nil for nonexistent run")
		}
	})
}
