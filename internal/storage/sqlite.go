package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/alienxp03/botsleuth/internal/core"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &SQLiteStorage{
		db:   db,
		path: dbPath,
	}, nil
}

// Initialize creates the database schema.
func (s *SQLiteStorage) Initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		dataset_path TEXT NOT NULL,
		format TEXT NOT NULL,
		protocol TEXT NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		temperature REAL NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		total INTEGER NOT NULL,
		metrics_json TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		completed_at DATETIME
	);

	CREATE TABLE IF NOT EXISTS results (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		username TEXT NOT NULL,
		true_label INTEGER NOT NULL,
		predicted INTEGER NOT NULL,
		status TEXT NOT NULL,
		stage TEXT,
		error TEXT,
		transcript_json TEXT,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_results_run_id ON results(run_id);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// CreateRun creates a new run.
func (s *SQLiteStorage) CreateRun(run *core.Run) error {
	metricsJSON, err := marshalMetrics(run.Metrics)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO runs (id, dataset_path, format, protocol, provider, model, temperature, status, total, metrics_json, created_at, updated_at, completed_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.Exec(query,
		run.ID,
		run.DatasetPath,
		run.Format,
		run.Protocol,
		run.Provider,
		run.Model,
		run.Temperature,
		run.Status,
		run.Total,
		metricsJSON,
		run.CreatedAt,
		run.UpdatedAt,
		run.CompletedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// GetRun retrieves a run by ID.
func (s *SQLiteStorage) GetRun(id string) (*core.Run, error) {
	query := `
	SELECT id, dataset_path, format, protocol, provider, model, temperature, status, total, metrics_json, created_at, updated_at, completed_at
	FROM runs
	WHERE id = ?
	`

	var run core.Run
	var metricsJSON sql.NullString
	var completedAt sql.NullTime

	err := s.db.QueryRow(query, id).Scan(
		&run.ID,
		&run.DatasetPath,
		&run.Format,
		&run.Protocol,
		&run.Provider,
		&run.Model,
		&run.Temperature,
		&run.Status,
		&run.Total,
		&metricsJSON,
		&run.CreatedAt,
		&run.UpdatedAt,
		&completedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	if metricsJSON.Valid {
		var metrics core.Metrics
		if err := json.Unmarshal([]byte(metricsJSON.String), &metrics); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metrics: %w", err)
		}
		run.Metrics = &metrics
	}

	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}

	return &run, nil
}

// UpdateRun updates an existing run.
func (s *SQLiteStorage) UpdateRun(run *core.Run) error {
	metricsJSON, err := marshalMetrics(run.Metrics)
	if err != nil {
		return err
	}

	run.UpdatedAt = time.Now()

	query := `
	UPDATE runs
	SET dataset_path = ?, format = ?, protocol = ?, provider = ?, model = ?, temperature = ?, status = ?, total = ?, metrics_json = ?, updated_at = ?, completed_at = ?
	WHERE id = ?
	`

	_, err = s.db.Exec(query,
		run.DatasetPath,
		run.Format,
		run.Protocol,
		run.Provider,
		run.Model,
		run.Temperature,
		run.Status,
		run.Total,
		metricsJSON,
		run.UpdatedAt,
		run.CompletedAt,
		run.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	return nil
}

// DeleteRun deletes a run and its results.
func (s *SQLiteStorage) DeleteRun(id string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}

// ListRuns returns a list of run summaries.
func (s *SQLiteStorage) ListRuns(limit, offset int) ([]*core.RunSummary, error) {
	query := `
	SELECT id, dataset_path, protocol, model, status, total, metrics_json, created_at
	FROM runs
	ORDER BY created_at DESC
	LIMIT ? OFFSET ?
	`

	rows, err := s.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var summaries []*core.RunSummary
	for rows.Next() {
		var summary core.RunSummary
		var metricsJSON sql.NullString

		err := rows.Scan(
			&summary.ID,
			&summary.DatasetPath,
			&summary.Protocol,
			&summary.Model,
			&summary.Status,
			&summary.Total,
			&metricsJSON,
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run summary: %w", err)
		}

		if metricsJSON.Valid {
			var metrics core.Metrics
			if err := json.Unmarshal([]byte(metricsJSON.String), &metrics); err == nil {
				summary.Accuracy = metrics.Accuracy
			}
		}

		summaries = append(summaries, &summary)
	}

	return summaries, nil
}

// AddResult adds an account result to a run.
func (s *SQLiteStorage) AddResult(result *core.AccountResult) error {
	var transcriptJSON *string
	if result.Transcript != nil {
		data, err := json.Marshal(result.Transcript)
		if err != nil {
			return fmt.Errorf("failed to marshal transcript: %w", err)
		}
		str := string(data)
		transcriptJSON = &str
	}

	query := `
	INSERT INTO results (id, run_id, username, true_label, predicted, status, stage, error, transcript_json, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		result.ID,
		result.RunID,
		result.Username,
		int(result.TrueLabel),
		int(result.Predicted),
		result.Status,
		result.Stage,
		result.Error,
		transcriptJSON,
		result.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert result: %w", err)
	}

	return nil
}

// GetResults returns all results for a run.
func (s *SQLiteStorage) GetResults(runID string) ([]*core.AccountResult, error) {
	query := `
	SELECT id, run_id, username, true_label, predicted, status, stage, error, transcript_json, created_at
	FROM results
	WHERE run_id = ?
	ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}
	defer rows.Close()

	var results []*core.AccountResult
	for rows.Next() {
		var result core.AccountResult
		var trueLabel, predicted int
		var stage, errText, transcriptJSON sql.NullString

		err := rows.Scan(
			&result.ID,
			&result.RunID,
			&result.Username,
			&trueLabel,
			&predicted,
			&result.Status,
			&stage,
			&errText,
			&transcriptJSON,
			&result.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}

		result.TrueLabel = core.Label(trueLabel)
		result.Predicted = core.Label(predicted)
		result.Stage = stage.String
		result.Error = errText.String

		if transcriptJSON.Valid {
			var transcript core.Transcript
			if err := json.Unmarshal([]byte(transcriptJSON.String), &transcript); err != nil {
				return nil, fmt.Errorf("failed to unmarshal transcript: %w", err)
			}
			result.Transcript = &transcript
		}

		results = append(results, &result)
	}

	return results, nil
}

func marshalMetrics(m *core.Metrics) (*string, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metrics: %w", err)
	}
	str := string(data)
	return &str, nil
}

// DefaultDBPath returns the default database path.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "botsleuth.db"
	}
	return filepath.Join(home, ".botsleuth", "botsleuth.db")
}
