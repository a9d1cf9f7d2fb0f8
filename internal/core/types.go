// Package core contains the core domain types for botsleuth.
package core

import (
	"time"
)

// Label is the binary bot/human classification.
type Label int

const (
	LabelHuman Label = 0
	LabelBot   Label = 1
)

// String returns a human-readable name for the label.
func (l Label) String() string {
	if l == LabelBot {
		return "bot"
	}
	return "human"
}

// DebateStatus represents the current status of a single account's debate.
type DebateStatus string

const (
	StatusPending    DebateStatus = "pending"
	StatusArguing    DebateStatus = "arguing"
	StatusCritiquing DebateStatus = "critiquing"
	StatusJudging    DebateStatus = "judging"
	StatusClassified DebateStatus = "classified"
	StatusFailed     DebateStatus = "failed"
)

// Terminal returns true if the status is a terminal state.
func (s DebateStatus) Terminal() bool {
	return s == StatusClassified || s == StatusFailed
}

// Protocol selects the debate protocol used to reach a verdict.
type Protocol string

const (
	// ProtocolSimple runs three calls: both arguments, then the verdict.
	ProtocolSimple Protocol = "simple"

	// ProtocolCritique runs five calls: both arguments, cross-critiques
	// of each argument, then the verdict.
	ProtocolCritique Protocol = "critique"
)

// ParseProtocol validates a protocol name.
func ParseProtocol(s string) (Protocol, bool) {
	switch Protocol(s) {
	case ProtocolSimple, ProtocolCritique:
		return Protocol(s), true
	}
	return "", false
}

// Transcript holds the debate text accumulated for one account. It is
// owned by a single orchestration run and discarded once the verdict
// has been extracted.
type Transcript struct {
	BotArgument   string `json:"bot_argument,omitempty"`
	HumanArgument string `json:"human_argument,omitempty"`
	BotCritique   string `json:"bot_critique,omitempty"`
	HumanCritique string `json:"human_critique,omitempty"`
	JudgeText     string `json:"judge_text,omitempty"`
}

// AccountResult is the outcome of one account's debate.
type AccountResult struct {
	ID         string       `json:"id"`
	RunID      string       `json:"run_id,omitempty"`
	Username   string       `json:"username"`
	TrueLabel  Label        `json:"true_label"`
	Predicted  Label        `json:"predicted"`
	Status     DebateStatus `json:"status"`
	Stage      string       `json:"stage,omitempty"` // stage that failed
	Error      string       `json:"error,omitempty"`
	Transcript *Transcript  `json:"transcript,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

// Correct returns true if the predicted label matches the ground truth.
func (r *AccountResult) Correct() bool {
	return r.Predicted == r.TrueLabel
}

// Metrics holds aggregate classification metrics for a run.
type Metrics struct {
	Total     int     `json:"total"`
	Correct   int     `json:"correct"`
	Failed    int     `json:"failed"`
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// Run represents one evaluation run over a dataset.
type Run struct {
	ID          string       `json:"id"`
	DatasetPath string       `json:"dataset_path"`
	Format      string       `json:"format"` // dataset format: flat or rich
	Protocol    Protocol     `json:"protocol"`
	Provider    string       `json:"provider"`
	Model       string       `json:"model"`
	Temperature float64      `json:"temperature"`
	Status      DebateStatus `json:"status"`
	Total       int          `json:"total"`
	Metrics     *Metrics     `json:"metrics,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}

// RunSummary is a lightweight representation for listing runs.
type RunSummary struct {
	ID          string       `json:"id"`
	DatasetPath string       `json:"dataset_path"`
	Protocol    Protocol     `json:"protocol"`
	Model       string       `json:"model"`
	Status      DebateStatus `json:"status"`
	Total       int          `json:"total"`
	Accuracy    float64      `json:"accuracy"`
	CreatedAt   time.Time    `json:"created_at"`
}
