// Package eval fans the debate out across independent accounts with a
// bounded worker pool and computes aggregate classification metrics.
package eval

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/alienxp03/botsleuth/internal/core"
)

// Classifier produces a result for one account. It must always return
// a usable result; failures are encoded on the result itself.
type Classifier interface {
	Classify(ctx context.Context, acc core.Account) *core.AccountResult
}

// Pair is one (ground truth, predicted) observation.
type Pair struct {
	Truth     core.Label `json:"truth"`
	Predicted core.Label `json:"predicted"`
}

// Report is the outcome of evaluating a batch of accounts.
type Report struct {
	// Results holds one entry per scheduled account, in completion
	// order. Pairing with the originating account is by the result's
	// username, not by position.
	Results []*core.AccountResult `json:"results"`

	Metrics core.Metrics `json:"metrics"`
}

// Pairs returns the (truth, predicted) observations for all results.
func (r *Report) Pairs() []Pair {
	pairs := make([]Pair, len(r.Results))
	for i, res := range r.Results {
		pairs[i] = Pair{Truth: res.TrueLabel, Predicted: res.Predicted}
	}
	return pairs
}

// ProgressFunc is called after each account completes.
type ProgressFunc func(done, total int, res *core.AccountResult)

// Harness runs debates across independent accounts in parallel.
// Accounts share no mutable state, so the only coordination is the
// worker pool itself.
type Harness struct {
	classifier Classifier
	workers    int
	progress   ProgressFunc
}

// NewHarness creates a harness with the given pool size. A size of 0
// or less uses the number of CPUs.
func NewHarness(c Classifier, workers int) *Harness {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Harness{classifier: c, workers: workers}
}

// OnProgress registers a callback invoked after each completed account.
func (h *Harness) OnProgress(fn ProgressFunc) {
	h.progress = fn
}

// Evaluate classifies every account and returns one result per
// scheduled account. Cancelling the context stops scheduling further
// accounts; in-flight debates run to completion (or fail) on their own.
func (h *Harness) Evaluate(ctx context.Context, accounts []core.Account) *Report {
	workers := h.workers
	if workers > len(accounts) {
		workers = len(accounts)
	}

	jobs := make(chan core.Account)
	results := make(chan *core.AccountResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for acc := range jobs {
				results <- h.classifier.Classify(ctx, acc)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, acc := range accounts {
			select {
			case <-ctx.Done():
				slog.Warn("Evaluation cancelled, not scheduling remaining accounts",
					"remaining", len(accounts),
				)
				return
			case jobs <- acc:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]*core.AccountResult, 0, len(accounts))
	for res := range results {
		collected = append(collected, res)
		if h.progress != nil {
			h.progress(len(collected), len(accounts), res)
		}
	}

	return &Report{
		Results: collected,
		Metrics: ComputeMetrics(collected),
	}
}

// ComputeMetrics computes accuracy, precision, recall and F1 over the
// full result set, failed (defaulted) accounts included. The bot label
// is the positive class. Undefined ratios are reported as 0.
func ComputeMetrics(results []*core.AccountResult) core.Metrics {
	m := core.Metrics{Total: len(results)}

	var tp, tn, fp, fn int
	for _, r := range results {
		if r.Status == core.StatusFailed {
			m.Failed++
		}

		switch {
		case r.Predicted == core.LabelBot && r.TrueLabel == core.LabelBot:
			tp++
		case r.Predicted == core.LabelBot && r.TrueLabel == core.LabelHuman:
			fp++
		case r.Predicted == core.LabelHuman && r.TrueLabel == core.LabelHuman:
			tn++
		default:
			fn++
		}
	}

	m.Correct = tp + tn
	if m.Total > 0 {
		m.Accuracy = float64(m.Correct) / float64(m.Total)
	}
	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}

	return m
}
