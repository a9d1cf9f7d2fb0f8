package eval

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alienxp03/botsleuth/internal/core"
)

// fakeClassifier labels accounts by scripted outcome: usernames with a
// "bot" prefix are predicted bot, "fail" accounts fail and default to
// human.
type fakeClassifier struct {
	calls atomic.Int32
}

func (f *fakeClassifier) Classify(ctx context.Context, acc core.Account) *core.AccountResult {
	f.calls.Add(1)

	res := &core.AccountResult{
		ID:        core.GenerateID(),
		Username:  acc.Identifier(),
		TrueLabel: acc.TrueLabel(),
		Predicted: core.LabelHuman,
		Status:    core.StatusClassified,
	}

	switch {
	case hasPrefix(acc.Identifier(), "fail"):
		res.Status = core.StatusFailed
		res.Stage = "bot_argument"
		res.Error = "simulated transport failure"
	case hasPrefix(acc.Identifier(), "bot"):
		res.Predicted = core.LabelBot
	}
	return res
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func flatAccount(username string, truth core.Label) core.Account {
	return core.NewFlatAccount(1, username, 10, 5, 1, 100, false, truth,
		"", "2022-01-01 00:00:00", "")
}

func TestEvaluatePairingCompleteness(t *testing.T) {
	// A batch where some accounts fail at a stage must still yield
	// exactly one pair per account, with matching ground truth.
	accounts := []core.Account{
		flatAccount("bot1", core.LabelBot),
		flatAccount("fail1", core.LabelBot),
		flatAccount("human1", core.LabelHuman),
		flatAccount("bot2", core.LabelBot),
		flatAccount("fail2", core.LabelHuman),
		flatAccount("human2", core.LabelHuman),
		flatAccount("bot3", core.LabelHuman),
	}

	classifier := &fakeClassifier{}
	h := NewHarness(classifier, 3)
	report := h.Evaluate(context.Background(), accounts)

	require.Len(t, report.Results, len(accounts))
	require.Len(t, report.Pairs(), len(accounts))
	assert.Equal(t, int32(len(accounts)), classifier.calls.Load())

	// Each result's ground truth must match its originating account,
	// paired explicitly by username, not by position.
	truthByName := make(map[string]core.Label)
	for _, acc := range accounts {
		truthByName[acc.Identifier()] = acc.TrueLabel()
	}
	seen := make(map[string]bool)
	for _, res := range report.Results {
		assert.Equal(t, truthByName[res.Username], res.TrueLabel, "username %s", res.Username)
		assert.False(t, seen[res.Username], "duplicate result for %s", res.Username)
		seen[res.Username] = true
	}

	assert.Equal(t, 2, report.Metrics.Failed)
}

func TestEvaluateProgressCallback(t *testing.T) {
	accounts := []core.Account{
		flatAccount("human1", core.LabelHuman),
		flatAccount("human2", core.LabelHuman),
	}

	h := NewHarness(&fakeClassifier{}, 1)
	var notified int
	h.OnProgress(func(done, total int, res *core.AccountResult) {
		notified++
		assert.Equal(t, notified, done)
		assert.Equal(t, len(accounts), total)
		assert.NotNil(t, res)
	})

	h.Evaluate(context.Background(), accounts)
	assert.Equal(t, len(accounts), notified)
}

func TestEvaluateCancelledContextSchedulesNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	accounts := []core.Account{
		flatAccount("human1", core.LabelHuman),
		flatAccount("human2", core.LabelHuman),
	}

	classifier := &fakeClassifier{}
	h := NewHarness(classifier, 2)
	report := h.Evaluate(ctx, accounts)

	// No new accounts may be scheduled after cancellation.
	assert.LessOrEqual(t, len(report.Results), len(accounts))
	assert.Equal(t, int32(len(report.Results)), classifier.calls.Load())
}

func TestEvaluateEmptyBatch(t *testing.T) {
	h := NewHarness(&fakeClassifier{}, 4)
	report := h.Evaluate(context.Background(), nil)

	assert.Empty(t, report.Results)
	assert.Equal(t, 0, report.Metrics.Total)
}

func TestComputeMetrics(t *testing.T) {
	result := func(truth, predicted core.Label, failed bool) *core.AccountResult {
		status := core.StatusClassified
		if failed {
			status = core.StatusFailed
		}
		return &core.AccountResult{TrueLabel: truth, Predicted: predicted, Status: status}
	}

	t.Run("MixedBatch", func(t *testing.T) {
		// tp=2 fp=1 tn=1 fn=1
		results := []*core.AccountResult{
			result(core.LabelBot, core.LabelBot, false),
			result(core.LabelBot, core.LabelBot, false),
			result(core.LabelHuman, core.LabelBot, false),
			result(core.LabelHuman, core.LabelHuman, false),
			result(core.LabelBot, core.LabelHuman, true), // failed, defaulted
		}

		m := ComputeMetrics(results)
		assert.Equal(t, 5, m.Total)
		assert.Equal(t, 3, m.Correct)
		assert.Equal(t, 1, m.Failed)
		assert.InDelta(t, 0.6, m.Accuracy, 1e-9)
		assert.InDelta(t, 2.0/3.0, m.Precision, 1e-9)
		assert.InDelta(t, 2.0/3.0, m.Recall, 1e-9)
		assert.InDelta(t, 2.0/3.0, m.F1, 1e-9)
	})

	t.Run("AllCorrect", func(t *testing.T) {
		results := []*core.AccountResult{
			result(core.LabelBot, core.LabelBot, false),
			result(core.LabelHuman, core.LabelHuman, false),
		}

		m := ComputeMetrics(results)
		assert.Equal(t, 1.0, m.Accuracy)
		assert.Equal(t, 1.0, m.Precision)
		assert.Equal(t, 1.0, m.Recall)
		assert.Equal(t, 1.0, m.F1)
	})

	t.Run("NoPositivePredictionsYieldsZeroPrecision", func(t *testing.T) {
		results := []*core.AccountResult{
			result(core.LabelBot, core.LabelHuman, false),
			result(core.LabelHuman, core.LabelHuman, false),
		}

		m := ComputeMetrics(results)
		assert.Equal(t, 0.0, m.Precision)
		assert.Equal(t, 0.0, m.Recall)
		assert.Equal(t, 0.0, m.F1)
	})

	t.Run("Empty", func(t *testing.T) {
		m := ComputeMetrics(nil)
		assert.Equal(t, core.Metrics{}, m)
	})
}

func TestFailureSpikeDepressesAccuracy(t *testing.T) {
	// Failures default to human; a batch of true bots that all fail
	// must therefore score zero accuracy rather than shrink the sample.
	var results []*core.AccountResult
	for i := 0; i < 4; i++ {
		results = append(results, &core.AccountResult{
			Username:  fmt.Sprintf("bot%d", i),
			TrueLabel: core.LabelBot,
			Predicted: core.LabelHuman,
			Status:    core.StatusFailed,
		})
	}

	m := ComputeMetrics(results)
	assert.Equal(t, 4, m.Total)
	assert.Equal(t, 0.0, m.Accuracy)
	assert.Equal(t, 4, m.Failed)
}
