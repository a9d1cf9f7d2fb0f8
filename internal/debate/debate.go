// Package debate orchestrates the adversarial classification debate
// for a single account: expert arguments, optional cross-critiques,
// and the judge's verdict.
package debate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alienxp03/botsleuth/internal/core"
	"github.com/alienxp03/botsleuth/internal/prompt"
	"github.com/alienxp03/botsleuth/internal/provider"
)

// Stage names reported on failed results.
const (
	StageBotArgument   = "bot_argument"
	StageHumanArgument = "human_argument"
	StageBotCritique   = "bot_critique"
	StageHumanCritique = "human_critique"
	StageVerdict       = "verdict"
)

// Options configures an orchestrator.
type Options struct {
	// Protocol selects the debate protocol. Defaults to ProtocolSimple.
	Protocol core.Protocol

	// Temperature is the sampling temperature passed on every call.
	Temperature float64

	// Model overrides the provider's default model when non-empty.
	Model string
}

// Orchestrator sequences the dependent completion calls required to
// classify one account. Failures never escape Classify: a failed
// account yields the documented default label (human) so that one
// account's failure cannot lose other accounts' results.
type Orchestrator struct {
	provider    provider.Provider
	protocol    core.Protocol
	temperature float64
	model       string
}

// New creates a debate orchestrator.
func New(p provider.Provider, opts Options) *Orchestrator {
	protocol := opts.Protocol
	if protocol == "" {
		protocol = core.ProtocolSimple
	}

	return &Orchestrator{
		provider:    p,
		protocol:    protocol,
		temperature: opts.Temperature,
		model:       opts.Model,
	}
}

// Protocol returns the configured debate protocol.
func (o *Orchestrator) Protocol() core.Protocol {
	return o.protocol
}

// Classify runs the full debate for one account and always returns a
// result. On any stage failure the remaining stages are skipped, the
// result is marked failed with the stage and cause, and the predicted
// label defaults to human.
func (o *Orchestrator) Classify(ctx context.Context, acc core.Account) (res *core.AccountResult) {
	res = &core.AccountResult{
		ID:         uuid.New().String(),
		Username:   acc.Identifier(),
		TrueLabel:  acc.TrueLabel(),
		Predicted:  core.LabelHuman,
		Status:     core.StatusPending,
		Transcript: &core.Transcript{},
		CreatedAt:  time.Now(),
	}

	// Unexpected failures are also contained at account granularity.
	defer func() {
		if r := recover(); r != nil {
			res = o.fail(res, res.Stage, fmt.Errorf("panic during debate: %v", r))
		}
	}()

	slog.Debug("Starting debate",
		"username", res.Username,
		"protocol", o.protocol,
	)

	res.Status = core.StatusArguing
	if stage, err := o.collectArguments(ctx, acc, res.Transcript); err != nil {
		return o.fail(res, stage, err)
	}

	if o.protocol == core.ProtocolCritique {
		res.Status = core.StatusCritiquing
		if stage, err := o.collectCritiques(ctx, acc, res.Transcript); err != nil {
			return o.fail(res, stage, err)
		}
	}

	res.Status = core.StatusJudging
	res.Stage = StageVerdict
	judgePrompt, err := prompt.Verdict(acc, res.Transcript)
	if err != nil {
		return o.fail(res, StageVerdict, err)
	}

	judgeText, err := o.provider.Complete(ctx, &provider.Request{
		System:      prompt.SystemJudge,
		Prompt:      judgePrompt,
		Temperature: o.temperature,
		Model:       o.model,
	})
	if err != nil {
		return o.fail(res, StageVerdict, err)
	}
	res.Transcript.JudgeText = judgeText

	verdict, err := core.ParseVerdict(judgeText)
	if err != nil {
		return o.fail(res, StageVerdict, err)
	}

	res.Predicted = verdict
	res.Status = core.StatusClassified
	res.Stage = ""

	slog.Info("Account classified",
		"username", res.Username,
		"predicted", verdict.String(),
		"truth", res.TrueLabel.String(),
	)
	return res
}

// stageResult carries one concurrent stage's output back to the caller.
type stageResult struct {
	stage string
	text  string
	err   error
}

// collectArguments runs the two layer-1 argument calls concurrently.
// They have no data dependency on each other.
func (o *Orchestrator) collectArguments(ctx context.Context, acc core.Account, tr *core.Transcript) (string, error) {
	results := make(chan stageResult, 2)

	go func() {
		text, err := o.completeStage(ctx, acc, StageBotArgument, prompt.SystemBotExpert, func() (string, error) {
			return prompt.BotArgument(acc)
		})
		results <- stageResult{stage: StageBotArgument, text: text, err: err}
	}()

	go func() {
		text, err := o.completeStage(ctx, acc, StageHumanArgument, prompt.SystemHumanExpert, func() (string, error) {
			return prompt.HumanArgument(acc)
		})
		results <- stageResult{stage: StageHumanArgument, text: text, err: err}
	}()

	var failedStage string
	var firstErr error
	for i := 0; i < 2; i++ {
		r := <-results
		if r.err != nil {
			if firstErr == nil {
				failedStage, firstErr = r.stage, r.err
			}
			continue
		}
		if r.stage == StageBotArgument {
			tr.BotArgument = r.text
		} else {
			tr.HumanArgument = r.text
		}
	}

	return failedStage, firstErr
}

// collectCritiques runs the two layer-2 critique calls concurrently.
// Each one depends only on the opposing layer-1 argument.
func (o *Orchestrator) collectCritiques(ctx context.Context, acc core.Account, tr *core.Transcript) (string, error) {
	results := make(chan stageResult, 2)

	go func() {
		text, err := o.completeStage(ctx, acc, StageBotCritique, prompt.SystemBotExpert, func() (string, error) {
			return prompt.BotCritique(acc, tr.HumanArgument)
		})
		results <- stageResult{stage: StageBotCritique, text: text, err: err}
	}()

	go func() {
		text, err := o.completeStage(ctx, acc, StageHumanCritique, prompt.SystemHumanExpert, func() (string, error) {
			return prompt.HumanCritique(acc, tr.BotArgument)
		})
		results <- stageResult{stage: StageHumanCritique, text: text, err: err}
	}()

	var failedStage string
	var firstErr error
	for i := 0; i < 2; i++ {
		r := <-results
		if r.err != nil {
			if firstErr == nil {
				failedStage, firstErr = r.stage, r.err
			}
			continue
		}
		if r.stage == StageBotCritique {
			tr.BotCritique = r.text
		} else {
			tr.HumanCritique = r.text
		}
	}

	return failedStage, firstErr
}

// completeStage renders one stage prompt and performs the completion.
func (o *Orchestrator) completeStage(ctx context.Context, acc core.Account, stage, system string, renderPrompt func() (string, error)) (string, error) {
	userPrompt, err := renderPrompt()
	if err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", stage, err)
	}

	text, err := o.provider.Complete(ctx, &provider.Request{
		System:      system,
		Prompt:      userPrompt,
		Temperature: o.temperature,
		Model:       o.model,
	})
	if err != nil {
		return "", fmt.Errorf("%s stage failed: %w", stage, err)
	}

	slog.Debug("Stage completed",
		"username", acc.Identifier(),
		"stage", stage,
		"output_len", len(text),
	)
	return text, nil
}

// fail marks the result failed and applies the default predicted label.
func (o *Orchestrator) fail(res *core.AccountResult, stage string, err error) *core.AccountResult {
	res.Status = core.StatusFailed
	res.Stage = stage
	res.Error = err.Error()
	res.Predicted = core.LabelHuman

	slog.Error("Debate failed",
		"username", res.Username,
		"stage", stage,
		"error", err,
	)
	return res
}
