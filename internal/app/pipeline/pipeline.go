/*
Package pipeline provides the staged execution machinery for the token route.

A request runs as an ordered sequence of named stages. Each stage executes under
its own timeout budget, and the whole request races a single hard deadline. Stage
outcomes are reported as stage-tagged error values, never panics, so the
originating stage is visible at every call site.
*/
package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/LiveStak-Brad/mylivelinks-sub010/internal/pkg/errs"
)

// Stage budgets. Parsing is local work; the network-bound stages get more room.
// The hard deadline is the caller-facing SLA and is independent of any stage.
const (
	ParseBudget     = 1 * time.Second
	VerifyBudget    = 3 * time.Second
	AuthorizeBudget = 3 * time.Second
	SignBudget      = 3 * time.Second
	HardDeadline    = 10 * time.Second
)

// Runner tracks per-request stage execution for structured diagnostics.
type Runner struct {
	start time.Time
	log   *zerolog.Logger
}

// NewRunner creates a Runner anchored at the request's start time.
func NewRunner(log *zerolog.Logger) *Runner {
	return &Runner{start: time.Now(), log: log}
}

type stageResult[T any] struct {
	value T
	err   *errs.CustomError
}

// RunStage executes work under the given budget for the named stage.
//
// The work function receives a context that is cancelled when the budget
// expires; if it does not return in time, RunStage abandons it and returns a
// stage-timeout error. The abandoned work may still run to completion in the
// background; its result goes to a buffered channel nobody reads, so it neither
// blocks nor leaks a goroutine waiting on a send.
func RunStage[T any](ctx context.Context, r *Runner, stage string, budget time.Duration, work func(context.Context) (T, *errs.CustomError)) (T, *errs.CustomError) {
	startOffset := time.Since(r.start)

	stageCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	results := make(chan stageResult[T], 1)
	go func() {
		value, err := work(stageCtx)
		results <- stageResult[T]{value: value, err: err}
	}()

	var zero T
	select {
	case res := <-results:
		outcome := "ok"
		if res.err != nil {
			outcome = "errored"
		}
		r.logStage(stage, startOffset, budget, outcome)
		return res.value, res.err
	case <-stageCtx.Done():
		r.logStage(stage, startOffset, budget, "timed_out")
		return zero, errs.NewStageTimeout(stage)
	}
}

// RunInline executes work for the named stage on the calling goroutine.
//
// Stages that touch handler-owned state (the request body, the response writer)
// must not be abandoned to a background goroutine: net/http forbids using either
// after ServeHTTP returns. RunInline still derives a budget-bound context so the
// work can observe its deadline, and reports a stage timeout when the work
// failed with the budget already expired.
func RunInline[T any](ctx context.Context, r *Runner, stage string, budget time.Duration, work func(context.Context) (T, *errs.CustomError)) (T, *errs.CustomError) {
	startOffset := time.Since(r.start)

	stageCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	value, err := work(stageCtx)
	if err != nil && stageCtx.Err() != nil {
		r.logStage(stage, startOffset, budget, "timed_out")
		var zero T
		return zero, errs.NewStageTimeout(stage)
	}

	outcome := "ok"
	if err != nil {
		outcome = "errored"
	}
	r.logStage(stage, startOffset, budget, outcome)
	return value, err
}

func (r *Runner) logStage(stage string, startOffset, budget time.Duration, outcome string) {
	r.log.Debug().
		Str("stage", stage).
		Int64("start_offset_ms", startOffset.Milliseconds()).
		Int64("budget_ms", budget.Milliseconds()).
		Str("outcome", outcome).
		Msg("stage finished")
}

// WithHardDeadline races run against the whole-request deadline d.
//
// If the deadline fires first, the hard-timeout response is emitted through em
// and WithHardDeadline returns; the still-running pipeline is abandoned. The
// emitter's once-latch guarantees that whichever side emits first wins and the
// loser's write never reaches the connection.
func WithHardDeadline(ctx context.Context, d time.Duration, em *Emitter, run func(context.Context)) {
	hardCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		run(hardCtx)
	}()

	select {
	case <-done:
	case <-hardCtx.Done():
		em.SendError(errs.NewError(errs.ErrHardTimeout))
	}
}
