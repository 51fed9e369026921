package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/framewave/directive/internal/actor"
	"github.com/framewave/directive/internal/events"
	"github.com/framewave/directive/internal/logging"
	"github.com/framewave/directive/internal/models"
	"github.com/framewave/directive/internal/script"
)

// TickDuration is the wall-clock length of one tick, the host platform's
// scheduling granularity. Delay and title timing fields are expressed in
// ticks.
const TickDuration = 50 * time.Millisecond

// Config contains executor configuration.
type Config struct {
	// MaxDepth limits conditional nesting during execution.
	// Default: 16.
	MaxDepth int

	// MaxActionsPerRun stops a run after this many attempted actions.
	// Zero means unlimited.
	MaxActionsPerRun int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxDepth:         16,
		MaxActionsPerRun: 0,
	}
}

// Result aggregates the outcome of one executor run. It is created once
// per run and immutable after the run completes. Actions skipped because
// the actor became unavailable or the run was cancelled appear in neither
// the success nor the failure count.
type Result struct {
	// RunID is the unique identifier for this run.
	RunID string

	// ActorID identifies the actor the sequence ran against.
	ActorID string

	// TotalActions is the number of actions attempted. Conditional nodes
	// are transparent: only the actions of the executed branch count.
	TotalActions int

	// SuccessCount is the number of actions that completed without error.
	SuccessCount int

	// FailureCount is the number of actions whose effect failed.
	FailureCount int

	// Cancelled reports whether the run stopped before reaching the end of
	// the sequence.
	Cancelled bool

	// DurationMs is the wall-clock duration of the run in milliseconds.
	DurationMs int64

	// Errors holds one formatted message per failed action, in order.
	Errors []string

	// StartedAt is when the run began.
	StartedAt time.Time
}

// Stats contains aggregate executor statistics across runs.
type Stats struct {
	// Runs is the total number of completed runs.
	Runs int64

	// ActionsSucceeded is the total number of successful actions.
	ActionsSucceeded int64

	// ActionsFailed is the total number of failed actions.
	ActionsFailed int64

	// LastRunAt is when the most recent run started.
	LastRunAt *time.Time
}

// Recorder persists completed runs. Implementations must tolerate being
// called from many concurrent runs.
type Recorder interface {
	RecordRun(ctx context.Context, rec *models.ExecutionRecord) error
}

// Executor runs action lists against actors. Many runs may proceed
// concurrently for different actors; within one run actions execute
// strictly in order, and the only suspension point is a delay action.
type Executor struct {
	config   Config
	eval     *Evaluator
	effects  actor.Effector
	recorder Recorder
	events   events.Repository
	logger   zerolog.Logger

	statsMu sync.RWMutex
	stats   Stats
}

// New creates an Executor. The recorder may be nil to disable history.
func New(config Config, eval *Evaluator, effects actor.Effector, recorder Recorder) *Executor {
	if config.MaxDepth <= 0 {
		config.MaxDepth = DefaultConfig().MaxDepth
	}
	return &Executor{
		config:   config,
		eval:     eval,
		effects:  effects,
		recorder: recorder,
		logger:   logging.Component("executor"),
	}
}

// SetEventLog attaches an event repository. When set, runs append
// execution.completed/cancelled, action.failed, and actor.unavailable events
// alongside the recorder.
func (e *Executor) SetEventLog(repo events.Repository) {
	e.events = repo
}

// Execute runs list against a, blocking until the sequence completes, the
// actor becomes unavailable, or ctx is cancelled. A single failing action
// is recorded and the sequence continues; failure never aborts the run.
func (e *Executor) Execute(ctx context.Context, a actor.Actor, list script.ActionList) *Result {
	return e.run(ctx, a, list, uuid.New().String())
}

// Handle tracks an asynchronous run and supports cooperative cancellation.
// Cancellation takes effect between actions; an in-flight effect is not
// aborted.
type Handle struct {
	// RunID is the unique identifier for the run.
	RunID string

	cancel context.CancelFunc
	done   chan struct{}
	result *Result
}

// Cancel requests cancellation. Safe to call multiple times.
func (h *Handle) Cancel() { h.cancel() }

// Done returns a channel closed when the run finishes.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the run finishes and returns its result.
func (h *Handle) Wait() *Result {
	<-h.done
	return h.result
}

// ExecuteAsync starts list against a in its own goroutine and returns a
// handle for cancellation and completion.
func (e *Executor) ExecuteAsync(ctx context.Context, a actor.Actor, list script.ActionList) *Handle {
	runCtx, cancel := context.WithCancel(ctx)
	h := &Handle{
		RunID:  uuid.New().String(),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(h.done)
		defer cancel()
		h.result = e.run(runCtx, a, list, h.RunID)
	}()

	return h
}

// Stats returns current executor statistics.
func (e *Executor) Stats() Stats {
	e.statsMu.RLock()
	defer e.statsMu.RUnlock()
	return e.stats
}

func (e *Executor) run(ctx context.Context, a actor.Actor, list script.ActionList, runID string) *Result {
	res := &Result{
		RunID:     runID,
		ActorID:   a.ID(),
		StartedAt: time.Now().UTC(),
	}
	start := time.Now()

	e.logger.Debug().
		Str("run_id", runID).
		Str("actor_id", res.ActorID).
		Int("actions", len(list)).
		Msg("run starting")

	e.runList(ctx, a, list, res, 0)
	res.DurationMs = time.Since(start).Milliseconds()

	e.recordStats(res)

	e.logger.Info().
		Str("run_id", runID).
		Str("actor_id", res.ActorID).
		Int("total", res.TotalActions).
		Int("succeeded", res.SuccessCount).
		Int("failed", res.FailureCount).
		Bool("cancelled", res.Cancelled).
		Int64("duration_ms", res.DurationMs).
		Msg("run finished")

	if e.recorder != nil || e.events != nil {
		rec := &models.ExecutionRecord{
			RunID:        res.RunID,
			ActorID:      res.ActorID,
			TotalActions: res.TotalActions,
			Succeeded:    res.SuccessCount,
			Failed:       res.FailureCount,
			Cancelled:    res.Cancelled,
			DurationMs:   res.DurationMs,
			Errors:       res.Errors,
			StartedAt:    res.StartedAt,
		}
		// Recording must survive run cancellation.
		recordCtx := context.WithoutCancel(ctx)
		if e.recorder != nil {
			if err := e.recorder.RecordRun(recordCtx, rec); err != nil {
				e.logger.Warn().Err(err).Str("run_id", runID).Msg("failed to record run")
			}
		}
		if e.events != nil {
			if err := events.LogExecutionCompleted(recordCtx, e.events, rec); err != nil {
				e.logger.Warn().Err(err).Str("run_id", runID).Msg("failed to log run event")
			}
		}
	}

	return res
}

// runList executes one action list in order. It returns true when the run
// must stop (cancellation, actor unavailable, or quota); remaining actions
// are skipped without touching the counters.
func (e *Executor) runList(ctx context.Context, a actor.Actor, list script.ActionList, res *Result, depth int) bool {
	for _, act := range list {
		if ctx.Err() != nil {
			res.Cancelled = true
			e.logger.Debug().Str("run_id", res.RunID).Msg("run cancelled")
			return true
		}
		if !a.Available() {
			res.Cancelled = true
			e.logger.Debug().
				Str("run_id", res.RunID).
				Str("actor_id", res.ActorID).
				Msg("actor unavailable, stopping run")
			if e.events != nil {
				if err := events.LogActorUnavailable(context.WithoutCancel(ctx), e.events, res.ActorID, res.RunID); err != nil {
					e.logger.Warn().Err(err).Str("run_id", res.RunID).Msg("failed to log actor event")
				}
			}
			return true
		}
		if e.config.MaxActionsPerRun > 0 && res.TotalActions >= e.config.MaxActionsPerRun {
			res.Cancelled = true
			e.logger.Warn().
				Str("run_id", res.RunID).
				Int("max_actions", e.config.MaxActionsPerRun).
				Msg("run exceeded action quota, stopping")
			return true
		}

		switch node := act.(type) {
		case *script.DelayAction:
			res.TotalActions++
			if !e.sleep(ctx, node.Ticks) {
				res.Cancelled = true
				return true
			}
			res.SuccessCount++

		case *script.ConditionalAction:
			if stop := e.runConditional(ctx, a, node, res, depth); stop {
				return true
			}

		default:
			res.TotalActions++
			if err := e.perform(a, act); err != nil {
				res.FailureCount++
				res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", script.ActionName(act), err))
				e.logger.Warn().
					Err(err).
					Str("run_id", res.RunID).
					Str("action", script.ActionName(act)).
					Msg("action failed, continuing")
				if e.events != nil {
					if logErr := events.LogActionFailed(context.WithoutCancel(ctx), e.events, res.ActorID, res.RunID, script.ActionName(act), err.Error()); logErr != nil {
						e.logger.Warn().Err(logErr).Str("run_id", res.RunID).Msg("failed to log action event")
					}
				}
			} else {
				res.SuccessCount++
			}
		}
	}
	return false
}

// runConditional evaluates the condition once and recursively executes the
// selected branch. A capability failure degrades to "not satisfied"; branch
// errors are already isolated per action and never propagate past this node.
func (e *Executor) runConditional(ctx context.Context, a actor.Actor, node *script.ConditionalAction, res *Result, depth int) bool {
	if depth >= e.config.MaxDepth {
		e.logger.Warn().
			Str("run_id", res.RunID).
			Int("max_depth", e.config.MaxDepth).
			Msg("conditional nesting too deep, skipping")
		return false
	}

	satisfied, err := e.eval.Evaluate(a, node.Condition)
	if err != nil {
		satisfied = false
		e.logger.Warn().
			Err(err).
			Str("run_id", res.RunID).
			Str("condition", node.Condition.String()).
			Msg("condition evaluation failed, treating as not satisfied")
	}

	branch := node.Then
	if !satisfied {
		branch = node.Else
	}
	if branch == nil {
		return false
	}
	return e.runList(ctx, a, branch, res, depth+1)
}

// sleep suspends the run for ticks ticks. Returns false when the context
// was cancelled before the delay elapsed.
func (e *Executor) sleep(ctx context.Context, ticks int) bool {
	if ticks <= 0 {
		return true
	}
	timer := time.NewTimer(time.Duration(ticks) * TickDuration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// perform dispatches one non-delay, non-conditional action to the effector.
// A panicking effector is converted into an action failure so one broken
// effect cannot take down the run.
func (e *Executor) perform(a actor.Actor, act script.Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("effect panicked: %v", r)
		}
	}()

	switch node := act.(type) {
	case *script.TellAction:
		return e.effects.SendText(a, node.Text)
	case *script.ActionBarAction:
		return e.effects.ShowActionBar(a, node.Text)
	case *script.SoundAction:
		return e.effects.PlaySound(a, node.Name, node.Volume, node.Pitch)
	case *script.TitleAction:
		return e.effects.ShowTitle(a, node.Title, node.Subtitle, node.FadeIn, node.Stay, node.FadeOut)
	case *script.ActorCommandAction:
		return e.effects.RunAsActor(a, node.Command)
	case *script.HostCommandAction:
		return e.effects.RunAsHost(a, node.Command)
	default:
		return fmt.Errorf("unsupported action %T", act)
	}
}

func (e *Executor) recordStats(res *Result) {
	e.statsMu.Lock()
	e.stats.Runs++
	e.stats.ActionsSucceeded += int64(res.SuccessCount)
	e.stats.ActionsFailed += int64(res.FailureCount)
	startedAt := res.StartedAt
	e.stats.LastRunAt = &startedAt
	e.statsMu.Unlock()
}
