package models

import "time"

// ExecutionRecord is one persisted executor run.
type ExecutionRecord struct {
	// RunID is the unique identifier assigned by the executor.
	RunID string `json:"run_id"`

	// ActorID identifies the actor the sequence ran against.
	ActorID string `json:"actor_id"`

	// TotalActions is the number of actions the run attempted.
	TotalActions int `json:"total_actions"`

	// Succeeded is the number of actions that completed without error.
	Succeeded int `json:"succeeded"`

	// Failed is the number of actions whose effect returned an error.
	Failed int `json:"failed"`

	// Cancelled reports whether the run stopped early, either through its
	// handle or because the actor became unavailable.
	Cancelled bool `json:"cancelled"`

	// DurationMs is the wall-clock duration of the run in milliseconds.
	DurationMs int64 `json:"duration_ms"`

	// Errors holds the per-action error messages, in execution order.
	Errors []string `json:"errors,omitempty"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`
}
