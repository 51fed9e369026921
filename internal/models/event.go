// Package models defines the shared data types persisted by directive.
package models

import (
	"encoding/json"
	"time"
)

// EventType categorizes events in the system.
type EventType string

const (
	// Execution events
	EventTypeExecutionCompleted EventType = "execution.completed"
	EventTypeExecutionCancelled EventType = "execution.cancelled"

	// Action events
	EventTypeActionFailed EventType = "action.failed"

	// Actor events
	EventTypeActorUnavailable EventType = "actor.unavailable"
)

// EntityType identifies the type of entity an event relates to.
type EntityType string

const (
	EntityTypeActor EntityType = "actor"
)

// Event represents an append-only log entry.
type Event struct {
	// ID is the unique identifier for the event.
	ID string `json:"id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type categorizes the event.
	Type EventType `json:"type"`

	// EntityType identifies what kind of entity this event relates to.
	EntityType EntityType `json:"entity_type"`

	// EntityID identifies the specific entity.
	EntityID string `json:"entity_id"`

	// Payload carries type-specific event data.
	Payload json.RawMessage `json:"payload,omitempty"`

	// Metadata carries free-form annotations.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ExecutionCompletedPayload is the payload for execution.completed events.
type ExecutionCompletedPayload struct {
	RunID        string `json:"run_id"`
	TotalActions int    `json:"total_actions"`
	Succeeded    int    `json:"succeeded"`
	Failed       int    `json:"failed"`
	DurationMs   int64  `json:"duration_ms"`
}

// ActionFailedPayload is the payload for action.failed events.
type ActionFailedPayload struct {
	RunID  string `json:"run_id"`
	Action string `json:"action"`
	Error  string `json:"error"`
}

// ActorUnavailablePayload is the payload for actor.unavailable events.
type ActorUnavailablePayload struct {
	RunID string `json:"run_id"`
}
