// Package events provides helper functions for logging directive events.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/framewave/directive/internal/models"
)

// Repository is the minimal interface needed to write events.
type Repository interface {
	Create(ctx context.Context, event *models.Event) error
}

// LogExecutionCompleted records the outcome of an executor run.
func LogExecutionCompleted(ctx context.Context, repo Repository, rec *models.ExecutionRecord) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	if rec == nil || rec.RunID == "" {
		return fmt.Errorf("execution record with run id is required")
	}

	payload, err := json.Marshal(models.ExecutionCompletedPayload{
		RunID:        rec.RunID,
		TotalActions: rec.TotalActions,
		Succeeded:    rec.Succeeded,
		Failed:       rec.Failed,
		DurationMs:   rec.DurationMs,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal execution payload: %w", err)
	}

	eventType := models.EventTypeExecutionCompleted
	if rec.Cancelled {
		eventType = models.EventTypeExecutionCancelled
	}

	event := &models.Event{
		Type:       eventType,
		EntityType: models.EntityTypeActor,
		EntityID:   rec.ActorID,
		Payload:    payload,
	}

	return repo.Create(ctx, event)
}

// LogActionFailed records a single failed action within a run.
func LogActionFailed(ctx context.Context, repo Repository, actorID, runID, action, errMsg string) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	if actorID == "" {
		return fmt.Errorf("actor id is required")
	}

	payload, err := json.Marshal(models.ActionFailedPayload{
		RunID:  runID,
		Action: action,
		Error:  errMsg,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal action payload: %w", err)
	}

	event := &models.Event{
		Type:       models.EventTypeActionFailed,
		EntityType: models.EntityTypeActor,
		EntityID:   actorID,
		Payload:    payload,
	}

	return repo.Create(ctx, event)
}

// LogActorUnavailable records that a run stopped because its actor could no
// longer receive effects.
func LogActorUnavailable(ctx context.Context, repo Repository, actorID, runID string) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	if actorID == "" {
		return fmt.Errorf("actor id is required")
	}

	payload, err := json.Marshal(models.ActorUnavailablePayload{RunID: runID})
	if err != nil {
		return fmt.Errorf("failed to marshal actor payload: %w", err)
	}

	event := &models.Event{
		Type:       models.EventTypeActorUnavailable,
		EntityType: models.EntityTypeActor,
		EntityID:   actorID,
		Payload:    payload,
	}

	return repo.Create(ctx, event)
}
