package db

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/framewave/directive/internal/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "directive.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func sampleRecord(runID, actorID string, startedAt time.Time) *models.ExecutionRecord {
	return &models.ExecutionRecord{
		RunID:        runID,
		ActorID:      actorID,
		TotalActions: 3,
		Succeeded:    2,
		Failed:       1,
		Cancelled:    false,
		DurationMs:   120,
		Errors:       []string{"command: world missing"},
		StartedAt:    startedAt,
	}
}

func TestRecordRunAndGet(t *testing.T) {
	repo := NewExecutionRepository(openTestDB(t))
	ctx := context.Background()

	started := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	if err := repo.RecordRun(ctx, sampleRecord("run-1", "alice", started)); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	got, err := repo.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ActorID != "alice" || got.TotalActions != 3 || got.Succeeded != 2 || got.Failed != 1 {
		t.Errorf("record mismatch: %+v", got)
	}
	if len(got.Errors) != 1 || got.Errors[0] != "command: world missing" {
		t.Errorf("errors mismatch: %v", got.Errors)
	}
	if !got.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, started)
	}
}

func TestRecordRunValidation(t *testing.T) {
	repo := NewExecutionRepository(openTestDB(t))
	ctx := context.Background()

	cases := []*models.ExecutionRecord{
		nil,
		{ActorID: "alice"},
		{RunID: "run-1"},
	}
	for _, rec := range cases {
		if err := repo.RecordRun(ctx, rec); !errors.Is(err, ErrInvalidExecution) {
			t.Errorf("record %+v: expected ErrInvalidExecution, got %v", rec, err)
		}
	}
}

func TestGetNotFound(t *testing.T) {
	repo := NewExecutionRepository(openTestDB(t))

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, ErrExecutionNotFound) {
		t.Fatalf("expected ErrExecutionNotFound, got %v", err)
	}
}

func TestQueryFilters(t *testing.T) {
	repo := NewExecutionRepository(openTestDB(t))
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	fixtures := []struct {
		runID   string
		actorID string
		offset  time.Duration
	}{
		{"run-1", "alice", 0},
		{"run-2", "alice", time.Hour},
		{"run-3", "bob", 2 * time.Hour},
	}
	for _, f := range fixtures {
		if err := repo.RecordRun(ctx, sampleRecord(f.runID, f.actorID, base.Add(f.offset))); err != nil {
			t.Fatalf("RecordRun %s: %v", f.runID, err)
		}
	}

	all, err := repo.Query(ctx, ExecutionQuery{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d records, want 3", len(all))
	}
	if all[0].RunID != "run-3" {
		t.Errorf("records not ordered most recent first: %s", all[0].RunID)
	}

	alice := "alice"
	byActor, err := repo.Query(ctx, ExecutionQuery{ActorID: &alice})
	if err != nil {
		t.Fatalf("Query by actor: %v", err)
	}
	if len(byActor) != 2 {
		t.Errorf("got %d records for alice, want 2", len(byActor))
	}

	since := base.Add(30 * time.Minute)
	until := base.Add(90 * time.Minute)
	window, err := repo.Query(ctx, ExecutionQuery{Since: &since, Until: &until})
	if err != nil {
		t.Fatalf("Query window: %v", err)
	}
	if len(window) != 1 || window[0].RunID != "run-2" {
		t.Errorf("window query mismatch: %+v", window)
	}

	limited, err := repo.Query(ctx, ExecutionQuery{Limit: 1})
	if err != nil {
		t.Fatalf("Query limit: %v", err)
	}
	if len(limited) != 1 || limited[0].RunID != "run-3" {
		t.Errorf("limit query mismatch: %+v", limited)
	}
}

func TestQueryCursorPagination(t *testing.T) {
	repo := NewExecutionRepository(openTestDB(t))
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec := sampleRecord(fmt.Sprintf("run-%d", i), "alice", base.Add(time.Duration(i)*time.Minute))
		if err := repo.RecordRun(ctx, rec); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	first, err := repo.Query(ctx, ExecutionQuery{Limit: 2})
	if err != nil {
		t.Fatalf("Query first page: %v", err)
	}
	if len(first) != 2 || first[0].RunID != "run-4" || first[1].RunID != "run-3" {
		t.Fatalf("first page mismatch: %+v", first)
	}

	second, err := repo.Query(ctx, ExecutionQuery{Limit: 2, Cursor: first[1].RunID})
	if err != nil {
		t.Fatalf("Query second page: %v", err)
	}
	if len(second) != 2 || second[0].RunID != "run-2" || second[1].RunID != "run-1" {
		t.Fatalf("second page mismatch: %+v", second)
	}

	last, err := repo.Query(ctx, ExecutionQuery{Limit: 2, Cursor: second[1].RunID})
	if err != nil {
		t.Fatalf("Query last page: %v", err)
	}
	if len(last) != 1 || last[0].RunID != "run-0" {
		t.Fatalf("last page mismatch: %+v", last)
	}
}

func TestQueryCursorTiesBreakOnRunID(t *testing.T) {
	repo := NewExecutionRepository(openTestDB(t))
	ctx := context.Background()

	at := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	for _, runID := range []string{"run-a", "run-b", "run-c"} {
		if err := repo.RecordRun(ctx, sampleRecord(runID, "alice", at)); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	page, err := repo.Query(ctx, ExecutionQuery{Limit: 2, Cursor: "run-c"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(page) != 2 || page[0].RunID != "run-b" || page[1].RunID != "run-a" {
		t.Fatalf("tie-broken page mismatch: %+v", page)
	}
}

func TestQueryUnknownCursor(t *testing.T) {
	repo := NewExecutionRepository(openTestDB(t))

	_, err := repo.Query(context.Background(), ExecutionQuery{Cursor: "missing"})
	if !errors.Is(err, ErrExecutionNotFound) {
		t.Fatalf("expected ErrExecutionNotFound for unknown cursor, got %v", err)
	}
}

func TestRecordRunCancelledRoundTrip(t *testing.T) {
	repo := NewExecutionRepository(openTestDB(t))
	ctx := context.Background()

	rec := sampleRecord("run-c", "alice", time.Now().UTC())
	rec.Cancelled = true
	rec.Errors = nil
	if err := repo.RecordRun(ctx, rec); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	got, err := repo.Get(ctx, "run-c")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Cancelled {
		t.Error("cancelled flag lost")
	}
	if got.Errors != nil {
		t.Errorf("expected no errors, got %v", got.Errors)
	}
}
