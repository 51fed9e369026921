package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/framewave/directive/internal/models"
)

// Execution repository errors.
var (
	ErrExecutionNotFound = errors.New("execution not found")
	ErrInvalidExecution  = errors.New("invalid execution record")
)

// ExecutionRepository persists executor runs.
type ExecutionRepository struct {
	db *DB
}

// NewExecutionRepository creates a new ExecutionRepository.
func NewExecutionRepository(db *DB) *ExecutionRepository {
	return &ExecutionRepository{db: db}
}

// ExecutionQuery defines filters for querying execution records.
type ExecutionQuery struct {
	ActorID *string    // Filter by actor ID
	Since   *time.Time // Runs started at or after this time (inclusive)
	Until   *time.Time // Runs started before this time (exclusive)
	Cursor  string     // Run ID from a previous page; only strictly older runs are returned
	Limit   int        // Max results to return
}

// RecordRun inserts a completed run. Implements engine.Recorder.
func (r *ExecutionRepository) RecordRun(ctx context.Context, rec *models.ExecutionRecord) error {
	if rec == nil || rec.RunID == "" || rec.ActorID == "" {
		return ErrInvalidExecution
	}

	startedAt := rec.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now().UTC()
	}

	var errorsJSON *string
	if len(rec.Errors) > 0 {
		data, err := json.Marshal(rec.Errors)
		if err != nil {
			return fmt.Errorf("marshal run errors: %w", err)
		}
		s := string(data)
		errorsJSON = &s
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO executions (
			run_id, actor_id, total_actions, succeeded, failed, cancelled, duration_ms, errors_json, started_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.RunID,
		rec.ActorID,
		rec.TotalActions,
		rec.Succeeded,
		rec.Failed,
		boolToInt(rec.Cancelled),
		rec.DurationMs,
		errorsJSON,
		startedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert execution: %w", err)
	}
	return nil
}

// Get returns a single run by ID.
func (r *ExecutionRepository) Get(ctx context.Context, runID string) (*models.ExecutionRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT run_id, actor_id, total_actions, succeeded, failed, cancelled, duration_ms, errors_json, started_at
		FROM executions WHERE run_id = ?
	`, runID)

	rec, err := scanExecution(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExecutionNotFound
	}
	return rec, err
}

// Query returns runs matching the filters, most recent first.
func (r *ExecutionRepository) Query(ctx context.Context, q ExecutionQuery) ([]*models.ExecutionRecord, error) {
	query := `
		SELECT run_id, actor_id, total_actions, succeeded, failed, cancelled, duration_ms, errors_json, started_at
		FROM executions WHERE 1=1
	`
	var args []any

	if q.ActorID != nil {
		query += " AND actor_id = ?"
		args = append(args, *q.ActorID)
	}
	if q.Since != nil {
		query += " AND started_at >= ?"
		args = append(args, q.Since.UTC().Format(time.RFC3339Nano))
	}
	if q.Until != nil {
		query += " AND started_at < ?"
		args = append(args, q.Until.UTC().Format(time.RFC3339Nano))
	}
	if q.Cursor != "" {
		cursor, err := r.Get(ctx, q.Cursor)
		if err != nil {
			return nil, fmt.Errorf("resolve cursor %q: %w", q.Cursor, err)
		}
		// Keyset pagination: run_id breaks ties between equal timestamps.
		ts := cursor.StartedAt.UTC().Format(time.RFC3339Nano)
		query += " AND (started_at < ? OR (started_at = ? AND run_id < ?))"
		args = append(args, ts, ts, cursor.RunID)
	}

	query += " ORDER BY started_at DESC, run_id DESC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query executions: %w", err)
	}
	defer rows.Close()

	var records []*models.ExecutionRecord
	for rows.Next() {
		rec, err := scanExecution(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExecution(row rowScanner) (*models.ExecutionRecord, error) {
	var (
		rec        models.ExecutionRecord
		cancelled  int
		errorsJSON sql.NullString
		startedAt  string
	)
	if err := row.Scan(
		&rec.RunID,
		&rec.ActorID,
		&rec.TotalActions,
		&rec.Succeeded,
		&rec.Failed,
		&cancelled,
		&rec.DurationMs,
		&errorsJSON,
		&startedAt,
	); err != nil {
		return nil, err
	}

	rec.Cancelled = cancelled != 0
	if errorsJSON.Valid && errorsJSON.String != "" {
		if err := json.Unmarshal([]byte(errorsJSON.String), &rec.Errors); err != nil {
			return nil, fmt.Errorf("unmarshal run errors: %w", err)
		}
	}
	ts, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	rec.StartedAt = ts

	return &rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
