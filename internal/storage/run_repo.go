package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_run_store.go -package=mocks sciingest/internal/storage RunStore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// RunStore records batch ingestion runs.
type RunStore interface {
	// Record stores a finished run. An empty ID is replaced by a new UUID.
	Record(ctx context.Context, run *IngestRun) error
	// ListRecent returns up to limit runs, newest first.
	ListRecent(ctx context.Context, limit int) ([]IngestRun, error)
}

// RunRepo provides methods for ingestion run operations.
type RunRepo struct {
	db *sql.DB
}

// NewRunRepo creates a new RunRepo.
func NewRunRepo(db *sql.DB) *RunRepo {
	return &RunRepo{db: db}
}

// Record stores a finished run.
func (r *RunRepo) Record(ctx context.Context, run *IngestRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ingest_runs (id, kind, started_at, finished_at, total, successful, failed,
		 chunks_created, duplicates_skipped, dropped, dry_run)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Kind, formatTime(run.StartedAt), formatTime(run.FinishedAt),
		run.Total, run.Successful, run.Failed, run.ChunksCreated, run.DuplicatesSkipped,
		run.Dropped, run.DryRun,
	)
	if err != nil {
		return fmt.Errorf("failed to record ingest run: %w", err)
	}
	return nil
}

// ListRecent returns up to limit runs ordered by start time, newest first.
func (r *RunRepo) ListRecent(ctx context.Context, limit int) ([]IngestRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, started_at, finished_at, total, successful, failed,
		 chunks_created, duplicates_skipped, dropped, dry_run
		 FROM ingest_runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingest runs: %w", err)
	}

	runs := []IngestRun{}
	err = collectRows(rows, func(rows *sql.Rows) error {
		var run IngestRun
		var startedAt, finishedAt string
		if err := rows.Scan(&run.ID, &run.Kind, &startedAt, &finishedAt, &run.Total, &run.Successful,
			&run.Failed, &run.ChunksCreated, &run.DuplicatesSkipped, &run.Dropped, &run.DryRun); err != nil {
			return err
		}
		var err error
		if run.StartedAt, err = parseTime(startedAt); err != nil {
			return err
		}
		if run.FinishedAt, err = parseTime(finishedAt); err != nil {
			return err
		}
		runs = append(runs, run)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}
