package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/gtd_portal/internal/models"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// SyncRunRepository handles data access for sync_runs.
type SyncRunRepository struct {
	db *sqlx.DB
}

// NewSyncRunRepository creates a new SyncRunRepository.
func NewSyncRunRepository(db *sqlx.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

// Create inserts a finished sync run.
func (r *SyncRunRepository) Create(ctx context.Context, run *models.SyncRun) error {
	const q = `
		INSERT INTO sync_runs (id, trigger_source, status, total_processed, synced_count, updated_count,
			message, error_message, started_at, finished_at)
		VALUES (:id, :trigger_source, :status, :total_processed, :synced_count, :updated_count,
			:message, :error_message, :started_at, :finished_at)`
	_, err := r.db.NamedExecContext(ctx, q, run)
	return err
}

// ListRecent returns the latest runs, newest first.
func (r *SyncRunRepository) ListRecent(ctx context.Context, limit int) ([]models.SyncRun, error) {
	limit = clampLimit(limit)
	runs := []models.SyncRun{}
	err := r.db.SelectContext(ctx, &runs, `
		SELECT id, trigger_source, status, total_processed, synced_count, updated_count,
			message, error_message, started_at, finished_at
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// clampLimit falls back to the default page for non-positive or oversized limits.
func clampLimit(limit int) int {
	if limit <= 0 || limit > maxHistoryLimit {
		return defaultHistoryLimit
	}
	return limit
}
