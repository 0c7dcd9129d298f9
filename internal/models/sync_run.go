package models

import "time"

// SyncRunStatus enumerates the outcome of a price-list sync.
type SyncRunStatus string

const (
	SyncRunSuccess SyncRunStatus = "success"
	SyncRunFailed  SyncRunStatus = "failed"
)

// SyncRun records one request to the backend's prepaid sync endpoint.
type SyncRun struct {
	ID             string        `db:"id" json:"id"`
	Trigger        string        `db:"trigger_source" json:"trigger"` // "manual" or "worker"
	Status         SyncRunStatus `db:"status" json:"status"`
	TotalProcessed int           `db:"total_processed" json:"totalProcessed"`
	SyncedCount    int           `db:"synced_count" json:"syncedCount"`
	UpdatedCount   int           `db:"updated_count" json:"updatedCount"`
	Message        string        `db:"message" json:"message,omitempty"`
	ErrorMessage   string        `db:"error_message" json:"errorMessage,omitempty"`
	StartedAt      time.Time     `db:"started_at" json:"startedAt"`
	FinishedAt     time.Time     `db:"finished_at" json:"finishedAt"`
}
