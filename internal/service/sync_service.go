package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_portal/internal/catalog"
	"github.com/GTDGit/gtd_portal/internal/models"
	"github.com/GTDGit/gtd_portal/internal/utils"
	"github.com/GTDGit/gtd_portal/pkg/digiflazz"
)

// Sync triggers.
const (
	TriggerManual = "manual"
	TriggerWorker = "worker"
)

// PrepaidSyncer is the backend call that syncs the prepaid price list.
type PrepaidSyncer interface {
	SyncPrepaid(ctx context.Context, token string) (*digiflazz.SyncResponse, error)
}

// SyncRunStore persists sync history.
type SyncRunStore interface {
	Create(ctx context.Context, run *models.SyncRun) error
	ListRecent(ctx context.Context, limit int) ([]models.SyncRun, error)
}

// SyncService asks the backend to pull the prepaid price list from Digiflazz
// and keeps a history of those requests.
type SyncService struct {
	backend PrepaidSyncer
	runs    SyncRunStore // nil disables history
	now     func() time.Time
}

// NewSyncService constructs a SyncService. runs may be nil.
func NewSyncService(backend PrepaidSyncer, runs SyncRunStore) *SyncService {
	return &SyncService{backend: backend, runs: runs, now: time.Now}
}

// SyncPrepaid performs one sync request. The returned run is populated even
// when the sync fails, so callers can report the attempt.
func (s *SyncService) SyncPrepaid(ctx context.Context, auth catalog.TokenSource, trigger string) (*models.SyncRun, error) {
	token, ok := "", false
	if auth != nil {
		token, ok = auth.Token(ctx)
	}
	if !ok || token == "" {
		return nil, catalog.ErrAuthMissing
	}

	run := &models.SyncRun{
		ID:        uuid.New().String(),
		Trigger:   trigger,
		StartedAt: s.now(),
	}

	resp, err := s.backend.SyncPrepaid(ctx, token)
	run.FinishedAt = s.now()
	if err != nil {
		run.Status = models.SyncRunFailed
		run.ErrorMessage = err.Error()
		log.Error().Err(err).Str("trigger", trigger).Msg("prepaid sync failed")
	} else {
		run.Status = models.SyncRunSuccess
		run.TotalProcessed = resp.TotalProcessed
		run.SyncedCount = resp.SyncedCount
		run.UpdatedCount = resp.UpdatedCount
		run.Message = resp.Message
		log.Info().
			Str("trigger", trigger).
			Int("total_processed", resp.TotalProcessed).
			Int("synced", resp.SyncedCount).
			Int("updated", resp.UpdatedCount).
			Dur("duration", run.FinishedAt.Sub(run.StartedAt)).
			Msg("prepaid sync completed")
	}

	if s.runs != nil {
		// Recording history must not turn a successful sync into a failure.
		if rerr := s.runs.Create(context.WithoutCancel(ctx), run); rerr != nil {
			log.Error().Err(rerr).Str("run_id", run.ID).Msg("failed to record sync run")
		}
	}

	return run, err
}

// History returns the most recent sync runs.
func (s *SyncService) History(ctx context.Context, limit int) ([]models.SyncRun, error) {
	if s.runs == nil {
		return nil, utils.ErrHistoryDisabled
	}
	return s.runs.ListRecent(ctx, limit)
}
