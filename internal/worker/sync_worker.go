package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_portal/internal/catalog"
	"github.com/GTDGit/gtd_portal/internal/service"
)

// SyncWorker periodically asks the backend to sync the prepaid price list
// from Digiflazz, using the portal's service token.
type SyncWorker struct {
	syncService *service.SyncService
	token       catalog.TokenSource
	interval    time.Duration
}

// NewSyncWorker constructs a SyncWorker.
func NewSyncWorker(syncService *service.SyncService, token catalog.TokenSource, interval time.Duration) *SyncWorker {
	return &SyncWorker{
		syncService: syncService,
		token:       token,
		interval:    interval,
	}
}

// Start begins the periodic sync loop and listens for context cancellation.
func (w *SyncWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting sync worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Sync worker stopped")
			return
		}
	}
}

func (w *SyncWorker) run(ctx context.Context) {
	log.Info().Msg("Requesting prepaid price-list sync...")

	run, err := w.syncService.SyncPrepaid(ctx, w.token, service.TriggerWorker)
	if err != nil {
		// SyncService already logged the failure details.
		return
	}
	log.Info().Str("run_id", run.ID).Int("synced", run.SyncedCount).Msg("Scheduled sync finished")
}

// StaticToken is a TokenSource for a fixed service credential.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, bool) {
	return string(t), t != ""
}
