package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/GTDGit/gtd_portal/internal/service"
	"github.com/GTDGit/gtd_portal/pkg/digiflazz"
)

type countingSyncer struct {
	calls atomic.Int32
	token atomic.Value
}

func (c *countingSyncer) SyncPrepaid(_ context.Context, token string) (*digiflazz.SyncResponse, error) {
	c.calls.Add(1)
	c.token.Store(token)
	return &digiflazz.SyncResponse{Success: true}, nil
}

func TestSyncWorker_RunsOnTickAndStops(t *testing.T) {
	syncer := &countingSyncer{}
	w := NewSyncWorker(service.NewSyncService(syncer, nil), StaticToken("svc-token"), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return syncer.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	assert.Equal(t, "svc-token", syncer.token.Load())
}

func TestStaticToken(t *testing.T) {
	_, ok := StaticToken("").Token(context.Background())
	assert.False(t, ok)
}
