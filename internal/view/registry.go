package view

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type registryEntry struct {
	view     *CatalogView
	lastUsed time.Time
}

// Registry keeps one CatalogView per session and evicts idle ones.
type Registry struct {
	loader  CatalogLoader
	idleTTL time.Duration

	mu    sync.Mutex
	views map[string]*registryEntry
	now   func() time.Time
}

// NewRegistry constructs a Registry.
func NewRegistry(loader CatalogLoader, idleTTL time.Duration) *Registry {
	return &Registry{
		loader:  loader,
		idleTTL: idleTTL,
		views:   make(map[string]*registryEntry),
		now:     time.Now,
	}
}

// Get returns the session's view, creating it on first use.
func (r *Registry) Get(sessionID string) *CatalogView {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.views[sessionID]
	if !ok {
		e = &registryEntry{view: NewCatalogView(r.loader)}
		r.views[sessionID] = e
	}
	e.lastUsed = r.now()
	return e.view
}

// Drop forgets the session's view.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	delete(r.views, sessionID)
	r.mu.Unlock()
}

// Len returns the number of tracked views.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// EvictIdle removes views unused for longer than the idle TTL.
func (r *Registry) EvictIdle() int {
	if r.idleTTL <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.idleTTL)
	n := 0
	for id, e := range r.views {
		if e.lastUsed.Before(cutoff) {
			delete(r.views, id)
			n++
		}
	}
	return n
}

// Start evicts idle views every interval until ctx is done.
func (r *Registry) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := r.EvictIdle(); n > 0 {
				log.Debug().Int("evicted", n).Msg("evicted idle catalog views")
			}
		case <-ctx.Done():
			return
		}
	}
}
