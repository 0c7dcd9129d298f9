package view

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_portal/internal/catalog"
)

// ErrSuperseded is returned by Refresh when a newer refresh of the same view
// started before this one finished. Its result was discarded.
var ErrSuperseded = errors.New("SUPERSEDED")

const priceListView = "price-list"

// CatalogLoader loads grouped catalogs; *catalog.Fetcher implements it.
type CatalogLoader interface {
	Load(ctx context.Context, auth catalog.TokenSource, kind catalog.Kind, filters map[string]string) ([]catalog.ProviderGroup, error)
}

// State is a snapshot of a price-list view.
type State struct {
	Loading    bool                    `json:"loading"`
	Kind       catalog.Kind            `json:"kind,omitempty"`
	Pending    catalog.Kind            `json:"pendingKind,omitempty"`
	Groups     []catalog.ProviderGroup `json:"providers"`
	Err        error                   `json:"-"`
	Generation uint64                  `json:"generation"`
	UpdatedAt  time.Time               `json:"updatedAt"`
}

// CatalogView holds the price-list page state of one session. Results are
// applied in request order: a response that arrives after a newer request
// was issued is dropped.
type CatalogView struct {
	loader  CatalogLoader
	tracker *Tracker

	mu    sync.RWMutex
	state State
	now   func() time.Time
}

// NewCatalogView constructs an empty view.
func NewCatalogView(loader CatalogLoader) *CatalogView {
	return &CatalogView{
		loader:  loader,
		tracker: NewTracker(),
		state:   State{Groups: []catalog.ProviderGroup{}},
		now:     time.Now,
	}
}

// Refresh loads kind and applies it to the view if no newer refresh has
// started meanwhile. It returns the resulting snapshot, or ErrSuperseded.
// Kind and Groups always describe the same load; the kind being fetched is
// reported as Pending. A refresh whose caller went away leaves the previous
// result in place.
func (v *CatalogView) Refresh(ctx context.Context, auth catalog.TokenSource, kind catalog.Kind, filters map[string]string) (State, error) {
	reqCtx, ticket := v.tracker.Begin(ctx, priceListView)
	defer ticket.Done()

	v.mu.Lock()
	v.state.Loading = true
	v.state.Pending = kind
	v.mu.Unlock()

	groups, err := v.loader.Load(reqCtx, auth, kind, filters)

	v.mu.Lock()
	defer v.mu.Unlock()

	if !ticket.Current() {
		log.Debug().Uint64("generation", ticket.Generation()).Str("kind", string(kind)).Msg("discarding stale catalog response")
		return v.state, ErrSuperseded
	}

	v.state.Loading = false
	v.state.Pending = ""
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		log.Debug().Uint64("generation", ticket.Generation()).Str("kind", string(kind)).Msg("catalog refresh cancelled by caller")
		return v.state, err
	}

	v.state.Kind = kind
	v.state.Generation = ticket.Generation()
	v.state.UpdatedAt = v.now()
	v.state.Err = err
	if err != nil {
		v.state.Groups = []catalog.ProviderGroup{}
	} else {
		v.state.Groups = groups
	}
	return v.state, err
}

// Snapshot returns the current state.
func (v *CatalogView) Snapshot() State {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}
