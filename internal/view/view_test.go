package view

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/gtd_portal/internal/catalog"
)

type token string

func (t token) Token(context.Context) (string, bool) { return string(t), t != "" }

// gatedLoader blocks each prepaid load until its gate is released or its
// context is cancelled; postpaid loads return immediately.
type gatedLoader struct {
	mu        sync.Mutex
	started   chan struct{}
	gate      chan struct{}
	cancelled bool
}

func (l *gatedLoader) Load(ctx context.Context, _ catalog.TokenSource, kind catalog.Kind, _ map[string]string) ([]catalog.ProviderGroup, error) {
	if kind == catalog.KindPostpaid {
		return []catalog.ProviderGroup{{Provider: "PLN", Products: []catalog.Product{{Name: "Tagihan"}}}}, nil
	}
	close(l.started)
	select {
	case <-l.gate:
		return []catalog.ProviderGroup{{Provider: "Telkomsel"}}, nil
	case <-ctx.Done():
		l.mu.Lock()
		l.cancelled = true
		l.mu.Unlock()
		<-l.gate
		return nil, ctx.Err()
	}
}

func TestTracker_Generations(t *testing.T) {
	tr := NewTracker()

	ctx1, t1 := tr.Begin(context.Background(), "v")
	assert.True(t, t1.Current())

	_, t2 := tr.Begin(context.Background(), "v")
	assert.False(t, t1.Current())
	assert.True(t, t2.Current())
	assert.ErrorIs(t, ctx1.Err(), context.Canceled)

	_, other := tr.Begin(context.Background(), "other")
	assert.True(t, other.Current())
	assert.True(t, t2.Current())

	assert.Equal(t, uint64(2), t2.Generation())
	t1.Done()
	assert.True(t, t2.Current())
}

func TestCatalogView_StaleResponseDiscarded(t *testing.T) {
	loader := &gatedLoader{started: make(chan struct{}), gate: make(chan struct{})}
	v := NewCatalogView(loader)

	var staleErr error
	done := make(chan struct{})
	go func() {
		_, staleErr = v.Refresh(context.Background(), token("tok"), catalog.KindPrepaid, nil)
		close(done)
	}()
	<-loader.started

	state, err := v.Refresh(context.Background(), token("tok"), catalog.KindPostpaid, nil)
	require.NoError(t, err)
	assert.Equal(t, catalog.KindPostpaid, state.Kind)

	close(loader.gate)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stale refresh did not return")
	}

	assert.ErrorIs(t, staleErr, ErrSuperseded)
	loader.mu.Lock()
	assert.True(t, loader.cancelled)
	loader.mu.Unlock()

	snap := v.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, catalog.KindPostpaid, snap.Kind)
	require.Len(t, snap.Groups, 1)
	assert.Equal(t, "PLN", snap.Groups[0].Provider)
	assert.Equal(t, uint64(2), snap.Generation)
}

type errLoader struct{ err error }

func (l errLoader) Load(context.Context, catalog.TokenSource, catalog.Kind, map[string]string) ([]catalog.ProviderGroup, error) {
	return nil, l.err
}

func TestCatalogView_ErrorRecorded(t *testing.T) {
	v := NewCatalogView(errLoader{err: catalog.ErrAuthMissing})

	state, err := v.Refresh(context.Background(), token(""), catalog.KindPrepaid, nil)
	assert.ErrorIs(t, err, catalog.ErrAuthMissing)
	assert.True(t, errors.Is(state.Err, catalog.ErrAuthMissing))
	assert.NotNil(t, state.Groups)
	assert.Empty(t, state.Groups)
	assert.False(t, state.Loading)
}

func TestRegistry_PerSessionAndEviction(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewRegistry(errLoader{}, time.Minute)
	r.now = func() time.Time { return now }

	a := r.Get("a")
	assert.Same(t, a, r.Get("a"))
	assert.NotSame(t, a, r.Get("b"))

	now = now.Add(30 * time.Second)
	r.Get("b")
	now = now.Add(45 * time.Second)

	assert.Equal(t, 1, r.EvictIdle())
	assert.Equal(t, 1, r.Len())

	r.Drop("b")
	assert.Equal(t, 0, r.Len())
}

type ctxLoader struct{}

func (ctxLoader) Load(ctx context.Context, _ catalog.TokenSource, kind catalog.Kind, _ map[string]string) ([]catalog.ProviderGroup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []catalog.ProviderGroup{{Provider: string(kind)}}, nil
}

func TestCatalogView_CallerCancelKeepsPreviousResult(t *testing.T) {
	v := NewCatalogView(ctxLoader{})

	_, err := v.Refresh(context.Background(), token("tok"), catalog.KindPrepaid, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	state, err := v.Refresh(ctx, token("tok"), catalog.KindPostpaid, nil)
	assert.ErrorIs(t, err, context.Canceled)

	assert.False(t, state.Loading)
	assert.Empty(t, state.Pending)
	assert.NoError(t, state.Err)
	assert.Equal(t, catalog.KindPrepaid, state.Kind)
	require.Len(t, state.Groups, 1)
	assert.Equal(t, "prepaid", state.Groups[0].Provider)
	assert.Equal(t, uint64(1), state.Generation)
}

func TestCatalogView_KindMatchesGroupsWhileLoading(t *testing.T) {
	loader := &gatedLoader{started: make(chan struct{}), gate: make(chan struct{})}
	v := NewCatalogView(loader)

	_, err := v.Refresh(context.Background(), token("tok"), catalog.KindPostpaid, nil)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		_, _ = v.Refresh(context.Background(), token("tok"), catalog.KindPrepaid, nil)
		close(done)
	}()
	<-loader.started

	snap := v.Snapshot()
	assert.True(t, snap.Loading)
	assert.Equal(t, catalog.KindPostpaid, snap.Kind)
	assert.Equal(t, catalog.KindPrepaid, snap.Pending)
	require.Len(t, snap.Groups, 1)
	assert.Equal(t, "PLN", snap.Groups[0].Provider)

	close(loader.gate)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh did not return")
	}

	snap = v.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, catalog.KindPrepaid, snap.Kind)
	assert.Empty(t, snap.Pending)
	require.Len(t, snap.Groups, 1)
	assert.Equal(t, "Telkomsel", snap.Groups[0].Provider)
}
