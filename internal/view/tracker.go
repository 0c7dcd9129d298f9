package view

import (
	"context"
	"sync"
)

// Tracker hands out per-view generation tickets. Beginning a new ticket for a
// view makes every older ticket for that view stale and cancels its context.
type Tracker struct {
	mu      sync.Mutex
	gens    map[string]uint64
	cancels map[string]context.CancelFunc
}

// NewTracker constructs an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		gens:    make(map[string]uint64),
		cancels: make(map[string]context.CancelFunc),
	}
}

// Ticket identifies one request issued for a view.
type Ticket struct {
	tracker *Tracker
	view    string
	gen     uint64
}

// Begin starts a new request for view. The returned context is derived from
// parent and is cancelled when a newer request for the same view begins.
func (t *Tracker) Begin(parent context.Context, view string) (context.Context, Ticket) {
	ctx, cancel := context.WithCancel(parent)

	t.mu.Lock()
	if prev, ok := t.cancels[view]; ok {
		prev()
	}
	t.gens[view]++
	gen := t.gens[view]
	t.cancels[view] = cancel
	t.mu.Unlock()

	return ctx, Ticket{tracker: t, view: view, gen: gen}
}

// Current reports whether no newer request has begun for the ticket's view.
func (tk Ticket) Current() bool {
	tk.tracker.mu.Lock()
	defer tk.tracker.mu.Unlock()
	return tk.tracker.gens[tk.view] == tk.gen
}

// Generation returns the ticket's sequence number within its view.
func (tk Ticket) Generation() uint64 {
	return tk.gen
}

// Done releases the ticket's context. It is a no-op for stale tickets, whose
// context was already cancelled by the newer request.
func (tk Ticket) Done() {
	tk.tracker.mu.Lock()
	defer tk.tracker.mu.Unlock()
	if tk.tracker.gens[tk.view] != tk.gen {
		return
	}
	if cancel, ok := tk.tracker.cancels[tk.view]; ok {
		cancel()
		delete(tk.tracker.cancels, tk.view)
	}
}
