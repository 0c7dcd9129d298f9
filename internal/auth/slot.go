package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/GTDGit/gtd_portal/internal/cache"
)

// Slot is one keyed credential storage location. Get returns "" with a nil
// error when the key is absent.
type Slot interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, token string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// KV is the subset of the Redis wrapper RedisSlot needs.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// RedisSlot is the persistent "remember me" slot. Keys are namespaced as
// auth:remember:<session>.
type RedisSlot struct {
	kv KV
}

// NewRedisSlot constructs a RedisSlot.
func NewRedisSlot(kv KV) *RedisSlot {
	return &RedisSlot{kv: kv}
}

func (s *RedisSlot) key(k string) string {
	return "auth:remember:" + k
}

func (s *RedisSlot) Get(ctx context.Context, key string) (string, error) {
	v, err := s.kv.Get(ctx, s.key(key))
	if errors.Is(err, cache.ErrMiss) {
		return "", nil
	}
	return v, err
}

func (s *RedisSlot) Set(ctx context.Context, key, token string, ttl time.Duration) error {
	return s.kv.Set(ctx, s.key(key), token, ttl)
}

func (s *RedisSlot) Delete(ctx context.Context, key string) error {
	return s.kv.Delete(ctx, s.key(key))
}

type memoryEntry struct {
	token     string
	expiresAt time.Time
}

// MemorySlot is the session-scoped slot. It lives in process memory and is
// lost on restart.
type MemorySlot struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemorySlot constructs an empty MemorySlot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemorySlot) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return "", nil
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return "", nil
	}
	return e.token, nil
}

// Set stores token under key; ttl <= 0 means no expiry.
func (s *MemorySlot) Set(_ context.Context, key, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := memoryEntry{token: token}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = e
	return nil
}

func (s *MemorySlot) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (s *MemorySlot) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep drops expired entries.
func (s *MemorySlot) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.entries {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(s.entries, k)
		}
	}
}

// StartSweeper sweeps expired entries every interval until ctx is done.
func (s *MemorySlot) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-ctx.Done():
			return
		}
	}
}
