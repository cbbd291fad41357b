// Package cache stores rendered PDFs so repeat requests skip rendering.
// Failures are logged and reported as misses; a cache never fails a render.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// KeyPrefix namespaces every render key.
const KeyPrefix = "lessonpress:render:"

// Cache stores rendered documents.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	// Purge drops every render entry. Called after new lessons are stored.
	Purge(ctx context.Context)
	Name() string
	Close() error
}

// Key returns the cache key for a rendered document.
func Key(subject, class, mode string) string {
	return KeyPrefix + strings.ToLower(subject) + ":" + class + ":" + mode
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (Nop) Set(context.Context, string, []byte)        {}
func (Nop) Purge(context.Context)                      {}
func (Nop) Name() string                               { return "none" }
func (Nop) Close() error                               { return nil }

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// Memory is an in-process cache with a fixed TTL.
type Memory struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemory creates a Memory cache. A zero ttl keeps entries until purged.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if !e.expires.IsZero() && m.now().After(e.expires) {
		delete(m.entries, key)
		return nil, false
	}
	return e.value, true
}

func (m *Memory) Set(_ context.Context, key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := memoryEntry{value: value}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
	m.entries[key] = e
}

func (m *Memory) Purge(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.entries)
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) Name() string { return "memory" }
func (m *Memory) Close() error { return nil }
