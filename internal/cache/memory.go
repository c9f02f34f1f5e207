package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryProvider implements Provider with an in-process TTL map. The service
// runs as a single instance and sweep responses are cheap to rebuild, so
// process-local storage is enough.
type MemoryProvider struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	maxEntries int
	now        func() time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// expired reports whether the entry's TTL has lapsed. A zero expiry never
// expires.
func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// NewMemoryProvider creates an in-memory cache bounded to maxEntries, with
// 256 as the default bound.
func NewMemoryProvider(maxEntries int) *MemoryProvider {
	if maxEntries <= 0 {
		maxEntries = 256
	}
	return &MemoryProvider{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get fetches bytes by key, returning ErrCacheMiss when the key is absent or
// its TTL has lapsed. Expired entries are removed on access.
func (p *MemoryProvider) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if entry.expired(p.now()) {
		delete(p.entries, key)
		return nil, ErrCacheMiss
	}

	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, nil
}

// Set stores bytes under key. A positive ttl bounds the entry's lifetime;
// zero or negative keeps it until evicted. When the cache is full, the entry
// closest to expiry makes room.
func (p *MemoryProvider) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	p.purgeExpired(now)
	if _, ok := p.entries[key]; !ok && len(p.entries) >= p.maxEntries {
		p.evictSoonest()
	}

	entry := memoryEntry{value: make([]byte, len(value))}
	copy(entry.value, value)
	if ttl > 0 {
		entry.expiresAt = now.Add(ttl)
	}
	p.entries[key] = entry
	return nil
}

// Del removes a key from the cache.
func (p *MemoryProvider) Del(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.entries, key)
	return nil
}

// Close drops all entries. The provider stays usable as an empty cache.
func (p *MemoryProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = make(map[string]memoryEntry)
	return nil
}

// purgeExpired removes lapsed entries. Callers must hold the lock.
func (p *MemoryProvider) purgeExpired(now time.Time) {
	for key, entry := range p.entries {
		if entry.expired(now) {
			delete(p.entries, key)
		}
	}
}

// evictSoonest removes the entry nearest to expiry, treating entries without
// a TTL as the farthest. Callers must hold the lock.
func (p *MemoryProvider) evictSoonest() {
	var victim string
	var victimExpiry time.Time
	first := true
	for key, entry := range p.entries {
		if first {
			victim, victimExpiry = key, entry.expiresAt
			first = false
			continue
		}
		if victimExpiry.IsZero() {
			if !entry.expiresAt.IsZero() {
				victim, victimExpiry = key, entry.expiresAt
			}
			continue
		}
		if !entry.expiresAt.IsZero() && entry.expiresAt.Before(victimExpiry) {
			victim, victimExpiry = key, entry.expiresAt
		}
	}
	if !first {
		delete(p.entries, victim)
	}
}
