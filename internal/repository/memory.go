package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryStateRepository is the in-process fallback for chat flow control.
type MemoryStateRepository struct {
	rateLimits sync.Map
	mu         sync.Mutex
}

func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{}
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

// CheckRateLimit counts messages per token within a fixed window.
func (r *MemoryStateRepository) CheckRateLimit(ctx context.Context, token string, limit int, window time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	val, ok := r.rateLimits.Load(token)

	var entry *rateLimitEntry
	if !ok {
		entry = &rateLimitEntry{
			count:     1,
			expiresAt: now.Add(window),
		}
	} else {
		entry = val.(*rateLimitEntry)
		if now.After(entry.expiresAt) {
			entry.count = 1
			entry.expiresAt = now.Add(window)
		} else {
			entry.count++
		}
	}

	r.rateLimits.Store(token, entry)
	return entry.count <= limit, nil
}
