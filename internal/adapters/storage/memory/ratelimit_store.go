package memory

import (
	"context"
	"sync"
	"time"

	"couple-pet-care/internal/ports/ratelimit"
)

// RateLimitStore es el contador de ventana fija in-memory. Es process-local:
// no sobrevive reinicios ni se comparte entre instancias (para eso va un
// contador externo detrás del mismo port).
type RateLimitStore struct {
	mu      sync.Mutex
	windows map[string]rlWindow
	now     func() time.Time
}

type rlWindow struct {
	start time.Time
	count int
}

func NewRateLimitStore() *RateLimitStore {
	return &RateLimitStore{
		windows: make(map[string]rlWindow),
		now:     time.Now,
	}
}

var _ ratelimit.Store = (*RateLimitStore)(nil)

func (s *RateLimitStore) Incr(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	w, ok := s.windows[key]
	if !ok || now.Sub(w.start) >= window {
		w = rlWindow{start: now, count: 0}
	}

	w.count++
	s.windows[key] = w

	resetIn := window - now.Sub(w.start)
	return w.count, resetIn, nil
}
