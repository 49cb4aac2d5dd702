package pacing

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"rym2spotify/internal/application/port/output"
)

var _ output.Pacer = (*Limiter)(nil)

// Limiter lets the first request through immediately and keeps at least
// the configured delay between the end of one request and the start of
// the next.
type Limiter struct {
	limit rate.Limit

	mu      sync.Mutex
	limiter *rate.Limiter
}

func NewLimiter(delay time.Duration) *Limiter {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Limiter{limit: limit, limiter: rate.NewLimiter(limit, 1)}
}

func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	limiter := l.limiter
	l.mu.Unlock()
	return limiter.Wait(ctx)
}

// Done restarts the gap: the bucket is refilled empty as of now, so the
// next token arrives one delay after the request finished.
func (l *Limiter) Done() {
	limiter := rate.NewLimiter(l.limit, 1)
	limiter.AllowN(time.Now(), 1)

	l.mu.Lock()
	l.limiter = limiter
	l.mu.Unlock()
}

// Factory returns a PacerFactory so each job gets its own limiter.
func Factory(delay time.Duration) output.PacerFactory {
	return func() output.Pacer {
		return NewLimiter(delay)
	}
}
