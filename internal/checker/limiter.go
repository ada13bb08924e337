package checker

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter paces probes per host.
type Limiter interface {
	Wait(ctx context.Context, host string) error
}

type noLimit struct{}

func (noLimit) Wait(context.Context, string) error { return nil }

// hostLimiter keeps one token bucket per host, created on first use.
type hostLimiter struct {
	mu    sync.Mutex
	limit rate.Limit
	burst int
	hosts map[string]*rate.Limiter
}

// NewLimiter returns a limiter allowing perSecond requests per host.
// A non-positive rate disables limiting.
func NewLimiter(perSecond float64) Limiter {
	if perSecond <= 0 {
		return noLimit{}
	}
	return &hostLimiter{
		limit: rate.Limit(perSecond),
		burst: 1,
		hosts: make(map[string]*rate.Limiter),
	}
}

func (h *hostLimiter) Wait(ctx context.Context, host string) error {
	host = strings.ToLower(host)
	if host == "" {
		return nil
	}

	h.mu.Lock()
	l, ok := h.hosts[host]
	if !ok {
		l = rate.NewLimiter(h.limit, h.burst)
		h.hosts[host] = l
	}
	h.mu.Unlock()

	return l.Wait(ctx)
}
