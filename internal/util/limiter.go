package util

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HostLimiter throttles outbound requests twice: all requests share one
// bucket, and each hostname (boards.greenhouse.io, jobs.lever.co) gets its
// own bucket on top of that.
type HostLimiter struct {
	mu  sync.Mutex
	m   map[string]*rate.Limiter
	r   rate.Limit
	b   int
	all *rate.Limiter
}

// NewDelayLimiter allows one request per delay across all hosts after the
// burst, and never two requests to the same host closer than delay.
// A zero delay disables throttling.
func NewDelayLimiter(delay time.Duration, burst int) *HostLimiter {
	if burst < 1 {
		burst = 1
	}
	lim := rate.Inf
	if delay > 0 {
		lim = rate.Every(delay)
	}
	return &HostLimiter{
		m:   make(map[string]*rate.Limiter),
		r:   lim,
		b:   1,
		all: rate.NewLimiter(lim, burst),
	}
}

func (hl *HostLimiter) limiterFor(host string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	if lim, ok := hl.m[host]; ok {
		return lim
	}
	lim := rate.NewLimiter(hl.r, hl.b)
	hl.m[host] = lim
	return lim
}

func (hl *HostLimiter) WaitURL(ctx context.Context, raw string) error {
	host := "_"
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		host = u.Host
	}
	if err := hl.limiterFor(host).Wait(ctx); err != nil {
		return err
	}
	return hl.all.Wait(ctx)
}
