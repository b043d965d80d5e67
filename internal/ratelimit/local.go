package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	idleTTL      = 10 * time.Minute
	sweepEvery   = 1024
	defaultBurst = 1
	// minRPM is the slowest refill; a zero rate would lock a client out
	// for good once its burst is spent
	minRPM = 1
)

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalLimiter keeps one token bucket per client in process memory
type LocalLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	rpm     int
	buckets map[string]*clientBucket
	calls   int
	now     func() time.Time
}

// NewLocalLimiter refills rpm tokens per minute up to burst
func NewLocalLimiter(rpm, burst int) *LocalLimiter {
	if rpm < minRPM {
		rpm = minRPM
	}
	if burst < 1 {
		burst = defaultBurst
	}
	return &LocalLimiter{
		limit:   rate.Limit(float64(rpm) / 60),
		burst:   burst,
		rpm:     rpm,
		buckets: make(map[string]*clientBucket),
		now:     time.Now,
	}
}

// Allow takes one token from the client's bucket
func (l *LocalLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	l.calls++
	if l.calls%sweepEvery == 0 {
		l.sweep(now)
	}

	d := Decision{Limit: l.rpm}
	if b.limiter.AllowN(now, 1) {
		d.Allowed = true
		d.Remaining = int(math.Floor(b.limiter.TokensAt(now)))
		return d, nil
	}

	d.RetryAfter = time.Second
	if l.limit > 0 {
		missing := 1 - b.limiter.TokensAt(now)
		d.RetryAfter = time.Duration(math.Ceil(missing / float64(l.limit) * float64(time.Second)))
	}
	return d, nil
}

// sweep drops buckets idle long enough to have refilled completely
func (l *LocalLimiter) sweep(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > idleTTL {
			delete(l.buckets, key)
		}
	}
}
