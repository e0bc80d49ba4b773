// Package ratelimit throttles API clients with one token bucket per client
// address.
package ratelimit

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Limiter hands every client a bucket of RequestsPerMinute tokens that
// refills continuously at the same rate.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time

	every      rate.Limit
	burst      int
	staleAfter time.Duration

	rejected atomic.Int64
	stop     chan struct{}
	stopOnce sync.Once
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
	// StaleAfter is how long an idle client keeps its bucket.
	StaleAfter time.Duration
}

func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 120,
		CleanupInterval:   5 * time.Minute,
		StaleAfter:        10 * time.Minute,
	}
}

// NewLimiter starts the goroutine that forgets idle clients. Call Stop to
// release it. Non-positive settings fall back to DefaultConfig.
func NewLimiter(cfg Config) *Limiter {
	def := DefaultConfig()
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = def.RequestsPerMinute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = def.CleanupInterval
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = def.StaleAfter
	}

	l := &Limiter{
		buckets:    make(map[string]*bucket),
		now:        time.Now,
		every:      rate.Limit(float64(cfg.RequestsPerMinute) / 60),
		burst:      cfg.RequestsPerMinute,
		staleAfter: cfg.StaleAfter,
		stop:       make(chan struct{}),
	}
	go l.sweepEvery(cfg.CleanupInterval)
	return l
}

func (l *Limiter) bucketFor(client string, now time.Time) *bucket {
	b, ok := l.buckets[client]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.every, l.burst)}
		l.buckets[client] = b
	}
	b.lastSeen = now
	return b
}

// Allow takes one token from the client's bucket.
func (l *Limiter) Allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if l.bucketFor(client, now).lim.AllowN(now, 1) {
		return true
	}
	l.rejected.Add(1)
	return false
}

// RetryAfter is the number of whole seconds until the client's bucket holds
// a token again. Unknown clients can retry at once.
func (l *Limiter) RetryAfter(client string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[client]
	if !ok {
		return 0
	}
	missing := 1 - b.lim.TokensAt(l.now())
	if missing <= 0 {
		return 0
	}
	return int(math.Ceil(missing / float64(l.every)))
}

func (l *Limiter) sweepEvery(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stop:
			return
		}
	}
}

// sweep drops the buckets of clients idle for longer than staleAfter.
func (l *Limiter) sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.staleAfter)
	removed := 0
	for client, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, client)
			removed++
		}
	}
	return removed
}

func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// Metrics is reported by the readiness probe.
type Metrics struct {
	Rejected int64 `json:"rejected"`
	Clients  int   `json:"clients"`
}

func (l *Limiter) GetMetrics() Metrics {
	return Metrics{Rejected: l.rejected.Load(), Clients: l.ActiveClients()}
}

// Middleware rejects requests of clients with an empty bucket, answering
// through onLimit when it is set. Preflight requests are never limited.
func (l *Limiter) Middleware(clientOf func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			client := clientOf(r)
			if l.Allow(client) {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Retry-After", strconv.Itoa(max(l.RetryAfter(client), 1)))
			if onLimit != nil {
				onLimit(w, r)
				return
			}
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		})
	}
}
