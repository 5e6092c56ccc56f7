// Package ratelimit implements the per-client sliding-window request cap.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// AnonymousIdentity is the sentinel for requests whose client cannot be
// identified. It is never rate-limited.
const AnonymousIdentity = "anonymous"

// identityHeaders is the prioritized list of proxy headers inspected for an
// IP-like client token.
var identityHeaders = []string{
	"X-Forwarded-For",
	"X-Real-IP",
	"CF-Connecting-IP",
	"True-Client-IP",
}

// Limiter caps accepted requests per identity within a trailing window.
// It is safe for concurrent use; the read-filter-write sequence runs under
// one mutex so updates are never lost.
type Limiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	hits   map[string][]time.Time

	now func() time.Time // injectable for tests
}

// New creates a Limiter accepting max requests per identity per window.
func New(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:    max,
		window: window,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow records one request for identity and reports whether it is within
// the cap. Entries older than the window are pruned on every call, so a
// stored list only ever holds in-window timestamps. The anonymous sentinel
// is always allowed.
func (l *Limiter) Allow(identity string) bool {
	if identity == AnonymousIdentity || identity == "" {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	recent := l.hits[identity][:0:0]
	for _, t := range l.hits[identity] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.max {
		l.hits[identity] = recent
		return false
	}

	l.hits[identity] = append(recent, now)
	return true
}

// Identity extracts a best-effort client identity from proxy headers,
// taking the first IP-like token found. Requests without one map to the
// anonymous sentinel.
func Identity(r *http.Request) string {
	for _, h := range identityHeaders {
		v := r.Header.Get(h)
		if v == "" {
			continue
		}
		// X-Forwarded-For may hold a comma-separated chain; the first hop
		// is the client.
		for _, part := range strings.Split(v, ",") {
			token := strings.TrimSpace(part)
			if token == "" {
				continue
			}
			if ip := net.ParseIP(strings.Trim(token, "[]")); ip != nil {
				return ip.String()
			}
		}
	}
	return AnonymousIdentity
}
