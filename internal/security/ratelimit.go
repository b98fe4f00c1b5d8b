package security

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LimiterStore is the in-process fallback rate limiter, used when redis is
// not configured. One token bucket per client IP, expired buckets collected
// lazily on access.
type LimiterStore struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	r        rate.Limit
	b        int
	ttl      time.Duration
}

type clientLimiter struct {
	lim     *rate.Limiter
	lastHit time.Time
}

func NewLimiterStore(r rate.Limit, burst int, ttl time.Duration) *LimiterStore {
	return &LimiterStore{
		limiters: make(map[string]*clientLimiter),
		r:        r,
		b:        burst,
		ttl:      ttl,
	}
}

func (s *LimiterStore) Allow(ip string) bool {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		ip = "unknown"
	}

	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	// lazy cleanup
	for k, v := range s.limiters {
		if now.Sub(v.lastHit) > s.ttl {
			delete(s.limiters, k)
		}
	}

	cl, ok := s.limiters[ip]
	if !ok {
		cl = &clientLimiter{
			lim:     rate.NewLimiter(s.r, s.b),
			lastHit: now,
		}
		s.limiters[ip] = cl
	}

	cl.lastHit = now
	return cl.lim.Allow()
}
