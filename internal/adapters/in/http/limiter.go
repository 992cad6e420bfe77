package http

import (
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	visitorIdleTimeout = 3 * time.Minute
	sweepInterval      = time.Minute
)

// visitor holds the rate limiter and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterStore is a token bucket per caller. It satisfies echo's
// middleware.RateLimiterStore. Idle callers are swept lazily.
type RateLimiterStore struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiterStore allows rps requests per second with bursts of burst per
// identifier. A burst below one becomes rps rounded to the nearest integer.
func NewRateLimiterStore(rps float64, burst int) *RateLimiterStore {
	if burst < 1 {
		burst = max(1, int(rps+0.5))
	}
	return &RateLimiterStore{
		visitors:  make(map[string]*visitor),
		limit:     rate.Limit(rps),
		burst:     burst,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (s *RateLimiterStore) Allow(identifier string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	v, ok := s.visitors[identifier]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.visitors[identifier] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1), nil
}

func (s *RateLimiterStore) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < sweepInterval {
		return
	}
	for key, v := range s.visitors {
		if now.Sub(v.lastSeen) > visitorIdleTimeout {
			delete(s.visitors, key)
		}
	}
	s.lastSweep = now
}

// rateLimitIdentity keys authenticated callers by actor and the rest by IP.
func rateLimitIdentity(c echo.Context) (string, error) {
	if actor := actorOf(c); actor.ID.Validate() == nil {
		return "actor:" + actor.ID.String(), nil
	}
	return "ip:" + c.RealIP(), nil
}
