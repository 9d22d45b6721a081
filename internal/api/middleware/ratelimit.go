package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/response"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/logger"
)

// RateLimiter hands out one token bucket per principal. Idle buckets expire
// from the cache so the map does not grow without bound.
type RateLimiter struct {
	limiters *cache.Cache
	limit    rate.Limit
	burst    int
	log      *logger.Logger
}

// NewRateLimiter allows rps sustained requests per principal with the given burst.
func NewRateLimiter(rps float64, burst int, log *logger.Logger) *RateLimiter {
	return &RateLimiter{
		limiters: cache.New(10*time.Minute, 20*time.Minute),
		limit:    rate.Limit(rps),
		burst:    burst,
		log:      log,
	}
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	if v, ok := rl.limiters.Get(key); ok {
		rl.limiters.SetDefault(key, v)
		return v.(*rate.Limiter)
	}
	l := rate.NewLimiter(rl.limit, rl.burst)
	// Add fails if another request created the bucket first; use theirs.
	if err := rl.limiters.Add(key, l, cache.DefaultExpiration); err != nil {
		if v, ok := rl.limiters.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}
	return l
}

// Middleware responds 429 once the caller's bucket is empty. Requests are keyed
// by principal when authenticated, otherwise by remote IP.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := Principal(r.Context())
		if key == "" {
			key = "ip:" + remoteIP(r)
		}

		if !rl.limiterFor(key).Allow() {
			rl.log.Warn("rate limit exceeded", "principal", key, "path", r.URL.Path)
			response.RespondError(w, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests), "")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
