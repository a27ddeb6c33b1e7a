package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"

	"KANBAN_CRM_BACK-END/internal/logging"
	"KANBAN_CRM_BACK-END/internal/ratelimit"
	"KANBAN_CRM_BACK-END/internal/utils"
)

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (*ratelimit.Result, error)
}

// RateLimit rejects requests with 429 once the client IP exceeds the limit
// for the route. Limiter failures let the request through.
func RateLimit(limiter Limiter, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r) + ":" + r.URL.Path

			res, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warn(r.Context(), "rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

			if !res.Allowed {
				secs := int(res.RetryAfter.Seconds())
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				utils.WriteErrorResponse(w, http.StatusTooManyRequests, "Too many requests", "Rate limit exceeded, try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
