package middleware

import (
	"personal-assistant/pkg/log"
)

type Middleware struct {
	l       log.Logger
	limiter *RateLimiter
}

// New creates the shared gin middlewares. requestsPerMin <= 0 disables rate limiting.
func New(l log.Logger, requestsPerMin int) Middleware {
	return Middleware{
		l:       l,
		limiter: NewRateLimiter(requestsPerMin),
	}
}

// Limiter exposes the per-key limiter to handlers that rate limit on their
// own key, such as the Telegram chat id.
func (mw Middleware) Limiter() *RateLimiter {
	return mw.limiter
}
