package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"
)

const (
	loginMaxAttempts    = 5
	loginWindowDuration = time.Minute
	loginCleanupPeriod  = 5 * time.Minute
)

// AttemptLimiter bounds credential-guessing attempts per client. The
// in-memory implementation below is the default; a Redis-backed one is used
// when the deployment runs more than one instance.
type AttemptLimiter interface {
	Allow(ctx context.Context, key string) bool
}

type loginAttempt struct {
	count       int
	windowStart time.Time
}

type LoginRateLimiter struct {
	mu          sync.Mutex
	attempts    map[string]*loginAttempt
	lastCleanup time.Time
}

func NewLoginRateLimiter() *LoginRateLimiter {
	return &LoginRateLimiter{
		attempts:    make(map[string]*loginAttempt),
		lastCleanup: time.Now(),
	}
}

func (l *LoginRateLimiter) cleanup() {
	now := time.Now()
	if now.Sub(l.lastCleanup) < loginCleanupPeriod {
		return
	}
	l.lastCleanup = now

	for key, attempt := range l.attempts {
		if now.Sub(attempt.windowStart) > loginWindowDuration {
			delete(l.attempts, key)
		}
	}
}

func (l *LoginRateLimiter) Allow(_ context.Context, key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cleanup()

	now := time.Now()
	attempt, exists := l.attempts[key]

	if !exists {
		l.attempts[key] = &loginAttempt{
			count:       1,
			windowStart: now,
		}
		return true
	}

	if now.Sub(attempt.windowStart) > loginWindowDuration {
		attempt.count = 1
		attempt.windowStart = now
		return true
	}

	if attempt.count >= loginMaxAttempts {
		return false
	}

	attempt.count++
	return true
}

type LoginLimitMiddleware struct {
	limiter  AttemptLimiter
	renderer ErrorRenderer
}

func NewLoginLimitMiddleware(limiter AttemptLimiter, renderer ErrorRenderer) *LoginLimitMiddleware {
	return &LoginLimitMiddleware{limiter: limiter, renderer: renderer}
}

func (m *LoginLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			ip = forwarded
		}

		if !m.limiter.Allow(r.Context(), ip) {
			w.Header().Set("Retry-After", "60")
			m.renderer.RenderError(w, http.StatusTooManyRequests,
				"Too many attempts. Please try again later.", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}
