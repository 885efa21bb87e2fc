package middleware

import (
	"net/http"
	"sync"
	"time"

	"jumboscan/internal/apierror"

	"github.com/gin-gonic/gin"
)

// rateEntry tracks request counts per IP within a fixed window.
type rateEntry struct {
	count     int
	windowEnd time.Time
}

// rateStore is owned by one limiter; expired entries are swept lazily on
// access, at most once per window.
type rateStore struct {
	mu        sync.Mutex
	entries   map[string]*rateEntry
	nextSweep time.Time
	now       func() time.Time
}

func newRateStore() *rateStore {
	return &rateStore{entries: make(map[string]*rateEntry), now: time.Now}
}

// hit counts one request for ip and reports whether it is within limit.
func (s *rateStore) hit(ip string, limit int, window time.Duration) (bool, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.After(s.nextSweep) {
		for k, e := range s.entries {
			if now.After(e.windowEnd) {
				delete(s.entries, k)
			}
		}
		s.nextSweep = now.Add(window)
	}

	e, ok := s.entries[ip]
	if !ok || now.After(e.windowEnd) {
		e = &rateEntry{windowEnd: now.Add(window)}
		s.entries[ip] = e
	}
	e.count++
	return e.count <= limit, e.windowEnd
}

func rateLimit(store *rateStore, limit int, window time.Duration, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, windowEnd := store.hit(c.ClientIP(), limit, window)
		if !ok {
			c.Header("Retry-After", windowEnd.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limits login and register attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return rateLimit(newRateStore(), 20, time.Minute, "Demasiados intentos. Intente en 1 minuto.")
}

// RateLimiter is a general-purpose limiter of limit requests per window per IP.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return rateLimit(newRateStore(), limit, window, "Demasiadas solicitudes. Intente nuevamente en un momento.")
}
