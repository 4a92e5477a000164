package api

import (
	"net/http"
	"strconv"
	"sync"

	"golang.org/x/time/rate"
)

const (
	headerAPIKey   = "x-api-key"
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"
	roleAdmin      = "admin"
)

// actor is the authenticated caller, taken from gateway-injected headers.
type actor struct {
	UserID  int64
	IsAdmin bool
}

func actorFromRequest(r *http.Request) (actor, bool) {
	raw := r.Header.Get(headerUserID)
	if raw == "" {
		return actor{}, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return actor{}, false
	}
	return actor{UserID: id, IsAdmin: r.Header.Get(headerUserRole) == roleAdmin}, true
}

// requireAPIKey rejects requests without the configured key. A server
// with no key configured accepts everything.
func (s *HTTPServer) requireAPIKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey != "" && r.Header.Get(headerAPIKey) != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid api key")
			return
		}
		next(w, r)
	}
}

// requireUser resolves the acting user or rejects the request.
func (s *HTTPServer) requireUser(next func(http.ResponseWriter, *http.Request, actor)) http.HandlerFunc {
	return s.requireAPIKey(func(w http.ResponseWriter, r *http.Request) {
		a, ok := actorFromRequest(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing or invalid "+headerUserID+" header")
			return
		}
		next(w, r, a)
	})
}

// requireAdmin additionally demands the admin role.
func (s *HTTPServer) requireAdmin(next func(http.ResponseWriter, *http.Request, actor)) http.HandlerFunc {
	return s.requireUser(func(w http.ResponseWriter, r *http.Request, a actor) {
		if !a.IsAdmin {
			writeError(w, http.StatusForbidden, "admin role required")
			return
		}
		next(w, r, a)
	})
}

// userLimiter hands out one token-bucket limiter per user for the
// booking endpoint.
type userLimiter struct {
	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newUserLimiter(perMinute, burst int) *userLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	if burst <= 0 {
		burst = 1
	}
	return &userLimiter{
		limiters: make(map[int64]*rate.Limiter),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
	}
}

func (u *userLimiter) allow(userID int64) bool {
	u.mu.Lock()
	lim, ok := u.limiters[userID]
	if !ok {
		lim = rate.NewLimiter(u.limit, u.burst)
		u.limiters[userID] = lim
	}
	u.mu.Unlock()
	return lim.Allow()
}
