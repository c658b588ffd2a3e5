package server

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// Login throttling: a small fixed window per client IP is enough to blunt
// password guessing against the single operator account.
const (
	maxLoginAttempts = 10
	loginWindow      = time.Minute
)

type loginLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
}

func newLoginLimiter(max int, window time.Duration) *loginLimiter {
	return &loginLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
	}
}

// allow records an attempt for the client and reports whether it is within
// the window's budget.
func (l *loginLimiter) allow(clientID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-l.window)

	kept := l.attempts[clientID][:0]
	for _, t := range l.attempts[clientID] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.max {
		l.attempts[clientID] = kept
		return false
	}

	l.attempts[clientID] = append(kept, now)
	return true
}

// clientID extracts the client identifier from the request. Uses the IP from
// RemoteAddr; X-Forwarded-For is deliberately ignored because the control
// server is not expected to sit behind a trusted proxy.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
