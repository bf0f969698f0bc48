package handlers

import (
	"net"
	"net/http"
	"sync"
	"time"

	apperrors "github.com/yzchen14/GUITest/pkg/errors"
)

// RateLimiter groups the per-route limiters. SubmitLimit is separate from
// DataLimit because every /submit also reaches /api/data from loopback;
// sharing one limiter would count a local submit twice.
type RateLimiter struct {
	DataLimit   *IPRateLimiter
	SubmitLimit *IPRateLimiter
	ViewLimit   *IPRateLimiter
}

func NewRateLimiter(dataPerMinute, viewPerMinute int) *RateLimiter {
	return &RateLimiter{
		DataLimit:   NewIPRateLimiter(dataPerMinute, time.Minute),
		SubmitLimit: NewIPRateLimiter(dataPerMinute, time.Minute),
		ViewLimit:   NewIPRateLimiter(viewPerMinute, time.Minute),
	}
}

// IPRateLimiter allows limit requests per client IP in any sliding window.
type IPRateLimiter struct {
	ips    map[string][]time.Time
	mu     sync.Mutex
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewIPRateLimiter(limit int, window time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		ips:    make(map[string][]time.Time),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow records a request from ip and reports whether it fits the window.
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-l.window)

	requests := l.ips[ip]
	valid := requests[:0]
	for _, req := range requests {
		if req.After(windowStart) {
			valid = append(valid, req)
		}
	}

	if len(valid) >= l.limit {
		l.ips[ip] = valid
		return false
	}
	l.ips[ip] = append(valid, now)
	return true
}

func (l *IPRateLimiter) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientIP(r)) {
			apperrors.HandleError(w, r, apperrors.New(apperrors.ErrRateLimited, "Rate limit exceeded", nil))
			return
		}
		next(w, r)
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
