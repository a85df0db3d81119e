package ratelimit

import (
	"net"
	"net/http"
	"sync"
	"time"

	httperrors "github.com/manorfm/casting-agency/internal/interfaces/http/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const cleanupInterval = time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a token bucket per client IP
type RateLimiter struct {
	visitors map[string]*clientLimiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	ttl      time.Duration
	logger   *zap.Logger
	stop     chan struct{}
	stopOnce sync.Once
}

func NewRateLimiter(r rate.Limit, b int, ttl time.Duration, logger *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*clientLimiter),
		rate:     r,
		burst:    b,
		ttl:      ttl,
		logger:   logger,
		stop:     make(chan struct{}),
	}
	go rl.cleanupVisitors(cleanupInterval)
	return rl
}

// Stop ends the background cleanup of idle visitors
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) getVisitor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, exists := rl.visitors[ip]; exists {
		v.lastSeen = time.Now()
		return v.limiter
	}

	limiter := rate.NewLimiter(rl.rate, rl.burst)
	rl.visitors[ip] = &clientLimiter{limiter, time.Now()}
	return limiter
}

func (rl *RateLimiter) cleanupVisitors(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.evictIdle(time.Now())
		}
	}
}

func (rl *RateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.ttl {
			delete(rl.visitors, ip)
		}
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if ip == "" {
			rl.logger.Warn("Unable to determine client address")
			httperrors.RespondWithStatus(w, http.StatusBadRequest, httperrors.MessageBadRequest)
			return
		}

		if !rl.getVisitor(ip).Allow() {
			rl.logger.Debug("Rate limit exceeded", zap.String("ip", ip))
			httperrors.RespondWithStatus(w, http.StatusTooManyRequests, httperrors.MessageRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}
