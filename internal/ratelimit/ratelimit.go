package ratelimit

import (
	"sync"
	"time"

	"github.com/deusflow/newswatch/internal/logger"
	"golang.org/x/time/rate"
)

// Budget limits AI requests with a daily cap and an optional per-minute
// pace. Zero values for either limit mean unlimited.
type Budget struct {
	mu        sync.Mutex
	used      int
	maxDaily  int
	pace      *rate.Limiter
	resetTime time.Time
	now       func() time.Time
}

// NewBudget creates a budget allowing maxDaily calls per 24h window and
// perMinute calls per minute.
func NewBudget(maxDaily, perMinute int) *Budget {
	b := &Budget{
		maxDaily: maxDaily,
		now:      time.Now,
	}
	if perMinute > 0 {
		b.pace = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	}
	b.resetTime = b.now().Add(24 * time.Hour)
	return b
}

// Allow consumes one request if both limits permit it. Callers never wait;
// a refused call falls back to local analysis.
func (b *Budget) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.checkReset()

	if b.maxDaily > 0 && b.used >= b.maxDaily {
		logger.Warn("AI daily budget reached", "used", b.used, "limit", b.maxDaily)
		return false
	}
	if b.pace != nil && !b.pace.AllowN(b.now(), 1) {
		logger.Warn("AI request pace exceeded")
		return false
	}

	b.used++
	logger.Debug("AI usage", "used", b.used, "limit", b.maxDaily)
	return true
}

// Used returns the number of calls admitted in the current window.
func (b *Budget) Used() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.checkReset()
	return b.used
}

func (b *Budget) GetStats() map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()

	return map[string]interface{}{
		"ai_used":    b.used,
		"ai_limit":   b.maxDaily,
		"reset_time": b.resetTime,
	}
}

// checkReset resets the daily counter once the window has passed.
func (b *Budget) checkReset() {
	if b.now().After(b.resetTime) {
		logger.Info("Resetting AI budget", "used", b.used, "limit", b.maxDaily)
		b.used = 0
		b.resetTime = b.now().Add(24 * time.Hour)
	}
}
