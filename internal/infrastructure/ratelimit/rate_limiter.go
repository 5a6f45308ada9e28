package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Actions with their own budgets. Anything else gets the default.
const (
	ActionToggle  = "toggle"
	ActionComment = "comment"
	ActionMessage = "send_message"
	ActionCreate  = "create"
	ActionAuth    = "auth"
	ActionRequest = "request"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per key and action.
type RateLimiter struct {
	buckets map[string]*bucket
	mutex   sync.Mutex
	now     func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func newLimiter(action string) *rate.Limiter {
	switch action {
	case ActionToggle:
		// toggles are coalesced downstream, this only stops floods
		return rate.NewLimiter(rate.Every(100*time.Millisecond), 30)
	case ActionComment:
		return rate.NewLimiter(rate.Every(6*time.Second), 10)
	case ActionMessage:
		return rate.NewLimiter(rate.Every(time.Second), 20)
	case ActionCreate:
		return rate.NewLimiter(rate.Every(12*time.Second), 5)
	case ActionAuth:
		return rate.NewLimiter(rate.Every(12*time.Second), 5)
	case ActionRequest:
		return rate.NewLimiter(rate.Every(time.Second), 60)
	}
	return rate.NewLimiter(rate.Every(3*time.Second), 20)
}

// Allow consumes a token for key/action. When denied it returns how long
// until the next token.
func (rl *RateLimiter) Allow(key, action string) (bool, time.Duration) {
	id := key + ":" + action
	now := rl.now()

	rl.mutex.Lock()
	b, exists := rl.buckets[id]
	if !exists {
		b = &bucket{limiter: newLimiter(action)}
		rl.buckets[id] = b
	}
	b.lastSeen = now
	rl.mutex.Unlock()

	r := b.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Second
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Cleanup removes buckets idle for longer than maxIdle.
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) > maxIdle {
			delete(rl.buckets, key)
		}
	}
}

func (rl *RateLimiter) Len() int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	return len(rl.buckets)
}

// StartCleanupRoutine prunes idle buckets every 30 minutes until stop is closed.
func (rl *RateLimiter) StartCleanupRoutine(stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.Cleanup(time.Hour)
			case <-stop:
				return
			}
		}
	}()
}
