package syncer

import (
	"context"
	"time"

	"github.com/jobsift/jobsift/internal/utils"
)

const (
	defaultMaxCalls  = 20
	defaultWindow    = 60 * time.Second
	defaultCallDelay = 3 * time.Second
)

// RateLimiter enforces a sliding window limit on API calls plus a fixed
// delay between consecutive calls. The clock and wait functions are
// injectable so the limiter can be tested without sleeping.
type RateLimiter struct {
	maxCalls  int
	window    time.Duration
	callDelay time.Duration

	calls []time.Time

	now  func() time.Time
	wait func(ctx context.Context, d time.Duration) error
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		maxCalls:  defaultMaxCalls,
		window:    defaultWindow,
		callDelay: defaultCallDelay,
		now:       time.Now,
		wait:      utils.WaitFor,
	}
}

// Wait blocks until another call is allowed under the window limit, then
// records the call.
func (r *RateLimiter) Wait(ctx context.Context) error {
	now := r.now()

	live := r.calls[:0]
	for _, t := range r.calls {
		if now.Sub(t) < r.window {
			live = append(live, t)
		}
	}
	r.calls = live

	if len(r.calls) >= r.maxCalls {
		oldest := r.calls[0]
		sleepFor := r.window - now.Sub(oldest)
		if err := r.wait(ctx, sleepFor); err != nil {
			return err
		}
		now = r.now()

		live = r.calls[:0]
		for _, t := range r.calls {
			if now.Sub(t) < r.window {
				live = append(live, t)
			}
		}
		r.calls = live
	}

	r.calls = append(r.calls, now)

	return nil
}

// DelayBetween applies the fixed pause between consecutive calls.
func (r *RateLimiter) DelayBetween(ctx context.Context) error {
	return r.wait(ctx, r.callDelay)
}
