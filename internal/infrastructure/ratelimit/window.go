// Package ratelimit provides the rolling-window limiter that paces catalog requests.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultWindow is the rolling window the catalog API budgets requests over.
const DefaultWindow = time.Minute

// WindowLimiter admits at most limit requests per trailing window.
//
// Admission is a critical section: the mutex is held while a caller waits, so
// concurrent callers queue behind it instead of racing for the freed slot.
//
// When resetAfterWait is true (the default) the window is treated as empty
// after any wait. This admits a fresh burst of limit requests once the oldest
// stamp expires, which can exceed the budget inside a strict trailing window.
// With resetAfterWait false the limiter only drops stamps that actually left
// the window.
type WindowLimiter struct {
	limit          int
	window         time.Duration
	resetAfterWait bool
	timestamps     []time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	logger *zap.Logger

	mu        sync.Mutex
	waits     int
	totalWait time.Duration
}

// Option configures a WindowLimiter
type Option func(*WindowLimiter)

// WithWindow overrides the rolling window length
func WithWindow(d time.Duration) Option {
	return func(l *WindowLimiter) {
		if d > 0 {
			l.window = d
		}
	}
}

// WithResetAfterWait selects between clearing the window after a wait (true)
// and recomputing it exactly (false).
func WithResetAfterWait(reset bool) Option {
	return func(l *WindowLimiter) { l.resetAfterWait = reset }
}

// WithClock replaces the time source and sleep function, for tests.
func WithClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(l *WindowLimiter) {
		l.now = now
		l.sleep = sleep
	}
}

// WithLogger sets the logger used to report waits
func WithLogger(logger *zap.Logger) Option {
	return func(l *WindowLimiter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewWindowLimiter creates a limiter with the given request budget per window.
// A limit of 0 or less disables limiting.
func NewWindowLimiter(limit int, opts ...Option) *WindowLimiter {
	l := &WindowLimiter{
		limit:          limit,
		window:         DefaultWindow,
		resetAfterWait: true,
		now:            time.Now,
		sleep:          Sleep,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if limit > 0 {
		l.timestamps = make([]time.Time, 0, limit+1)
	}
	return l
}

// Admit blocks until the request fits the window, then records it.
// It only fails when ctx is cancelled during a wait.
func (l *WindowLimiter) Admit(ctx context.Context) error {
	if l.limit <= 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evict(now)

	if len(l.timestamps) >= l.limit {
		wait := l.timestamps[0].Add(l.window).Sub(now)
		if wait > 0 {
			l.logger.Info("rate limit reached, waiting",
				zap.Int("limit", l.limit),
				zap.Duration("window", l.window),
				zap.Duration("wait", wait),
			)
			if err := l.sleep(ctx, wait); err != nil {
				return err
			}
			l.waits++
			l.totalWait += wait
			now = l.now()
		}

		if l.resetAfterWait {
			l.timestamps = l.timestamps[:0]
		} else {
			l.evict(now)
		}
	}

	l.timestamps = append(l.timestamps, now)
	return nil
}

// evict drops stamps that are no longer inside the window ending at now
func (l *WindowLimiter) evict(now time.Time) {
	windowStart := now.Add(-l.window)

	validIdx := 0
	for _, ts := range l.timestamps {
		if ts.After(windowStart) {
			break
		}
		validIdx++
	}
	if validIdx > 0 {
		l.timestamps = append(l.timestamps[:0], l.timestamps[validIdx:]...)
	}
}

// Len returns the number of stamps currently held
func (l *WindowLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timestamps)
}

// Stats returns how often and how long callers waited
func (l *WindowLimiter) Stats() (waits int, total time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.waits, l.totalWait
}

// Sleep waits for d or until ctx is done
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
