// Package ratelimit implements fixed-window request counting per client key.
//
// A window opens on the first hit for a key and lasts Window. Every request inside
// the window is counted once; after Max hits the rest of the window is rejected.
// Rejected requests stop increasing the counter past Max+1, so a client hammering
// the endpoint does not push its own reset time or counter further out.
package ratelimit

import (
	"context"
	"math"
	"time"
)

// Store keeps per-key window counters. Increment records one hit and returns the
// hit count of the current window and the moment it closes. Counts above limit+1
// are not recorded.
type Store interface {
	Increment(ctx context.Context, key string, window time.Duration, limit int) (int, time.Time, error)
}

type Rule struct {
	Window time.Duration `mapstructure:"window"`
	Max    int           `mapstructure:"max"`
}

const (
	Registration = "registration"
	Verification = "verification"
	General      = "general"
)

// DefaultRules are strict for registration, moderate for verification and lenient for reads.
func DefaultRules() map[string]Rule {
	return map[string]Rule{
		Registration: {Window: 15 * time.Minute, Max: 5},
		Verification: {Window: 5 * time.Minute, Max: 10},
		General:      {Window: time.Minute, Max: 30},
	}
}

type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is the whole number of seconds until the window resets, at least 1.
func (r Result) RetryAfter(now time.Time) int {
	secs := int(math.Ceil(r.ResetAt.Sub(now).Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

type Limiter struct {
	Name  string
	Rule  Rule
	store Store
	now   func() time.Time
}

func New(name string, rule Rule, store Store) *Limiter {
	return &Limiter{
		Name:  name,
		Rule:  rule,
		store: store,
		now:   time.Now,
	}
}

// WithClock replaces the clock used for retry hints.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

func (l *Limiter) Now() time.Time {
	return l.now()
}

// Allow counts one request for key.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	count, resetAt, err := l.store.Increment(ctx, l.Name+":"+key, l.Rule.Window, l.Rule.Max)
	if err != nil {
		return Result{}, err
	}

	remaining := l.Rule.Max - count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   count <= l.Rule.Max,
		Limit:     l.Rule.Max,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}
