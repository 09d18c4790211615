package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter paces page navigations
type Limiter interface {
	// Allow reports whether a navigation may proceed now
	Allow() bool
	// Wait blocks until a navigation is allowed or the context ends
	Wait(ctx context.Context) error
	// Reset clears the limiter state
	Reset()
}

// TokenBucket allows bursts up to capacity, refilling after each period.
// Used to cap board-page navigations per minute so a multi-feed run does
// not hammer the site.
type TokenBucket struct {
	capacity     int
	tokens       int
	refillPeriod time.Duration
	lastRefill   time.Time
	mu           sync.Mutex
}

// NewTokenBucket creates a bucket holding capacity navigations per period
func NewTokenBucket(capacity int, refillPeriod time.Duration) *TokenBucket {
	return &TokenBucket{
		capacity:     capacity,
		tokens:       capacity,
		refillPeriod: refillPeriod,
		lastRefill:   time.Now(),
	}
}

// Allow consumes a token if one is available
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	if time.Since(tb.lastRefill) >= tb.refillPeriod {
		tb.tokens = tb.capacity
		tb.lastRefill = time.Now()
	}

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available or the context is cancelled
func (tb *TokenBucket) Wait(ctx context.Context) error {
	for !tb.Allow() {
		tb.mu.Lock()
		untilRefill := tb.refillPeriod - time.Since(tb.lastRefill)
		tb.mu.Unlock()

		if untilRefill <= 0 {
			untilRefill = 100 * time.Millisecond
		}

		timer := time.NewTimer(untilRefill)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

// Reset refills the bucket to capacity
func (tb *TokenBucket) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.tokens = tb.capacity
	tb.lastRefill = time.Now()
}

// Pacer enforces a minimum gap between consecutive navigations. Unlike
// the bucket it never allows bursts; one navigation, then silence.
type Pacer struct {
	minGap time.Duration
	last   time.Time
	mu     sync.Mutex
}

// NewPacer creates a pacer with the given minimum gap
func NewPacer(minGap time.Duration) *Pacer {
	return &Pacer{minGap: minGap}
}

// Allow reports whether the gap since the last navigation has elapsed
func (p *Pacer) Allow() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	if p.last.IsZero() || now.Sub(p.last) >= p.minGap {
		p.last = now
		return true
	}
	return false
}

// Wait blocks until the gap has elapsed or the context is cancelled
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	var remaining time.Duration
	if !p.last.IsZero() {
		remaining = p.minGap - time.Since(p.last)
	}
	p.mu.Unlock()

	if remaining > 0 {
		timer := time.NewTimer(remaining)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	p.mu.Lock()
	p.last = time.Now()
	p.mu.Unlock()
	return nil
}

// Reset forgets the last navigation time
func (p *Pacer) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = time.Time{}
}
