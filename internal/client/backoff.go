package client

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// backoff is exponential with proportional jitter.
type backoff struct {
	base   time.Duration
	max    time.Duration
	jitter float64

	mu   sync.Mutex
	rand *rand.Rand
}

func newBackoff(base, max time.Duration, jitter float64) *backoff {
	if base <= 0 {
		base = 50 * time.Millisecond
	}
	if max <= 0 {
		max = time.Second
	}
	if jitter < 0 {
		jitter = 0
	}
	return &backoff{
		base:   base,
		max:    max,
		jitter: math.Min(jitter, 1),
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// forAttempt returns the delay before retry number attempt, counted from 0.
func (b *backoff) forAttempt(attempt int) time.Duration {
	delay := b.base
	if attempt > 0 {
		delay = time.Duration(float64(b.base) * math.Pow(2, float64(attempt)))
	}
	if delay <= 0 || delay > b.max {
		delay = b.max
	}
	return b.addJitter(delay)
}

func (b *backoff) addJitter(delay time.Duration) time.Duration {
	if b.jitter == 0 {
		return delay
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	factor := 1 + (b.rand.Float64()*2-1)*b.jitter
	return time.Duration(float64(delay) * factor)
}
