package retry

import (
	"math"
	"math/rand"
	"time"
)

// BackoffStrategy computes the delay before the next attempt.
// Implementations must be safe for concurrent use.
type BackoffStrategy interface {
	// NextInterval returns the delay after the given attempt number.
	// Attempt numbering starts at 1.
	NextInterval(attempt int) time.Duration
}

// Exponential doubles (by default) the delay on every attempt, capped at Max.
// Jitter, when non-zero, spreads delays by ±JitterFactor to avoid retry
// storms against a struggling provider.
type Exponential struct {
	Initial      time.Duration
	Max          time.Duration
	Multiplier   float64
	JitterFactor float64
}

// NextInterval returns min(Initial * Multiplier^(attempt-1), Max), jittered.
func (e Exponential) NextInterval(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	initial := e.Initial
	if initial == 0 {
		initial = time.Second
	}
	max := e.Max
	if max == 0 {
		max = 30 * time.Second
	}
	multiplier := e.Multiplier
	if multiplier == 0 {
		multiplier = 2
	}

	interval := float64(initial) * math.Pow(multiplier, float64(attempt-1))
	if e.JitterFactor > 0 {
		interval *= 1 + (rand.Float64()*2-1)*e.JitterFactor
	}
	if interval > float64(max) {
		interval = float64(max)
	}

	return time.Duration(interval)
}

// Fixed waits the same interval between every attempt.
type Fixed struct {
	Interval time.Duration
}

// NextInterval always returns the configured interval.
func (f Fixed) NextInterval(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return f.Interval
}
