package sketch

import (
	"sync"
	"time"
)

// DefaultFrameRate is the target frame rate of a new sketch.
const DefaultFrameRate = 60

// sampleWeight is the weight of a new period sample in the smoothed period.
const sampleWeight = 0.05

// FrameClock holds the target frame rate and the measured, smoothed rate.
// It is written by the tick goroutine and read from anywhere.
type FrameClock struct {
	mu       sync.RWMutex
	target   float64
	measured float64
	last     time.Time
}

// NewFrameClock creates a clock whose measured rate starts at target.
func NewFrameClock(target float64) *FrameClock {
	if target <= 0 {
		target = DefaultFrameRate
	}
	return &FrameClock{target: target, measured: target}
}

// SmoothRate folds one tick interval of dt seconds into rate. The blend is
// on periods: 1 / (0.95/rate + 0.05*dt).
func SmoothRate(rate, dt float64) float64 {
	if dt <= 0 || rate <= 0 {
		return rate
	}
	period := 1 / rate
	return 1 / ((1-sampleWeight)*period + sampleWeight*dt)
}

// Sample updates the measured rate with the time elapsed since the last
// Mark. It does nothing before the first Mark.
func (c *FrameClock) Sample(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last.IsZero() {
		return
	}
	c.measured = SmoothRate(c.measured, now.Sub(c.last).Seconds())
}

// Mark records now as the timestamp of the latest tick.
func (c *FrameClock) Mark(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = now
}

// Rate returns the measured frame rate.
func (c *FrameClock) Rate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.measured
}

// Target returns the target frame rate.
func (c *FrameClock) Target() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.target
}

// SetTarget changes the target frame rate. Non-positive values are ignored.
func (c *FrameClock) SetTarget(fps float64) bool {
	if fps <= 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = fps
	return true
}

// Last returns the timestamp of the latest tick.
func (c *FrameClock) Last() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}
