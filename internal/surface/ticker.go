package surface

import (
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/sketchrun/internal/logging"
)

// DefaultFrameRate is the cadence used when none is set.
const DefaultFrameRate = 60

// Ticker is the display-timing half of a surface: one goroutine calling
// Target.Tick at the frame rate. It is embedded by concrete surfaces.
type Ticker struct {
	mu       sync.Mutex
	interval time.Duration
	target   Target
	logger   *logging.Logger

	started   atomic.Bool
	suspended atomic.Bool
	stopped   atomic.Bool

	wake     chan struct{}
	rate     chan time.Duration
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewTicker creates a ticker at fps frames per second.
func NewTicker(fps float64, logger *logging.Logger) *Ticker {
	if logger == nil {
		logger = logging.Null()
	}
	return &Ticker{
		interval: intervalFor(fps),
		logger:   logger.WithComponent("ticker"),
		wake:     make(chan struct{}, 1),
		rate:     make(chan time.Duration, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func intervalFor(fps float64) time.Duration {
	if fps <= 0 {
		fps = DefaultFrameRate
	}
	return time.Duration(float64(time.Second) / fps)
}

// StartTicking launches the tick goroutine.
func (t *Ticker) StartTicking(target Target) error {
	if !t.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	t.mu.Lock()
	t.target = target
	interval := t.interval
	t.mu.Unlock()

	go t.run(target, interval)
	return nil
}

func (t *Ticker) run(target Target, interval time.Duration) {
	defer close(t.done)
	defer t.stopped.Store(true)

	tk := time.NewTicker(interval)
	defer tk.Stop()

	for {
		select {
		case <-t.stop:
			return

		case d := <-t.rate:
			tk.Reset(d)

		case <-tk.C:
			if t.suspended.Load() {
				continue
			}
			if target.IsLooping() || target.RedrawRequested() {
				if !t.tick(target) {
					return
				}
			}

		case <-t.wake:
			if target.RedrawRequested() {
				if !t.tick(target) {
					return
				}
			}
		}

		select {
		case <-t.stop:
			return
		default:
		}
	}
}

// tick runs one frame. A panic escaping the frame is the host's uncaught
// error: it is handed to the target and the loop ends.
func (t *Ticker) tick(target Target) (ok bool) {
	defer func() {
		if v := recover(); v != nil {
			ok = false
			t.stopped.Store(true)
			target.HandleUncaught(v, debug.Stack())
		}
	}()
	target.Tick()
	return true
}

// SuspendTicking pauses cadence ticks.
func (t *Ticker) SuspendTicking() {
	t.suspended.Store(true)
}

// ResumeTicking resumes cadence ticks.
func (t *Ticker) ResumeTicking() {
	t.suspended.Store(false)
}

// Suspended reports whether cadence ticks are paused.
func (t *Ticker) Suspended() bool {
	return t.suspended.Load()
}

// RequestTick wakes the loop for one tick if a redraw is pending.
func (t *Ticker) RequestTick() {
	select {
	case t.wake <- struct{}{}:
	default:
	}
}

// SetFrameRate changes the cadence of a running or future loop.
func (t *Ticker) SetFrameRate(fps float64) {
	d := intervalFor(fps)

	t.mu.Lock()
	t.interval = d
	t.mu.Unlock()

	if !t.started.Load() {
		return
	}
	// Replace any rate change the loop has not picked up yet.
	select {
	case <-t.rate:
	default:
	}
	select {
	case t.rate <- d:
	default:
	}
	t.logger.Debug("frame interval %s", d)
}

// Interval returns the current tick interval.
func (t *Ticker) Interval() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.interval
}

// IsFullyStopped reports whether the loop has exited or never started.
func (t *Ticker) IsFullyStopped() bool {
	return !t.started.Load() || t.stopped.Load()
}

// StopTicking ends the loop without waiting for it.
func (t *Ticker) StopTicking() {
	t.stopOnce.Do(func() {
		close(t.stop)
	})
}

// Wait blocks until the loop goroutine has exited. It returns at once if
// the loop was never started.
func (t *Ticker) Wait() {
	if !t.started.Load() {
		return
	}
	<-t.done
}
