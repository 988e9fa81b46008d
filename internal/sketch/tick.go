package sketch

import (
	"time"

	"github.com/dshills/sketchrun/internal/hook"
)

// Tick runs one frame. It is called by the surface on the tick goroutine.
//
// The first tick runs Setup. Every later tick updates the measured frame
// rate, fires "pre", runs Draw, drains the event queue, fires "draw" and
// then "post". Input reaches callbacks only in the drain, after Draw, so
// Draw always sees the input state of the previous tick.
//
// Panics from Setup, Draw and fatal hooks are not recovered here. A Tick
// before Start panics with ErrNotRealized.
func (s *Sketch) Tick() {
	if !s.inTick.CompareAndSwap(false, true) {
		panic(ErrReentrantTick)
	}

	if s.finished.Load() {
		s.inTick.Store(false)
		if s.exitRequested.Load() {
			s.teardown()
		}
		return
	}

	start := time.Now()
	first := s.frameCount.Load() == 0

	s.mu.Lock()
	r := s.renderer
	s.mu.Unlock()
	if r == nil {
		s.inTick.Store(false)
		panic(ErrNotRealized)
	}

	if first {
		r.BeginFrame()
		s.program.Setup(s)
		r.EndFrame()
	} else {
		s.clock.Sample(start)
		s.notify(hook.EventPre)

		s.input.AdvanceFrame()
		r.BeginFrame()
		s.program.Draw(s)
		r.EndFrame()
		s.input.CommitFrame()

		s.queue.Drain()
		s.notify(hook.EventDraw)
		s.redraw.Store(false)
	}

	s.inTick.Store(false)
	if !first {
		s.notify(hook.EventPost)
	}
	// Events that arrived after the drain wait for the next tick, unless
	// there will not be one.
	s.queue.Flush()
	s.clock.Mark(start)
	s.frameCount.Add(1)
	s.metrics.RecordTick(time.Since(start))

	if s.exitRequested.Load() {
		s.teardown()
	}
}

// notify fires a lifecycle hook from the tick. A propagating hook failure
// is raised as a panic, like a panic in Draw.
func (s *Sketch) notify(event string) {
	if err := s.hooks.Notify(event, nil); err != nil {
		panic(err)
	}
}
