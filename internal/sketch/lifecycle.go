package sketch

import (
	"fmt"
	"runtime/debug"

	"github.com/dshills/sketchrun/internal/hook"
)

// transition moves from one state to another if the sketch is in from.
func (s *Sketch) transition(from, to RunState) bool {
	if !s.state.CompareAndSwap(int32(from), int32(to)) {
		return false
	}
	s.logger.WithField("state", from.String()+"->"+to.String()).Debug("transition")
	return true
}

// setState moves to to unconditionally.
func (s *Sketch) setState(to RunState) {
	from := RunState(s.state.Swap(int32(to)))
	if from != to {
		s.logger.WithField("state", from.String()+"->"+to.String()).Debug("transition")
	}
}

// Start configures and realizes the canvas on first use, then begins or
// resumes ticking. Starting a looping sketch does nothing.
func (s *Sketch) Start() error {
	switch s.State() {
	case Constructed:
		if err := s.configure(); err != nil {
			return err
		}
		return s.begin()
	case Ready:
		return s.begin()
	case Paused:
		return s.resume()
	case ConfiguringSettings:
		return ErrConfiguring
	case Stopping, Disposed:
		return ErrExited
	default:
		return nil
	}
}

// configure runs Program.Settings inside the configuration window and
// realizes the surface.
func (s *Sketch) configure() error {
	if !s.transition(Constructed, ConfiguringSettings) {
		return nil
	}

	s.program.Settings(s)
	if s.State().Exited() {
		return ErrExited
	}

	s.mu.Lock()
	settings := s.settings
	s.mu.Unlock()

	r, err := s.surface.Realize(settings)
	if err != nil {
		s.setState(Constructed)
		s.logger.Error("realize %dx%d: %v", settings.Width, settings.Height, err)
		return fmt.Errorf("realize surface: %w", err)
	}

	s.mu.Lock()
	s.renderer = r
	s.mu.Unlock()

	s.transition(ConfiguringSettings, Ready)
	return nil
}

// begin moves Ready to Looping and starts the surface.
func (s *Sketch) begin() error {
	if !s.transition(Ready, Looping) {
		return nil
	}
	if err := s.hooks.Notify(hook.EventResume, nil); err != nil {
		s.setState(Ready)
		return err
	}
	if err := s.surface.StartTicking(s); err != nil {
		s.setState(Ready)
		s.logger.Error("start ticking: %v", err)
		return fmt.Errorf("start ticking: %w", err)
	}
	return nil
}

// resume moves Paused to Looping.
func (s *Sketch) resume() error {
	if !s.transition(Paused, Looping) {
		return nil
	}
	err := s.hooks.Notify(hook.EventResume, nil)
	s.surface.ResumeTicking()
	return err
}

// Pause suspends ticking. Pausing a sketch that is not looping does
// nothing. While paused, input is handled as it arrives.
func (s *Sketch) Pause() error {
	if !s.transition(Looping, Paused) {
		return nil
	}
	err := s.hooks.Notify(hook.EventPause, nil)
	s.surface.SuspendTicking()
	s.queue.Flush()
	return err
}

// Exit stops the sketch. If a tick is in flight, or the surface will tick
// again because the sketch is looping, teardown runs at the end of that
// tick. Otherwise it runs now, on the caller's goroutine. Only the first
// teardown has any effect.
func (s *Sketch) Exit() {
	s.exit(0)
}

func (s *Sketch) exit(code int) {
	state := s.State()
	if state.Exited() {
		return
	}

	s.exitCode.CompareAndSwap(0, int32(code))
	s.finished.Store(true)

	stopped := s.surface == nil || s.surface.IsFullyStopped()
	switch {
	case stopped || state < Looping:
		s.teardown()
	case s.inTick.Load(), state == Looping && s.looping.Load():
		s.exitRequested.Store(true)
		s.logger.Debug("exit deferred to tick boundary")
		// The tick may have finished between the check and the store. Tear
		// down here unless another tick is certain to come.
		if !s.inTick.Load() && (!s.IsLooping() || s.surface.IsFullyStopped()) {
			s.teardown()
		}
	default:
		s.teardown()
	}
}

// teardown disposes the rendering context, fires the dispose hook and
// calls the exit function. Only the first caller runs it.
func (s *Sketch) teardown() {
	if !s.tornDown.CompareAndSwap(false, true) {
		return
	}
	s.finished.Store(true)
	s.setState(Stopping)

	s.mu.Lock()
	realized := s.renderer != nil
	s.mu.Unlock()
	if realized {
		s.surface.DisposeRenderingContext()
	}

	if err := s.hooks.Notify(hook.EventDispose, nil); err != nil {
		s.recordErr(err)
		s.logger.Error("dispose: %v", err)
	}

	s.queue.Clear()
	s.setState(Disposed)
	close(s.done)

	code := int(s.exitCode.Load())
	s.logger.Info("exit frames=%d code=%d", s.frameCount.Load(), code)
	s.exitFunc(code)
}

// HandleUncaught is the host's handler for a panic that escaped Setup, Draw
// or a fatal hook. It records the first one, logs it and exits with code 1.
func (s *Sketch) HandleUncaught(value any, stack []byte) {
	err := &RecoveredPanicError{Value: value, Stack: stack}
	if s.recordErr(err) {
		s.logger.Error("%v\n%s", value, stack)
	}
	s.exitCode.Store(1)
	s.finished.Store(true)
	s.teardown()
}

// recoverUncaught routes a panic on a producer goroutine to HandleUncaught.
func (s *Sketch) recoverUncaught() {
	if v := recover(); v != nil {
		s.HandleUncaught(v, debug.Stack())
	}
}
