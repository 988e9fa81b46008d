package sketch

import (
	"context"
	"os"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/sketchrun/internal/event"
	"github.com/dshills/sketchrun/internal/hook"
	"github.com/dshills/sketchrun/internal/input"
	"github.com/dshills/sketchrun/internal/logging"
	"github.com/dshills/sketchrun/internal/surface"
)

// Sketch runs a Program on a Surface.
type Sketch struct {
	id      uuid.UUID
	program Program
	surface surface.Surface
	logger  *logging.Logger

	hooks   *hook.Registry
	queue   *event.Queue
	input   *input.Normalizer
	clock   *FrameClock
	metrics *Metrics

	mu       sync.Mutex
	settings surface.Settings
	renderer surface.Renderer
	trusted  bool

	state         atomic.Int32
	looping       atomic.Bool
	redraw        atomic.Bool
	finished      atomic.Bool
	exitRequested atomic.Bool
	exitCode      atomic.Int32
	inTick        atomic.Bool
	tornDown      atomic.Bool
	frameCount    atomic.Uint64

	exitFunc func(code int)
	done     chan struct{}

	errMu sync.Mutex
	err   error
}

// Option configures a Sketch.
type Option func(*Sketch)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *logging.Logger) Option {
	return func(s *Sketch) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTrustedHost marks the caller as a trusted embedding host: configuration
// calls are accepted in any state and the host close shortcut (Ctrl+W)
// exits like Escape.
func WithTrustedHost() Option {
	return func(s *Sketch) { s.trusted = true }
}

// WithExitFunc replaces the final step of teardown, which by default is
// os.Exit. Embedding hosts that must keep the process alive set this.
func WithExitFunc(fn func(code int)) Option {
	return func(s *Sketch) {
		if fn != nil {
			s.exitFunc = fn
		}
	}
}

// WithInputConfig configures input normalization.
func WithInputConfig(cfg input.Config) Option {
	return func(s *Sketch) { s.input = input.NewNormalizer(cfg) }
}

// WithFrameRate sets the initial target frame rate.
func WithFrameRate(fps float64) Option {
	return func(s *Sketch) { s.clock.SetTarget(fps) }
}

// WithRegistry shares a hook registry between sketches or with a host.
func WithRegistry(r *hook.Registry) Option {
	return func(s *Sketch) {
		if r != nil {
			s.hooks = r
		}
	}
}

// New creates a sketch in the Constructed state.
func New(program Program, surf surface.Surface, opts ...Option) *Sketch {
	s := &Sketch{
		id:       uuid.New(),
		program:  program,
		surface:  surf,
		logger:   logging.Null(),
		input:    input.NewNormalizer(input.DefaultConfig()),
		clock:    NewFrameClock(DefaultFrameRate),
		metrics:  NewMetrics(),
		settings: surface.DefaultSettings(),
		exitFunc: os.Exit,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.logger = s.logger.WithComponent("sketch").WithField("run", s.id.String()[:8])
	if s.hooks == nil {
		s.hooks = hook.NewRegistry(s.logger)
	}
	s.queue = event.NewQueue(s.dispatch, tickState{s})

	s.looping.Store(true)
	// The first tick runs Setup and the second runs Draw even if Setup
	// calls NoLoop.
	s.redraw.Store(true)
	return s
}

// ID returns the run identifier used in logs.
func (s *Sketch) ID() uuid.UUID { return s.id }

// State returns the current run state.
func (s *Sketch) State() RunState { return RunState(s.state.Load()) }

// FrameCount returns the number of completed ticks.
func (s *Sketch) FrameCount() uint64 { return s.frameCount.Load() }

// FrameRate returns the measured, smoothed frame rate.
func (s *Sketch) FrameRate() float64 { return s.clock.Rate() }

// TargetFrameRate returns the requested frame rate.
func (s *Sketch) TargetFrameRate() float64 { return s.clock.Target() }

// SetFrameRate sets the target frame rate and forwards it to the surface.
func (s *Sketch) SetFrameRate(fps float64) {
	if !s.clock.SetTarget(fps) {
		s.logger.Warn("ignoring frame rate %v", fps)
		return
	}
	if s.surface != nil {
		s.surface.SetFrameRate(fps)
	}
}

// Width returns the configured canvas width.
func (s *Sketch) Width() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.renderer != nil {
		w, _ := s.renderer.Size()
		return w
	}
	return s.settings.Width
}

// Height returns the configured canvas height.
func (s *Sketch) Height() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.renderer != nil {
		_, h := s.renderer.Size()
		return h
	}
	return s.settings.Height
}

// Settings returns the configuration accumulated so far.
func (s *Sketch) Settings() surface.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Canvas returns the rendering context, or nil before the canvas exists.
func (s *Sketch) Canvas() surface.Canvas {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.renderer == nil {
		return nil
	}
	return s.renderer
}

// Pointer returns the pointer position as of the end of the previous tick.
func (s *Sketch) Pointer() (x, y int) {
	st := s.input.State()
	return st.FrameX, st.FrameY
}

// PrevPointer returns the pointer position one tick before Pointer.
func (s *Sketch) PrevPointer() (x, y int) {
	st := s.input.State()
	return st.FramePrevX, st.FramePrevY
}

// Input returns a snapshot of the canonical input state. Inside an event
// callback its X/Y and PrevX/PrevY are per-event positions.
func (s *Sketch) Input() input.State { return s.input.State() }

// ConsumeKey clears the current key, which stops Escape from exiting when
// called from KeyPressed.
func (s *Sketch) ConsumeKey() { s.input.ConsumeKey() }

// SetKeyRepeat enables or disables delivery of auto-repeat key presses.
func (s *Sketch) SetKeyRepeat(enabled bool) { s.input.SetKeyRepeat(enabled) }

// Loop resumes cadence ticking after NoLoop.
func (s *Sketch) Loop() {
	if !s.looping.Swap(true) {
		s.logger.Debug("loop")
	}
}

// NoLoop stops cadence ticking. Draw then runs only on Redraw.
func (s *Sketch) NoLoop() {
	if s.looping.Swap(false) {
		s.logger.Debug("noLoop")
		s.queue.Flush()
	}
}

// Looping reports the Loop/NoLoop flag.
func (s *Sketch) Looping() bool { return s.looping.Load() }

// Redraw asks for one Draw. When the sketch is not looping the surface is
// asked for a tick.
func (s *Sketch) Redraw() {
	s.redraw.Store(true)
	if !s.IsLooping() && s.surface != nil && !s.finished.Load() {
		s.surface.RequestTick()
	}
}

// IsLooping reports whether the surface is expected to tick at its cadence:
// the sketch is Looping and NoLoop is not in effect.
func (s *Sketch) IsLooping() bool {
	return s.looping.Load() && s.State() == Looping
}

// tickState is the queue's view of the sketch: a tick will drain events
// enqueued now if the sketch is looping or a tick is in progress.
type tickState struct{ s *Sketch }

func (t tickState) IsLooping() bool {
	return t.s.inTick.Load() || t.s.IsLooping()
}

// RedrawRequested reports whether a single tick was asked for.
func (s *Sketch) RedrawRequested() bool { return s.redraw.Load() }

// RegisterMethod subscribes method on receiver to a hook event. See
// hook.Registry.Register.
func (s *Sketch) RegisterMethod(event string, receiver any, method string) error {
	if err := s.hooks.Register(event, receiver, method); err != nil {
		s.logger.Error("register %s: %v", event, err)
		return err
	}
	return nil
}

// UnregisterMethod removes receiver from a hook event.
func (s *Sketch) UnregisterMethod(event string, receiver any) error {
	return s.hooks.Unregister(event, receiver)
}

// Hooks returns the hook registry.
func (s *Sketch) Hooks() *hook.Registry { return s.hooks }

// Logger returns the sketch logger.
func (s *Sketch) Logger() *logging.Logger { return s.logger }

// Metrics returns a snapshot of the sketch counters.
func (s *Sketch) Metrics() MetricsSnapshot {
	snap := s.metrics.Snapshot()
	snap.HookFailures = s.hooks.Failures()
	snap.FrameRate = s.clock.Rate()
	return snap
}

// Enqueue delivers an input event from a producer goroutine. While the
// sketch is not looping and no tick is running the event is handled before
// Enqueue returns. During a tick it waits for that tick's drain.
func (s *Sketch) Enqueue(ev input.Event) {
	if s.finished.Load() {
		s.metrics.RecordDropped()
		return
	}
	defer s.recoverUncaught()
	s.queue.Enqueue(ev)
}

// Run starts the sketch and blocks until it has exited or ctx is done, in
// which case it calls Exit and waits for teardown. It returns the first
// uncaught error, if any.
func (s *Sketch) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}

	select {
	case <-s.done:
	case <-ctx.Done():
		s.Exit()
		<-s.done
	}
	return s.Err()
}

// Done is closed when teardown completes.
func (s *Sketch) Done() <-chan struct{} { return s.done }

// Err returns the first uncaught error, or nil.
func (s *Sketch) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

func (s *Sketch) recordErr(err error) bool {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.err != nil {
		return false
	}
	s.err = err
	return true
}
