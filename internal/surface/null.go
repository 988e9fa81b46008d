package surface

import (
	"sync"
	"sync/atomic"

	"github.com/dshills/sketchrun/internal/logging"
)

// NullRenderer is a renderer that draws into a cell map. It counts frame
// brackets and disposals for tests and headless runs.
type NullRenderer struct {
	mu     sync.Mutex
	width  int
	height int
	cells  map[[2]int]rune

	Begins   atomic.Int64
	Ends     atomic.Int64
	Disposes atomic.Int64
}

// NewNullRenderer creates a renderer of the given size.
func NewNullRenderer(width, height int) *NullRenderer {
	return &NullRenderer{
		width:  width,
		height: height,
		cells:  make(map[[2]int]rune),
	}
}

// Size implements Canvas.
func (r *NullRenderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

// Background implements Canvas.
func (r *NullRenderer) Background(Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cells = make(map[[2]int]rune)
}

// Set implements Canvas.
func (r *NullRenderer) Set(x, y int, ch rune, _ Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.cells[[2]int{x, y}] = ch
	}
}

// Text implements Canvas.
func (r *NullRenderer) Text(x, y int, s string, c Color) {
	for _, ch := range s {
		r.Set(x, y, ch, c)
		x++
	}
}

// Cell returns the rune drawn at x, y (0 if none).
func (r *NullRenderer) Cell(x, y int) rune {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cells[[2]int{x, y}]
}

// BeginFrame implements Renderer.
func (r *NullRenderer) BeginFrame() { r.Begins.Add(1) }

// EndFrame implements Renderer.
func (r *NullRenderer) EndFrame() { r.Ends.Add(1) }

// Dispose implements Renderer.
func (r *NullRenderer) Dispose() { r.Disposes.Add(1) }

// Headless is a ticking surface without a display.
type Headless struct {
	*Ticker

	mu       sync.Mutex
	renderer *NullRenderer
}

// NewHeadless creates a headless surface ticking at fps.
func NewHeadless(fps float64, logger *logging.Logger) *Headless {
	return &Headless{Ticker: NewTicker(fps, logger)}
}

// Realize implements Surface.
func (h *Headless) Realize(s Settings) (Renderer, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.renderer = NewNullRenderer(s.Width, s.Height)
	return h.renderer, nil
}

// StartTicking implements Surface.
func (h *Headless) StartTicking(t Target) error {
	h.mu.Lock()
	realized := h.renderer != nil
	h.mu.Unlock()
	if !realized {
		return ErrNotRealized
	}
	return h.Ticker.StartTicking(t)
}

// DisposeRenderingContext implements Surface.
func (h *Headless) DisposeRenderingContext() {
	h.StopTicking()
	h.mu.Lock()
	r := h.renderer
	h.mu.Unlock()
	if r != nil {
		r.Dispose()
	}
}

// Manual is a surface that never ticks on its own. Tests call the target's
// Tick directly and inspect the recorded calls.
type Manual struct {
	mu sync.Mutex

	Renderer *NullRenderer
	Settings Settings
	Target   Target

	Started      bool
	Suspended    bool
	Stopped      bool
	TickRequests int
	FrameRate    float64
	Suspends     int
	Resumes      int
	Disposals    int
}

// NewManual creates a manual surface.
func NewManual() *Manual {
	return &Manual{}
}

// Realize implements Surface.
func (m *Manual) Realize(s Settings) (Renderer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Settings = s
	m.Renderer = NewNullRenderer(s.Width, s.Height)
	return m.Renderer, nil
}

// StartTicking implements Surface.
func (m *Manual) StartTicking(t Target) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Started {
		return ErrAlreadyStarted
	}
	m.Started = true
	m.Target = t
	return nil
}

// SuspendTicking implements Surface.
func (m *Manual) SuspendTicking() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Suspended = true
	m.Suspends++
}

// ResumeTicking implements Surface.
func (m *Manual) ResumeTicking() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Suspended = false
	m.Resumes++
}

// RequestTick implements Surface.
func (m *Manual) RequestTick() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TickRequests++
}

// SetFrameRate implements Surface.
func (m *Manual) SetFrameRate(fps float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FrameRate = fps
}

// IsFullyStopped implements Surface.
func (m *Manual) IsFullyStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.Started || m.Stopped
}

// Stop marks the surface as fully stopped.
func (m *Manual) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Stopped = true
}

// DisposeRenderingContext implements Surface.
func (m *Manual) DisposeRenderingContext() {
	m.mu.Lock()
	m.Disposals++
	m.Stopped = true
	r := m.Renderer
	m.mu.Unlock()
	if r != nil {
		r.Dispose()
	}
}

// Counts returns a consistent copy of the recorded counters.
func (m *Manual) Counts() (suspends, resumes, disposals, tickRequests int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Suspends, m.Resumes, m.Disposals, m.TickRequests
}
