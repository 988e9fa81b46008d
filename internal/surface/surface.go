// Package surface provides the display-timing and rendering collaborators
// that drive a sketch: a goroutine ticker, a tcell terminal canvas and test
// doubles.
package surface

import (
	"errors"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/sketchrun/internal/input"
)

// Surface errors.
var (
	// ErrAlreadyStarted indicates StartTicking was called twice.
	ErrAlreadyStarted = errors.New("surface already ticking")

	// ErrNotRealized indicates StartTicking was called before Realize.
	ErrNotRealized = errors.New("surface not realized")
)

// Settings describes the canvas requested during the configuration phase.
// Zero Width/Height mean "whatever the surface offers".
type Settings struct {
	Width        int
	Height       int
	FullScreen   bool
	Smooth       int
	PixelDensity float64
}

// DefaultSettings returns the settings used when Settings() requests nothing.
func DefaultSettings() Settings {
	return Settings{
		Width:        100,
		Height:       100,
		Smooth:       2,
		PixelDensity: 1,
	}
}

// Target is the sketch as seen by a surface.
type Target interface {
	// Tick runs one frame. Ticks never overlap.
	Tick()

	// IsLooping reports whether the surface should tick at its cadence.
	IsLooping() bool

	// RedrawRequested reports whether a single tick was asked for.
	RedrawRequested() bool

	// Enqueue delivers an input event from a producer goroutine.
	Enqueue(ev input.Event)

	// HandleUncaught receives a value recovered from a panicking Tick.
	HandleUncaught(value any, stack []byte)
}

// Surface realizes the canvas and schedules ticks.
type Surface interface {
	// Realize creates the rendering context described by s.
	Realize(s Settings) (Renderer, error)

	// StartTicking begins calling t.Tick at the frame rate.
	StartTicking(t Target) error

	// SuspendTicking stops cadence ticks. RequestTick still works.
	SuspendTicking()

	// ResumeTicking restarts cadence ticks.
	ResumeTicking()

	// RequestTick asks for one tick even if suspended or not looping.
	RequestTick()

	// SetFrameRate changes the cadence.
	SetFrameRate(fps float64)

	// IsFullyStopped reports that no tick is running or will run.
	IsFullyStopped() bool

	// DisposeRenderingContext stops ticking and releases the renderer.
	// It must not wait for an in-flight tick, since it may be called from one.
	DisposeRenderingContext()
}

// Color is a canvas color.
type Color = colorful.Color

// Canvas is the drawing surface handed to Draw.
type Canvas interface {
	Size() (width, height int)
	Background(c Color)
	Set(x, y int, r rune, c Color)
	Text(x, y int, s string, c Color)
}

// Renderer is the rendering context realized by a Surface.
type Renderer interface {
	Canvas

	// BeginFrame and EndFrame bracket each Draw.
	BeginFrame()
	EndFrame()

	// Dispose releases the context. Safe to call more than once.
	Dispose()
}

// Hue returns a fully saturated color for a hue in degrees.
func Hue(deg float64) Color {
	return colorful.Hsv(deg, 0.8, 1)
}

// MustHex parses a "#rrggbb" color, falling back to white.
func MustHex(s string) Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return c
}
