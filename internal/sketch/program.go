package sketch

import "github.com/dshills/sketchrun/internal/input"

// Program is the user code a Sketch runs.
//
// Settings runs once, before the canvas exists, and is the only place the
// configuration calls (Size, FullScreen, Smooth, PixelDensity) are accepted.
// Setup runs on the first tick and Draw on every tick after it. The event
// callbacks run while the event queue is drained, never during Draw.
type Program interface {
	Settings(s *Sketch)
	Setup(s *Sketch)
	Draw(s *Sketch)

	PointerPressed(s *Sketch, ev input.PointerEvent)
	PointerReleased(s *Sketch, ev input.PointerEvent)
	PointerClicked(s *Sketch, ev input.PointerEvent)
	PointerDragged(s *Sketch, ev input.PointerEvent)
	PointerMoved(s *Sketch, ev input.PointerEvent)
	PointerEntered(s *Sketch, ev input.PointerEvent)
	PointerExited(s *Sketch, ev input.PointerEvent)
	PointerWheel(s *Sketch, ev input.PointerEvent)

	KeyPressed(s *Sketch, ev input.KeyEvent)
	KeyReleased(s *Sketch, ev input.KeyEvent)
	KeyTyped(s *Sketch, ev input.KeyEvent)
}

// Base implements every Program method as a no-op. Embed it and override
// what the program needs.
type Base struct{}

func (Base) Settings(*Sketch) {}
func (Base) Setup(*Sketch)    {}
func (Base) Draw(*Sketch)     {}

func (Base) PointerPressed(*Sketch, input.PointerEvent)  {}
func (Base) PointerReleased(*Sketch, input.PointerEvent) {}
func (Base) PointerClicked(*Sketch, input.PointerEvent)  {}
func (Base) PointerDragged(*Sketch, input.PointerEvent)  {}
func (Base) PointerMoved(*Sketch, input.PointerEvent)    {}
func (Base) PointerEntered(*Sketch, input.PointerEvent)  {}
func (Base) PointerExited(*Sketch, input.PointerEvent)   {}
func (Base) PointerWheel(*Sketch, input.PointerEvent)    {}

func (Base) KeyPressed(*Sketch, input.KeyEvent)  {}
func (Base) KeyReleased(*Sketch, input.KeyEvent) {}
func (Base) KeyTyped(*Sketch, input.KeyEvent)    {}

var _ Program = Base{}
