package sketch

import (
	"github.com/dshills/sketchrun/internal/hook"
	"github.com/dshills/sketchrun/internal/input"
)

// dispatch is the event queue handler. It runs inside a drain: on the tick
// goroutine after Draw, or on a producer goroutine while neither looping nor
// ticking.
func (s *Sketch) dispatch(ev input.Event) {
	switch e := ev.(type) {
	case input.PointerEvent:
		s.dispatchPointer(e)
	case input.KeyEvent:
		s.dispatchKey(e)
	default:
		s.logger.Warn("dropping event of type %T", ev)
		s.metrics.RecordDropped()
	}
}

// dispatchPointer hands hooks the event as produced and callbacks the
// normalized event, with control-click already reported as right.
func (s *Sketch) dispatchPointer(raw input.PointerEvent) {
	ev := s.input.ApplyPointer(raw)
	s.metrics.RecordEvent()

	s.notifyEvent(hook.EventPointer, raw)

	p := s.program
	switch ev.Action {
	case input.PointerPress:
		p.PointerPressed(s, ev)
	case input.PointerRelease:
		p.PointerReleased(s, ev)
	case input.PointerClick:
		p.PointerClicked(s, ev)
	case input.PointerDrag:
		p.PointerDragged(s, ev)
	case input.PointerMove:
		p.PointerMoved(s, ev)
	case input.PointerEnter:
		p.PointerEntered(s, ev)
	case input.PointerExit:
		p.PointerExited(s, ev)
	case input.PointerWheel:
		p.PointerWheel(s, ev)
	}
}

func (s *Sketch) dispatchKey(ev input.KeyEvent) {
	if !s.input.ApplyKey(ev) {
		s.metrics.RecordDropped()
		return
	}
	s.metrics.RecordEvent()

	s.notifyEvent(hook.EventKey, ev)

	p := s.program
	switch ev.Action {
	case input.KeyPress:
		p.KeyPressed(s, ev)
	case input.KeyRelease:
		p.KeyReleased(s, ev)
	case input.KeyType:
		p.KeyTyped(s, ev)
	}

	if ev.Action == input.KeyPress && s.closeRequested(ev) {
		s.logger.Debug("exit on %s", ev)
		s.Exit()
	}
}

// closeRequested reports whether a key press that was not consumed by
// KeyPressed asks to exit: Escape, or Ctrl+W under a trusted host.
func (s *Sketch) closeRequested(ev input.KeyEvent) bool {
	code, r := s.input.CurrentKey()
	if code == input.KeyEscape {
		return true
	}
	return s.trusted &&
		code == input.KeyRune && (r == 'w' || r == 'W') &&
		ev.Mods.Has(input.ModCtrl)
}

// notifyEvent fires pointerEvent or keyEvent. A propagating failure is
// raised as a panic; the drain does not catch it.
func (s *Sketch) notifyEvent(event string, payload any) {
	if err := s.hooks.Notify(event, payload); err != nil {
		panic(err)
	}
}
