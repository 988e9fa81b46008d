package surface

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/sketchrun/internal/input"
)

// pointerTracker turns tcell's stateless button masks into press, release,
// click, drag and move actions.
type pointerTracker struct {
	held    input.Button
	last    input.Position
	dragged bool
	seen    bool
}

// convert maps one tcell event to zero or more canonical events.
func (p *pointerTracker) convert(ev tcell.Event) []input.Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return convertKeyEvent(e)
	case *tcell.EventMouse:
		return p.mouse(e)
	case *tcell.EventFocus:
		action := input.PointerExit
		if e.Focused {
			action = input.PointerEnter
		}
		return []input.Event{input.PointerEvent{Action: action, Position: p.last, Time: stamp(e.When())}}
	default:
		return nil
	}
}

func (p *pointerTracker) mouse(e *tcell.EventMouse) []input.Event {
	x, y := e.Position()
	pos := input.Position{X: x, Y: y}
	mods := convertMod(e.Modifiers())
	when := stamp(e.When())
	buttons := e.Buttons()

	moved := !p.seen || pos != p.last
	p.seen = true
	p.last = pos

	if amount := wheelAmount(buttons); amount != 0 {
		return []input.Event{input.PointerEvent{
			Action: input.PointerWheel, Position: pos, Mods: mods, Wheel: amount, Time: when,
		}}
	}

	now := convertButton(buttons)
	switch {
	case p.held == input.ButtonNone && now != input.ButtonNone:
		p.held = now
		p.dragged = false
		return []input.Event{input.PointerEvent{
			Action: input.PointerPress, Position: pos, Button: now, Mods: mods, Time: when,
		}}

	case p.held != input.ButtonNone && now == input.ButtonNone:
		button := p.held
		p.held = input.ButtonNone
		out := []input.Event{input.PointerEvent{
			Action: input.PointerRelease, Position: pos, Button: button, Mods: mods, Time: when,
		}}
		if !p.dragged && !moved {
			out = append(out, input.PointerEvent{
				Action: input.PointerClick, Position: pos, Button: button, Mods: mods, Count: 1, Time: when,
			})
		}
		return out

	case p.held != input.ButtonNone && moved:
		p.dragged = true
		return []input.Event{input.PointerEvent{
			Action: input.PointerDrag, Position: pos, Button: p.held, Mods: mods, Time: when,
		}}

	case p.held == input.ButtonNone && moved:
		return []input.Event{input.PointerEvent{
			Action: input.PointerMove, Position: pos, Mods: mods, Time: when,
		}}
	}
	return nil
}

// convertKeyEvent expands a terminal key into press, type (for printable
// characters) and release. Terminals report no key-up, so the release is
// synthesized to keep the keys-down set from growing forever.
func convertKeyEvent(e *tcell.EventKey) []input.Event {
	k, r, mods := convertKey(e)
	when := stamp(e.When())

	out := []input.Event{input.KeyEvent{Action: input.KeyPress, Key: k, Rune: r, Mods: mods, Time: when}}
	if k == input.KeyRune && !mods.Has(input.ModCtrl) {
		out = append(out, input.KeyEvent{Action: input.KeyType, Key: k, Rune: r, Mods: mods, Time: when})
	}
	out = append(out, input.KeyEvent{Action: input.KeyRelease, Key: k, Rune: r, Mods: mods, Time: when})
	return out
}

func convertKey(e *tcell.EventKey) (input.Key, rune, input.Modifier) {
	mods := convertMod(e.Modifiers())
	k := e.Key()

	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		switch k {
		case tcell.KeyCtrlH:
			return input.KeyBackspace, 0, mods
		case tcell.KeyCtrlI:
			return input.KeyTab, 0, mods
		case tcell.KeyCtrlM:
			return input.KeyEnter, 0, mods
		}
		return input.KeyRune, rune('a' + (k - tcell.KeyCtrlA)), mods.With(input.ModCtrl)
	}

	switch k {
	case tcell.KeyRune:
		return input.KeyRune, e.Rune(), mods
	case tcell.KeyEscape:
		return input.KeyEscape, 0, mods
	case tcell.KeyEnter:
		return input.KeyEnter, 0, mods
	case tcell.KeyTab:
		return input.KeyTab, 0, mods
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return input.KeyBackspace, 0, mods
	case tcell.KeyDelete:
		return input.KeyDelete, 0, mods
	case tcell.KeyInsert:
		return input.KeyInsert, 0, mods
	case tcell.KeyHome:
		return input.KeyHome, 0, mods
	case tcell.KeyEnd:
		return input.KeyEnd, 0, mods
	case tcell.KeyPgUp:
		return input.KeyPageUp, 0, mods
	case tcell.KeyPgDn:
		return input.KeyPageDown, 0, mods
	case tcell.KeyUp:
		return input.KeyUp, 0, mods
	case tcell.KeyDown:
		return input.KeyDown, 0, mods
	case tcell.KeyLeft:
		return input.KeyLeft, 0, mods
	case tcell.KeyRight:
		return input.KeyRight, 0, mods
	}

	if k >= tcell.KeyF1 && k <= tcell.KeyF12 {
		return input.KeyF1 + input.Key(k-tcell.KeyF1), 0, mods
	}
	return input.KeyNone, e.Rune(), mods
}

func convertMod(m tcell.ModMask) input.Modifier {
	var out input.Modifier
	if m&tcell.ModShift != 0 {
		out = out.With(input.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		out = out.With(input.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		out = out.With(input.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		out = out.With(input.ModMeta)
	}
	return out
}

func convertButton(b tcell.ButtonMask) input.Button {
	switch {
	case b&tcell.Button1 != 0:
		return input.ButtonLeft
	case b&tcell.Button3 != 0:
		return input.ButtonMiddle
	case b&tcell.Button2 != 0:
		return input.ButtonRight
	default:
		return input.ButtonNone
	}
}

func wheelAmount(b tcell.ButtonMask) int {
	switch {
	case b&tcell.WheelUp != 0:
		return -1
	case b&tcell.WheelDown != 0:
		return 1
	default:
		return 0
	}
}

// stamp is used where tcell gives no timestamp.
func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
