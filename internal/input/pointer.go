package input

import (
	"fmt"
	"time"
)

// Button is a pointer button.
type Button uint8

const (
	// ButtonNone indicates no button.
	ButtonNone Button = iota
	// ButtonLeft is the primary button.
	ButtonLeft
	// ButtonMiddle is the middle button.
	ButtonMiddle
	// ButtonRight is the secondary button.
	ButtonRight
)

// String returns the button name.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	default:
		return "none"
	}
}

// PointerAction is what the pointer did.
type PointerAction uint8

const (
	// PointerPress is a button going down.
	PointerPress PointerAction = iota + 1
	// PointerRelease is a button going up.
	PointerRelease
	// PointerClick is a press and release without movement in between.
	PointerClick
	// PointerDrag is movement with a button held.
	PointerDrag
	// PointerMove is movement with no button held.
	PointerMove
	// PointerEnter is the pointer entering the surface.
	PointerEnter
	// PointerExit is the pointer leaving the surface.
	PointerExit
	// PointerWheel is a scroll wheel step.
	PointerWheel
)

// String returns the action name.
func (a PointerAction) String() string {
	switch a {
	case PointerPress:
		return "press"
	case PointerRelease:
		return "release"
	case PointerClick:
		return "click"
	case PointerDrag:
		return "drag"
	case PointerMove:
		return "move"
	case PointerEnter:
		return "enter"
	case PointerExit:
		return "exit"
	case PointerWheel:
		return "wheel"
	default:
		return "none"
	}
}

// movesPointer reports whether the action updates the event position pair.
func (a PointerAction) movesPointer() bool {
	return a == PointerPress || a == PointerDrag || a == PointerMove
}

// Position is a surface coordinate.
type Position struct {
	X int
	Y int
}

// PointerEvent is a canonical pointer event.
type PointerEvent struct {
	Action PointerAction
	Position
	Button Button
	Mods   Modifier

	// Count is the click count for PointerClick.
	Count int

	// Wheel is the scroll amount for PointerWheel; positive is down/away.
	Wheel int

	Time time.Time
}

// Kind implements Event.
func (PointerEvent) Kind() Kind { return KindPointer }

// String returns a short human-readable form.
func (e PointerEvent) String() string {
	return fmt.Sprintf("%s %s (%d,%d)", e.Action, e.Button, e.X, e.Y)
}
