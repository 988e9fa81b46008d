package input

import (
	"fmt"
	"strings"
	"time"
)

// Key identifies a keyboard key. Printable keys use KeyRune and carry the
// character in the event's Rune field.
type Key int

// Key constants for non-printable keys.
const (
	KeyNone Key = iota
	KeyRune
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

var keyNames = map[Key]string{
	KeyNone:      "none",
	KeyRune:      "rune",
	KeyEscape:    "escape",
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeyBackspace: "backspace",
	KeyDelete:    "delete",
	KeyInsert:    "insert",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPageUp:    "pageup",
	KeyPageDown:  "pagedown",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
}

// String returns the lower-case key name.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	if k >= KeyF1 && k <= KeyF12 {
		return fmt.Sprintf("f%d", int(k-KeyF1)+1)
	}
	return fmt.Sprintf("key(%d)", int(k))
}

// Modifier is a bit set of modifier keys held during an event.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt

	// ModMeta indicates the Meta key (Cmd on macOS).
	ModMeta
)

// Has returns true if m contains mod.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns m with mod added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns m with mod removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// String returns modifiers joined with "+", e.g. "ctrl+shift".
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}
	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "alt")
	}
	if m.Has(ModShift) {
		parts = append(parts, "shift")
	}
	if m.Has(ModMeta) {
		parts = append(parts, "meta")
	}
	return strings.Join(parts, "+")
}

// KeyAction is what happened to a key.
type KeyAction uint8

const (
	// KeyPress is a key going down.
	KeyPress KeyAction = iota + 1
	// KeyRelease is a key going up.
	KeyRelease
	// KeyType is a character produced by the key.
	KeyType
)

// String returns the action name.
func (a KeyAction) String() string {
	switch a {
	case KeyPress:
		return "press"
	case KeyRelease:
		return "release"
	case KeyType:
		return "type"
	default:
		return "none"
	}
}

// KeyEvent is a canonical keyboard event.
type KeyEvent struct {
	Action KeyAction
	Key    Key
	Rune   rune
	Mods   Modifier

	// Repeat marks a press synthesized by the platform's auto-repeat.
	Repeat bool

	Time time.Time
}

// Kind implements Event.
func (KeyEvent) Kind() Kind { return KindKey }

// ID returns the (code, character) identity used by the keys-down set.
func (e KeyEvent) ID() KeyID {
	return KeyID{Code: e.Key, Rune: e.Rune}
}

// String returns a short human-readable form, e.g. "press ctrl+q".
func (e KeyEvent) String() string {
	name := e.Key.String()
	if e.Key == KeyRune {
		name = string(e.Rune)
	}
	if mods := e.Mods.String(); mods != "" {
		name = mods + "+" + name
	}
	return e.Action.String() + " " + name
}

// KeyID identifies one entry in the keys-down set.
type KeyID struct {
	Code Key
	Rune rune
}
