package input

import (
	"runtime"
	"sync"
)

// Config configures a Normalizer.
type Config struct {
	// ControlClickAsRight reports ctrl+primary presses as right presses for
	// the whole press-drag-release gesture.
	ControlClickAsRight bool

	// KeyRepeat delivers auto-repeat presses. When false they are discarded.
	KeyRepeat bool
}

// DefaultConfig enables control-click substitution on macOS only and
// discards key auto-repeat.
func DefaultConfig() Config {
	return Config{
		ControlClickAsRight: runtime.GOOS == "darwin",
		KeyRepeat:           false,
	}
}

// Normalizer folds canonical events into the canonical input state.
//
// Apply methods are called by the event queue's drain, which never runs
// concurrently with itself. The mutex only guards the frame-pointer methods
// and snapshots, which run on the tick goroutine.
type Normalizer struct {
	mu  sync.Mutex
	cfg Config

	st   State
	keys keySet

	// seenPointer is false until the first pointer event.
	seenPointer bool

	// rightLatch is set by ctrl+primary press and cleared on release.
	rightLatch bool
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(cfg Config) *Normalizer {
	return &Normalizer{cfg: cfg}
}

// SetKeyRepeat enables or disables delivery of auto-repeat presses.
func (n *Normalizer) SetKeyRepeat(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cfg.KeyRepeat = enabled
}

// SetControlClickAsRight enables or disables control-click substitution.
func (n *Normalizer) SetControlClickAsRight(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cfg.ControlClickAsRight = enabled
}

// ApplyPointer updates the canonical state for ev and returns the event as
// it must be delivered to callbacks (with the effective button).
func (n *Normalizer) ApplyPointer(ev PointerEvent) PointerEvent {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.cfg.ControlClickAsRight && ev.Button == ButtonLeft {
		if ev.Action == PointerPress && ev.Mods.Has(ModCtrl) {
			n.rightLatch = true
		}
		if n.rightLatch {
			ev.Button = ButtonRight
		}
		if ev.Action == PointerRelease {
			n.rightLatch = false
		}
	}

	if !n.seenPointer {
		n.seenPointer = true
		n.st.X, n.st.Y = ev.X, ev.Y
		n.st.PrevX, n.st.PrevY = ev.X, ev.Y
		n.st.FrameX, n.st.FrameY = ev.X, ev.Y
		n.st.FramePrevX, n.st.FramePrevY = ev.X, ev.Y
	}

	if ev.Action.movesPointer() {
		n.st.PrevX, n.st.PrevY = n.st.X, n.st.Y
		n.st.X, n.st.Y = ev.X, ev.Y
	}

	switch ev.Action {
	case PointerPress:
		n.st.Pressed = true
		n.st.Button = ev.Button
	case PointerRelease:
		n.st.Pressed = false
		n.st.Button = ev.Button
	case PointerDrag, PointerClick:
		n.st.Button = ev.Button
	}

	return ev
}

// ApplyKey updates the canonical state for ev. It returns false when the
// event is an auto-repeat press that must be discarded.
func (n *Normalizer) ApplyKey(ev KeyEvent) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if ev.Repeat && !n.cfg.KeyRepeat {
		return false
	}

	n.st.Key = ev.Rune
	n.st.KeyCode = ev.Key

	switch ev.Action {
	case KeyPress:
		n.keys.add(ev.ID())
		n.st.KeyPressed = true
	case KeyRelease:
		n.keys.remove(ev.ID())
		n.st.KeyPressed = n.keys.len() > 0
	}
	return true
}

// ConsumeKey clears the current key so that post-callback checks (such as
// escape-to-exit) see no key.
func (n *Normalizer) ConsumeKey() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.st.Key = 0
	n.st.KeyCode = KeyNone
}

// CurrentKey returns the current key and character.
func (n *Normalizer) CurrentKey() (Key, rune) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.st.KeyCode, n.st.Key
}

// AdvanceFrame copies the frame position into the frame previous position.
// Called once per tick before Draw.
func (n *Normalizer) AdvanceFrame() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.st.FramePrevX, n.st.FramePrevY = n.st.FrameX, n.st.FrameY
}

// CommitFrame sets the frame position to the latest event position.
// Called once per tick after Draw.
func (n *Normalizer) CommitFrame() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.st.FrameX, n.st.FrameY = n.st.X, n.st.Y
}

// State returns a snapshot of the canonical input state.
func (n *Normalizer) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	st := n.st
	st.KeysDown = n.keys.snapshot()
	return st
}

// Reset clears all state, as for a sketch being restarted.
func (n *Normalizer) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.st = State{}
	n.keys.clear()
	n.seenPointer = false
	n.rightLatch = false
}
