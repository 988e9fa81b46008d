package input

// State is a snapshot of the canonical input state.
type State struct {
	// X, Y is the latest pointer position seen by a press, drag or move.
	X, Y int
	// PrevX, PrevY is the position before the latest press, drag or move.
	PrevX, PrevY int

	// FrameX, FrameY is the pointer position committed at the end of the
	// last tick's Draw.
	FrameX, FrameY int
	// FramePrevX, FramePrevY is FrameX/FrameY as of the previous tick.
	FramePrevX, FramePrevY int

	// Button is the effective button of the latest button-carrying event.
	Button Button
	// Pressed is true between a press and its release.
	Pressed bool

	// Key is the character of the latest key event (0 if none or consumed).
	Key rune
	// KeyCode is the key of the latest key event.
	KeyCode Key
	// KeyPressed is true while at least one key is down.
	KeyPressed bool
	// KeysDown lists the keys currently down in the order they went down.
	KeysDown []KeyID
}

// keySet is an insertion-ordered set of KeyIDs.
type keySet struct {
	ids []KeyID
}

// add inserts id unless present. Returns false on a duplicate.
func (s *keySet) add(id KeyID) bool {
	if s.contains(id) {
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

// remove deletes id if present.
func (s *keySet) remove(id KeyID) bool {
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return true
		}
	}
	return false
}

func (s *keySet) contains(id KeyID) bool {
	for _, existing := range s.ids {
		if existing == id {
			return true
		}
	}
	return false
}

func (s *keySet) len() int { return len(s.ids) }

func (s *keySet) snapshot() []KeyID {
	if len(s.ids) == 0 {
		return nil
	}
	out := make([]KeyID, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *keySet) clear() { s.ids = nil }
