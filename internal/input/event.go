package input

// Kind tags the concrete type behind an Event.
type Kind uint8

const (
	// KindPointer tags PointerEvent.
	KindPointer Kind = iota + 1
	// KindKey tags KeyEvent.
	KindKey
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPointer:
		return "pointer"
	case KindKey:
		return "key"
	default:
		return "unknown"
	}
}

// Event is a queued input event: either a PointerEvent or a KeyEvent.
type Event interface {
	Kind() Kind
}
