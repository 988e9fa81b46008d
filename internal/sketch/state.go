package sketch

// RunState is the lifecycle state of a Sketch.
type RunState int32

const (
	// Constructed is the state after New.
	Constructed RunState = iota
	// ConfiguringSettings is the window in which Program.Settings runs.
	ConfiguringSettings
	// Ready means the canvas is realized and ticking has not started.
	Ready
	// Looping means the surface is ticking.
	Looping
	// Paused means ticking is suspended.
	Paused
	// Stopping means teardown is in progress.
	Stopping
	// Disposed is terminal.
	Disposed
)

// String returns the state name.
func (s RunState) String() string {
	switch s {
	case Constructed:
		return "constructed"
	case ConfiguringSettings:
		return "configuring"
	case Ready:
		return "ready"
	case Looping:
		return "looping"
	case Paused:
		return "paused"
	case Stopping:
		return "stopping"
	case Disposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Exited reports whether the state is Stopping or Disposed.
func (s RunState) Exited() bool {
	return s == Stopping || s == Disposed
}
