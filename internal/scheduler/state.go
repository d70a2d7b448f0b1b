package scheduler

// State is the playback lifecycle state.
type State int

const (
	Uninitialized State = iota
	Stopped
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// event is a requested lifecycle transition.
type event int

const (
	evInitialize event = iota
	evStart
	evPause
	evResume
	evStop
)

// transition returns the state reached from s by ev, and whether the
// transition is legal. Illegal transitions leave the state unchanged and
// are treated as no-ops by the callers.
func transition(s State, ev event) (State, bool) {
	switch ev {
	case evInitialize:
		// Re-initialization from Stopped rewinds playback to the start.
		if s == Uninitialized || s == Stopped {
			return Stopped, true
		}
	case evStart:
		if s == Stopped {
			return Running, true
		}
	case evPause:
		if s == Running {
			return Paused, true
		}
	case evResume:
		if s == Paused {
			return Running, true
		}
	case evStop:
		if s == Running || s == Paused {
			return Stopped, true
		}
	}
	return s, false
}
