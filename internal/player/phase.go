package player

// Phase is the coarse playback state derived from a State snapshot.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseBuffering
	PhasePlaying
	PhasePaused
	PhaseError
	PhaseRetrying
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseBuffering:
		return "buffering"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseError:
		return "error"
	case PhaseRetrying:
		return "retrying"
	default:
		return "unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
