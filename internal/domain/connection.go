package domain

// ConnID is the opaque identifier the transport assigns to a live link.
type ConnID string

// State is the lifecycle state of a connection.
type State int

const (
	StateIdle State = iota
	StateQueued
	StatePaired
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateQueued:
		return "queued"
	case StatePaired:
		return "paired"
	default:
		return "unknown"
	}
}
