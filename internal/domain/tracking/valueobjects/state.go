package valueobjects

import "fmt"

// TrackingState is the lifecycle state of a tracking.
type TrackingState string

const (
	StateRunning  TrackingState = "running"
	StatePaused   TrackingState = "paused"
	StateArchived TrackingState = "archived"
	StateDeleted  TrackingState = "deleted"
)

func NewTrackingState(value string) (TrackingState, error) {
	s := TrackingState(value)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid tracking state: %s", value)
	}
	return s, nil
}

func (s TrackingState) IsValid() bool {
	switch s {
	case StateRunning, StatePaused, StateArchived, StateDeleted:
		return true
	}
	return false
}

func (s TrackingState) String() string {
	return string(s)
}

// allowedTransitions is the closed transition table. Same-state transitions
// are always allowed as no-ops and are not listed.
var allowedTransitions = map[TrackingState]map[TrackingState]bool{
	StateRunning: {
		StatePaused: true,
	},
	StatePaused: {
		StateRunning:  true,
		StateArchived: true,
	},
	StateArchived: {
		StateRunning: true,
		StateDeleted: true,
	},
	StateDeleted: {},
}

// CanTransitionTo reports whether the edge from s to target is allowed.
func (s TrackingState) CanTransitionTo(target TrackingState) bool {
	if s == target {
		return true
	}
	return allowedTransitions[s][target]
}
