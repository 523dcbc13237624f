package session

import (
	"fmt"
	"strings"
)

// State is a step of the build pipeline
type State int

const (
	StateIdle State = iota
	StateSnapshotting
	StateClearing
	StateBuilding
	StateDiffing
	StateReporting
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:         "Idle",
	StateSnapshotting: "Snapshotting",
	StateClearing:     "Clearing",
	StateBuilding:     "Building",
	StateDiffing:      "Diffing",
	StateReporting:    "Reporting",
	StateDone:         "Done",
	StateFailed:       "Failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// StateError records the step a session failed in
type StateError struct {
	State State
	Err   error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %v", strings.ToLower(e.State.String()), e.Err)
}

func (e *StateError) Unwrap() error {
	return e.Err
}
