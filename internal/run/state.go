package run

import "strconv"

// State is a step of the run pipeline.
type State int

const (
	Idle State = iota
	ResolvingBinary
	NotFound
	Incompatible
	EnumeratingInstances
	QueryError
	EmptyResult
	OneInstance
	ManyInstances
	AwaitingSelection
	Dispatching
	Dispatched
	DispatchError
	// Cancelled: the user dismissed the selection prompt or interrupted the run.
	Cancelled
	// SelectionFailed: no instance could be chosen (no picker available,
	// picker failure, or a requested pid that is not running).
	SelectionFailed
)

var stateNames = [...]string{
	Idle:                 "Idle",
	ResolvingBinary:      "ResolvingBinary",
	NotFound:             "NotFound",
	Incompatible:         "Incompatible",
	EnumeratingInstances: "EnumeratingInstances",
	QueryError:           "QueryError",
	EmptyResult:          "EmptyResult",
	OneInstance:          "OneInstance",
	ManyInstances:        "ManyInstances",
	AwaitingSelection:    "AwaitingSelection",
	Dispatching:          "Dispatching",
	Dispatched:           "Dispatched",
	DispatchError:        "DispatchError",
	Cancelled:            "Cancelled",
	SelectionFailed:      "SelectionFailed",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}
