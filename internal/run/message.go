package run

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/sungur/rhinorun/internal/helper"
)

// Message returns the single user-facing message for the terminal state.
// Command lines and helper output never appear here; they go to the debug
// log.
func (r *Result) Message() string {
	switch r.State {
	case Dispatched:
		name := "Rhino"
		if r.Instance != nil {
			if r.Instance.ProcessName != "" {
				name = r.Instance.ProcessName
			}
			return fmt.Sprintf("Sent %s to %s (pid %d)", filepath.Base(r.Script), name, r.Instance.ProcessID)
		}
		return "Sent script to " + name

	case NotFound:
		return "Could not find rhinocode. Set the Rhino installation directory with --paths, " +
			"RHINORUN_PATHS or installPaths in the config file."

	case Incompatible:
		var ce *helper.CompatibilityError
		if errors.As(r.Err, &ce) {
			return fmt.Sprintf("rhinocode %s is too old; version %s or newer is required. Please update Rhino.",
				ce.Found, ce.Required)
		}
		return "rhinocode is too old. Please update Rhino."

	case QueryError:
		return queryMessage(r.Err)

	case EmptyResult:
		return "No running Rhino instances found. Start Rhino and try again."

	case DispatchError:
		if errors.Is(r.Err, helper.ErrTimeout) {
			return "Could not send script to Rhino: timed out."
		}
		return "Could not send script to Rhino."

	case Cancelled:
		return "Cancelled."

	case SelectionFailed:
		var pe *UnknownPIDError
		switch {
		case errors.As(r.Err, &pe):
			return fmt.Sprintf("No running Rhino instance has process id %d.", pe.PID)
		case errors.Is(r.Err, ErrNoPicker):
			return "Several Rhino instances are running. Pass --pid to choose one, or run from a terminal."
		}
		return "Could not select a Rhino instance."
	}
	return ""
}

func queryMessage(err error) string {
	var qe *helper.QueryError
	if !errors.As(err, &qe) {
		return "Could not talk to rhinocode."
	}

	var what string
	switch qe.Stage {
	case helper.StageVersion:
		what = "Could not read the rhinocode version"
	default:
		what = "Could not list running Rhino instances"
	}
	switch qe.Reason {
	case helper.ReasonTimeout:
		return what + ": rhinocode did not answer in time."
	case helper.ReasonMalformed:
		return what + ": rhinocode returned unexpected output."
	}
	return what + "."
}
