package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sungur/rhinorun/internal/log"
	"github.com/sungur/rhinorun/internal/paths"
	"github.com/sungur/rhinorun/internal/picker"
	"github.com/sungur/rhinorun/internal/platform"
	"github.com/sungur/rhinorun/internal/run"
)

// newPicker returns the interactive picker, or nil when there is no
// terminal to draw it on. Replaced in tests.
var newPicker = func() run.Picker {
	if !picker.Interactive() {
		return nil
	}
	return picker.Picker{}
}

// runScript is the default action: send one script to one Rhino.
func runScript(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	script, err := paths.ValidateScriptPath(args[0])
	if err != nil {
		return err
	}

	s, err := loadSettings(cmd.Flags(), filepath.Dir(script))
	if err != nil {
		return err
	}

	opts := s.pipelineOptions()
	opts.Script = script
	opts.PreselectPID, _ = cmd.Flags().GetInt("pid")
	if opts.PreselectPID == 0 {
		opts.Picker = newPicker()
	}

	res := run.Execute(cmd.Context(), opts)
	return report(&res)
}

// report prints the single user-facing message for a finished pipeline and
// converts failures into an exit code.
func report(res *run.Result) error {
	msg := res.Message()
	switch res.State {
	case run.Dispatched:
		log.Success(msg)
	case run.Cancelled:
		log.Dim(msg)
	case run.EmptyResult:
		log.Warn(msg)
	case run.NotFound:
		log.Error(msg)
		if hint := noDefaultHint(platform.DetectHost()); hint != "" {
			log.Dim(hint)
		}
	default:
		log.Error(msg)
	}

	if res.OK() {
		return nil
	}
	return &exitError{code: exitCode(res.State)}
}

// noDefaultHint explains a NotFound outcome on hosts where Rhino has no
// default install location to fall back on.
func noDefaultHint(host platform.Platform) string {
	if platform.DefaultsFor(host).Dir != "" {
		return ""
	}
	return fmt.Sprintf("There is no default Rhino location on %s; only the configured directories were searched.",
		platform.HostOSName(host))
}

// exitCode maps a terminal state to the process exit status. EmptyResult
// gets its own code so editor integrations can tell "no Rhino running"
// apart from a failure.
func exitCode(s run.State) int {
	switch s {
	case run.Dispatched, run.Cancelled:
		return 0
	case run.EmptyResult:
		return 2
	}
	return 1
}
