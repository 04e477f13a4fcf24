// Package cli defines the rhinorun command-line interface using cobra.
//
// The root command IS the run command -- "rhinorun script.py" locates
// rhinocode, lists the running Rhino instances, asks which one to use when
// there are several, and sends the script to it. Subcommands (list, which,
// update, uninstall) are registered separately.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sungur/rhinorun/internal/log"
	"github.com/sungur/rhinorun/internal/upgrade"
)

// Version, Commit, and Date are set via ldflags at build time.
var (
	Version = upgrade.DevVersion
	Commit  = ""
	Date    = ""
)

var rootCmd = &cobra.Command{
	Use:   "rhinorun [flags] <script>",
	Short: "Run a script in a running Rhino instance",
	Long: `rhinorun sends a script file to a running Rhino through the rhinocode
helper that ships with Rhino 8.

rhinocode is looked up in the directories given by --paths, RHINORUN_PATHS
or installPaths in the config file, then in the default Rhino install
location. When several Rhino instances are running you are asked to pick
one; --pid picks one without asking.`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: applyOutputFlags,
	RunE:              runScript,
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(upgrade.VersionString(Version, Commit, Date) + "\n")

	// --- Persistent flags (available to all subcommands) ---
	pf := rootCmd.PersistentFlags()
	pf.String("paths", "", `Rhino installation directories, ';'-separated (e.g. "/Applications/Rhino 8.app")`)
	pf.String("timeout", "", "Timeout for each rhinocode invocation (default 30s)")
	pf.BoolP("verbose", "v", false, "Show diagnostics (search paths, rhinocode command lines and output)")
	pf.BoolP("quiet", "q", false, "Suppress all output (exit code only)")

	// Display toggles override the config file when set.
	pf.Bool("show-title", false, "Show the active document title in instance labels")
	pf.Bool("show-path", false, "Show the active document location in instance labels")
	pf.Bool("show-viewport", false, "Show the active viewport in instance labels")
	pf.Bool("show-pid", false, "Always show the process id in instance labels")
	pf.Bool("show-age", false, "Show how long ago each instance started")
	pf.Bool("full-version", false, "Show the full Rhino version in instance labels")

	// --- Local flags (root/run command only) ---
	f := rootCmd.Flags()
	f.Int("pid", 0, "Send to the Rhino instance with this process id without prompting")

	// --- Subcommands ---
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(whichCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(uninstallCmd)
}

// applyOutputFlags sets the log level before any command runs.
func applyOutputFlags(cmd *cobra.Command, _ []string) error {
	f := cmd.Flags()
	if quiet, _ := f.GetBool("quiet"); quiet {
		log.EnableQuietMode()
		return nil
	}
	if verbose, _ := f.GetBool("verbose"); verbose {
		log.SetLevel(log.LevelDebug)
	}
	return nil
}

// exitError carries a process exit code for an outcome that has already
// been reported to the user.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Execute runs the root command and exits on error. Ctrl+C cancels any
// running rhinocode invocation and the selection prompt.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err == nil {
		return
	}
	var ee *exitError
	if errors.As(err, &ee) {
		os.Exit(ee.code)
	}
	log.Error(err.Error())
	os.Exit(1)
}
