package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/sungur/rhinorun/internal/config"
	"github.com/sungur/rhinorun/internal/log"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove rhinorun's global configuration",
	Long: `Removes the global config directory (~/.rhinorun/).

Project config files next to your scripts are left alone. The binary
itself cannot be removed automatically; its location is printed so you
can remove it manually.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		dir := config.GlobalDir()
		if dir == "" {
			return fmt.Errorf("could not determine the home directory")
		}

		if !yes {
			fmt.Fprintf(cmd.ErrOrStderr(), "Remove %s? [y/N] ", dir)
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.TrimSpace(answer); a != "y" && a != "Y" {
				log.Info("Aborted.")
				return nil
			}
		}

		if err := removeConfigDir(dir); err != nil {
			return err
		}
		log.Success("Uninstall complete")

		if exe, err := os.Executable(); err == nil {
			log.Dim(fmt.Sprintf("To remove the binary: rm %s", exe))
		}
		return nil
	},
}

func init() {
	uninstallCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

// removeConfigDir removes the global config directory. A missing directory
// is not an error.
func removeConfigDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		log.Dim("Nothing to remove: " + dir)
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove config directory %s: %w", dir, err)
	}
	return nil
}
