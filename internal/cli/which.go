package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sungur/rhinorun/internal/log"
	"github.com/sungur/rhinorun/internal/run"
)

var whichCmd = &cobra.Command{
	Use:   "which",
	Short: "Show which rhinocode binary would be used",
	Long: `Resolves rhinocode the same way a run does and prints its path and
version. With --verbose every searched directory is shown.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, _ := os.Getwd()
		s, err := loadSettings(cmd.Flags(), cwd)
		if err != nil {
			return err
		}

		res := run.Resolve(cmd.Context(), s.pipelineOptions())
		if res.Binary == nil {
			return report(&res)
		}

		b := res.Binary
		fmt.Fprintln(cmd.OutOrStdout(), b.Path)
		if b.Compatible {
			log.Dim(fmt.Sprintf("rhinocode %s (requires %s or newer)", b.Version, b.Required))
			return nil
		}
		return report(&res)
	},
}
