package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sungur/rhinorun/internal/run"
)

// instanceJSON is the "list --json" output record. Keys match the ones
// rhinocode itself uses; processAge is left out when rhinocode omitted it.
type instanceJSON struct {
	Label          string `json:"label"`
	ProcessID      int    `json:"processId"`
	PipeID         string `json:"pipeId"`
	ProcessName    string `json:"processName"`
	ProcessVersion string `json:"processVersion"`
	ProcessAge     *int   `json:"processAge,omitempty"`
	ActiveDoc      struct {
		Title    string `json:"title"`
		Location string `json:"location"`
	} `json:"activeDoc"`
	ActiveViewport string `json:"activeViewport"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List running Rhino instances",
	Long: `Lists the running Rhino instances rhinocode can reach, one label per
line, in the order the selection prompt shows them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, _ := os.Getwd()
		s, err := loadSettings(cmd.Flags(), cwd)
		if err != nil {
			return err
		}

		entries, res := run.List(cmd.Context(), s.pipelineOptions())
		if res.Err != nil {
			return report(&res)
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			records := make([]instanceJSON, len(entries))
			for i, e := range entries {
				r := &records[i]
				r.Label = e.Label
				r.ProcessID = e.Instance.ProcessID
				r.PipeID = e.Instance.PipeID
				r.ProcessName = e.Instance.ProcessName
				r.ProcessVersion = e.Instance.ProcessVersion
				if !e.Instance.AgeUnknown {
					age := e.Instance.ProcessAge
					r.ProcessAge = &age
				}
				r.ActiveDoc.Title = e.Instance.Document.Title
				r.ActiveDoc.Location = e.Instance.Document.Location
				r.ActiveViewport = e.Instance.ActiveViewport
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		}

		for _, e := range entries {
			fmt.Fprintln(out, e.Label)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().Bool("json", false, "Print instances as JSON")
}
