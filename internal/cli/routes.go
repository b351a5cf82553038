package cli

import (
	"fmt"

	"github.com/dgallion1/figport/internal/routemap"
	"github.com/spf13/cobra"
)

// NewRoutesCommand writes the route map CSV of a design document.
func NewRoutesCommand(d Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "figma-routes <input_json_path> <output_csv_path>",
		Short: "Generate a route map CSV from a Figma document export",
		Long: `Walks every node of the document and emits one route per unique FRAME,
COMPONENT or COMPONENT_SET name. Names starting with "home" map to "/".`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := prepare(cmd, d); err != nil {
				return err
			}
			log := d.Config.Logger(cmd.ErrOrStderr())

			in, out := args[0], args[1]
			n, err := routemap.Run(d.FS, in, out, routemap.DefaultConfig(), log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d routes → %s\n", n, out)
			return nil
		},
	}
}
