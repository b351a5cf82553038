package cli

import (
	"fmt"

	"github.com/dgallion1/figport/internal/manifest"
	"github.com/spf13/cobra"
)

// NewManifestCommand matches exported screens against a Next.js app tree.
func NewManifestCommand(d Deps) *cobra.Command {
	var appDir, out string
	cmd := &cobra.Command{
		Use:   "figma-manifest <screens_dir>",
		Short: "Suggest app routes for exported screens",
		Long: `Reads the <slug>.json files written by figma-screens, suggests a route for
each slug and checks whether the app directory already has a page for it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := prepare(cmd, d); err != nil {
				return err
			}
			log := d.Config.Logger(cmd.ErrOrStderr())

			entries, err := manifest.Build(d.FS, args[0], appDir, manifest.DefaultRules())
			if err != nil {
				return err
			}
			missing := 0
			for _, e := range entries {
				if !e.ExistsInProject {
					missing++
					log.Debug("route has no page", "slug", e.Slug, "route", e.SuggestedRoute)
				}
			}
			if err := manifest.Write(d.FS, out, entries); err != nil {
				return err
			}
			log.Info("manifest built", "screens", len(entries), "missing_pages", missing)
			fmt.Fprintf(cmd.OutOrStdout(), "Updated manifest at %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&appDir, "app-dir", "app", "Next.js app directory")
	cmd.Flags().StringVar(&out, "out", "docs/figma_route_manifest.json", "Manifest output path")
	return cmd
}
