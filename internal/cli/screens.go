package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dgallion1/figport/internal/figma"
	"github.com/dgallion1/figport/internal/report"
	"github.com/dgallion1/figport/internal/screens"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type screensOptions struct {
	types        string
	skipRegex    string
	noStripHeavy bool
	report       bool
	title        string
}

// NewScreensCommand splits CANVAS children into per-screen JSON files.
func NewScreensCommand(d Deps) *cobra.Command {
	opts := screensOptions{}
	cmd := &cobra.Command{
		Use:   "figma-screens <input_json_path> <output_dir_path>",
		Short: "Split Figma CANVAS children into separate JSON files",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := prepare(cmd, d); err != nil {
				return err
			}
			return runScreens(cmd, d, opts, args[0], args[1])
		},
	}

	bindScreensFlags(cmd.Flags(), &opts, d)
	return cmd
}

func bindScreensFlags(flags *pflag.FlagSet, opts *screensOptions, d Deps) {
	flags.StringVar(&opts.types, "types", d.Config.ScreenTypes,
		"Comma-separated node types to export")
	flags.StringVar(&opts.skipRegex, "skip-name-regex", d.Config.SkipNameRegex,
		"Case-insensitive pattern of names to skip; empty disables skipping")
	flags.BoolVar(&opts.noStripHeavy, "no-strip-heavy", !d.Config.StripHeavy,
		"Keep heavy keys (absoluteRenderBounds)")
	flags.BoolVar(&opts.report, "report", false,
		"Also write report.md and report.html")
	flags.StringVar(&opts.title, "title", "",
		"Report title (defaults to the input file name)")
}

func runScreens(cmd *cobra.Command, d Deps, opts screensOptions, in, outDir string) error {
	log := d.Config.Logger(cmd.ErrOrStderr())

	cfg := screens.DefaultConfig()
	cfg.Types = screens.ParseTypes(opts.types)
	re, err := screens.CompileSkipPattern(opts.skipRegex)
	if err != nil {
		return err
	}
	cfg.SkipName = re
	cfg.StripHeavy = !opts.noStripHeavy

	doc, err := figma.Load(d.FS, in)
	if err != nil {
		return err
	}

	index, err := screens.Export(d.FS, doc, outDir, cfg, cmd.ErrOrStderr(), log)
	if err != nil {
		return err
	}

	if opts.report {
		title := opts.title
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		}
		if err := report.Write(d.FS, outDir, title, index); err != nil {
			return err
		}
		log.Info("report written", "dir", outDir)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Index: %s  (total %d screen(s))\n",
		filepath.Join(outDir, screens.IndexFile), len(index))
	return nil
}
