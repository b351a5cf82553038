// Package cli builds the figport commands. Commands run against an afero.Fs
// and the writers configured on the cobra command so they can be exercised
// in memory.
package cli

import (
	"github.com/dgallion1/figport/internal/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// Deps are shared by every command.
type Deps struct {
	FS     afero.Fs
	Config config.Config
}

// OS returns dependencies backed by the real filesystem and environment.
func OS() Deps {
	return Deps{FS: afero.NewOsFs(), Config: config.Load()}
}

// prepare silences usage once arguments are valid and checks the config.
func prepare(cmd *cobra.Command, d Deps) error {
	cmd.SilenceUsage = true
	return d.Config.Validate()
}
