package main

import (
	"os"

	"github.com/dgallion1/figport/internal/cli"
)

func main() {
	if err := cli.NewRoutesCommand(cli.OS()).Execute(); err != nil {
		os.Exit(1)
	}
}
