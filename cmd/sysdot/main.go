package main

import (
	"os"

	"github.com/arthur-debert/sysdot/internal/cli"
	"github.com/arthur-debert/sysdot/pkg/output"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		output.NewRenderer(os.Stderr).Error(err)
		os.Exit(1)
	}
}
