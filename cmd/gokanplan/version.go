package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags "-X main.version=...";
// "dev" is the unreleased-checkout default.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the gokanplan version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), "gokanplan "+version)
		return nil
	},
}
