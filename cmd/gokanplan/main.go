// Package main is the gokanplan command-line front end: a thin wrapper
// over internal/planner with no domain logic of its own, present because
// a repository needs a runnable entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string
var debugFlag bool

var rootCmd = &cobra.Command{
	Use:   "gokanplan",
	Short: "gokanplan runs classical/numeric planning problems to a plan or a proof of unsolvability",
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug-level search tracing")
	rootCmd.AddCommand(solveCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
