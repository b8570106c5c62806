package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Println("Application error:", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := newOptions()

	cmd := &cobra.Command{
		Use:           "fdedup PATHS...",
		Short:         "Find and deduplicate identical files",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return runFdedup(args, opts)
		},
	}

	opts.bindFlags(cmd.Flags())

	return cmd
}
