package main

import (
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "v0.1.0"

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	config  string
	verbose bool
}

// newRootCmd builds a fresh command tree, so flag state never leaks between
// executions.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "lptbench",
		Short:         "lptbench drives concurrent workloads against lptable",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.config, "config", "", "YAML workload file (keys as in run flags, with underscores)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log progress and resizes to stderr")

	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("lptbench " + version)
		},
	}
}
