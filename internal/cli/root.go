// Package cli implements the battlevel command line: start, stop and the
// notify utility.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	usageNoArgument      = "No argument provided. Use start or stop."
	usageUnknownArgument = "Unknown argument. Use start or stop."
)

// NewRootCommand assembles the command tree.
func NewRootCommand(version string) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "battlevel",
		Short: "Log battery charge level changes",
		Long: `battlevel samples the battery charge once per second and appends a line
to its event log every time the level changes.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), usageNoArgument)
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), usageUnknownArgument)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	// Anything that is not a known command, including unknown flags and
	// help requests, gets the usage line and a zero exit.
	printUnknown := func(cmd *cobra.Command) {
		fmt.Fprintln(cmd.OutOrStdout(), usageUnknownArgument)
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, _ error) error {
		printUnknown(cmd)
		return nil
	})
	root.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		printUnknown(cmd)
	})
	root.SetHelpCommand(&cobra.Command{
		Use:    "help",
		Hidden: true,
		Args:   cobra.ArbitraryArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printUnknown(cmd)
		},
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to battlevel.toml")
	pf.String("log-level", "", "diagnostic log level: debug, info, warning, error")
	pf.String("log-file", "", "event log path (default daemon.log)")
	pf.String("pid-file", "", "PID file used by start and stop")

	root.AddCommand(newStartCmd(a), newStopCmd(a), newNotifyCmd(a))

	return root
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	if err := NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
