package cli

import (
	"github.com/spf13/cobra"

	"codeberg.org/mutker/battlevel/internal/eventlog"
	"codeberg.org/mutker/battlevel/internal/logger"
	"codeberg.org/mutker/battlevel/internal/notify"
)

func newNotifyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify TARGET PAYLOAD",
		Short: "POST a payload to TARGET with the configured HTTP client",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			runner := notify.New(a.cfg.NotifyCommand, eventlog.New(a.cfg.LogFile), logger.Default())
			return runner.Run(cmd.Context(), args[0], args[1])
		},
	}
	cmd.Flags().String("notify-command", "", "HTTP client executable (default curl)")
	return cmd
}
