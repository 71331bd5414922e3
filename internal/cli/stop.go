package cli

import (
	"fmt"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/mutker/battlevel/internal/errors"
	"codeberg.org/mutker/battlevel/internal/logger"
	"codeberg.org/mutker/battlevel/internal/pid"
)

func newStopCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop a running daemon",
		Long:  `stop sends SIGTERM to the daemon recorded in the PID file. The daemon
writes "Stopping the daemon" to its event log as it exits. When no daemon is
running, stop prints a notice and leaves the event log untouched.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runStop(cmd)
		},
	}
}

// runStop signals the daemon named in the PID file. The daemon itself
// writes the stop event when it winds down.
func (a *app) runStop(cmd *cobra.Command) error {
	if err := a.setup(cmd); err != nil {
		return err
	}

	pf := pid.New(a.cfg.PIDFile)
	target, err := pf.Signal(syscall.SIGTERM)
	if errors.HasCode(err, errors.ErrNotRunning) {
		logger.Warn().Str("pid_file", pf.Path()).Msg("Daemon is not running")
		fmt.Fprintln(cmd.OutOrStdout(), "Daemon is not running.")
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info().Int("pid", target).Msg("Stop signal sent")
	return nil
}
