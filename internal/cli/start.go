package cli

import (
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/mutker/battlevel/internal/daemon"
	"codeberg.org/mutker/battlevel/internal/errors"
	"codeberg.org/mutker/battlevel/internal/eventlog"
	"codeberg.org/mutker/battlevel/internal/logger"
	"codeberg.org/mutker/battlevel/internal/monitor"
	"codeberg.org/mutker/battlevel/internal/pid"
	"codeberg.org/mutker/battlevel/internal/power"
)

func newStartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the monitor in the foreground until stopped",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runStart(cmd)
		},
	}
	cmd.Flags().String("source", "", "power source backend: battery, upower")
	return cmd
}

func (a *app) runStart(cmd *cobra.Command) error {
	if err := a.setup(cmd); err != nil {
		return err
	}

	provider, err := power.NewProvider(a.cfg.Source)
	if err != nil {
		return err
	}

	log := logger.Default()
	events := eventlog.New(a.cfg.LogFile)
	m := monitor.New(power.NewSource(provider, log), events, log)
	d := daemon.New(m, events, log)

	pf := pid.New(a.cfg.PIDFile)
	if err := pf.Write(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("source", a.cfg.Source).
		Str("log_file", events.Path()).
		Msg("Starting battlevel")

	runErr := d.Run(ctx)
	return errors.Join(runErr, pf.Remove(), closeProvider(provider))
}

// closeProvider releases backends that hold a connection between samples.
func closeProvider(provider power.Provider) error {
	if c, ok := provider.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
