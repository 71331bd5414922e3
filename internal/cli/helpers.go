package cli

import (
	"github.com/spf13/cobra"

	"codeberg.org/mutker/battlevel/internal/config"
	"codeberg.org/mutker/battlevel/internal/logger"
)

// app carries state shared by the subcommands.
type app struct {
	configPath string
	cfg        *config.Config
}

// setup loads configuration for cmd and initializes diagnostic logging.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(
		config.WithConfigFile(a.configPath),
		config.WithFlags(cmd.Flags()),
	)
	if err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.Init(level, logger.IsService())
	logger.Debug().
		Str("log_file", cfg.LogFile).
		Str("pid_file", cfg.PIDFile).
		Str("source", cfg.Source).
		Msg("Config loaded")

	a.cfg = cfg
	return nil
}
