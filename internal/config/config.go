package config

import (
	"os"
	"strings"

	"codeberg.org/mutker/battlevel/internal/errors"
	"codeberg.org/mutker/battlevel/internal/eventlog"
	"codeberg.org/mutker/battlevel/internal/notify"
	"codeberg.org/mutker/battlevel/internal/pid"
	"codeberg.org/mutker/battlevel/internal/power"
	"github.com/spf13/viper"
)

const DefaultLogLevel = string(LogLevelWarning)

type Config struct {
	LogFile       string `mapstructure:"log_file"`
	PIDFile       string `mapstructure:"pid_file"`
	Source        string `mapstructure:"source"`
	LogLevel      string `mapstructure:"log_level"`
	NotifyCommand string `mapstructure:"notify_command"`
}

// flagKeys maps command line flag names onto configuration keys.
var flagKeys = map[string]string{
	"log-level":      "log_level",
	"log-file":       "log_file",
	"pid-file":       "pid_file",
	"source":         "source",
	"notify-command": "notify_command",
}

// Load merges defaults, the TOML config file, environment variables and
// flags, in increasing order of priority, and validates the result.
func Load(opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := &options{
		searchPaths: []string{"/etc", "."},
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	v := viper.New()
	v.SetDefault("log_file", eventlog.DefaultPath)
	v.SetDefault("pid_file", pid.DefaultPath())
	v.SetDefault("source", power.BackendBattery)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("notify_command", notify.DefaultCommand)

	v.SetEnvPrefix(DefaultEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if o.flags != nil {
		for name, key := range flagKeys {
			f := o.flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errFactory.Wrap(errors.ErrBindFlags, err)
			}
		}
	}

	if err := readConfigFile(v, o); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func readConfigFile(v *viper.Viper, o *options) error {
	errFactory := errors.New()

	path := o.configPath
	if path == "" {
		path = os.Getenv(ConfigEnv)
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType(configType)
		if err := v.ReadInConfig(); err != nil {
			return errFactory.Wrap(errors.ErrReadConfig, err)
		}
		return nil
	}

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	for _, dir := range o.searchPaths {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	return nil
}

// Validate checks paths, the power backend and the log level.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if strings.TrimSpace(c.LogFile) == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "log_file must not be empty")
	}
	if strings.TrimSpace(c.PIDFile) == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "pid_file must not be empty")
	}
	if strings.TrimSpace(c.NotifyCommand) == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "notify_command must not be empty")
	}
	if !validSource(c.Source) {
		return errFactory.WithData(errors.ErrInvalidSource, c.Source)
	}
	if !LogLevel(strings.ToLower(c.LogLevel)).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	return nil
}

func validSource(name string) bool {
	for _, b := range power.Backends() {
		if name == b {
			return true
		}
	}
	return false
}
