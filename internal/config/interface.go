package config

import "github.com/spf13/pflag"

const (
	// DefaultEnvPrefix prefixes environment overrides, e.g. BATTLEVEL_LOG_FILE.
	DefaultEnvPrefix = "BATTLEVEL"

	// ConfigEnv names an explicit config file when no --config flag is given.
	ConfigEnv = "BATTLEVEL_CONFIG"

	configName = "battlevel"
	configType = "toml"
)

// Option defines a configuration option that can be passed to Load
type Option func(*options) error

// options holds internal configuration options
type options struct {
	configPath  string
	flags       *pflag.FlagSet
	searchPaths []string
}

// WithConfigFile specifies an explicit configuration file path
func WithConfigFile(path string) Option {
	return func(o *options) error {
		o.configPath = path
		return nil
	}
}

// WithFlags binds command line flags; only flags the user set override
// file and environment values.
func WithFlags(fs *pflag.FlagSet) Option {
	return func(o *options) error {
		o.flags = fs
		return nil
	}
}

// WithSearchPaths replaces the directories searched for battlevel.toml.
func WithSearchPaths(paths ...string) Option {
	return func(o *options) error {
		o.searchPaths = paths
		return nil
	}
}

// LogLevel represents valid logging levels
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// IsValid returns whether the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		return true
	default:
		return false
	}
}

// String implements the Stringer interface
func (l LogLevel) String() string {
	return string(l)
}
