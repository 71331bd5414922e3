package errors

// Common error codes
const (
	// System errors
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrUnavailable     ErrorCode = "service_unavailable"

	// Configuration errors
	ErrInvalidConfig ErrorCode = "invalid_configuration"
	ErrBindFlags     ErrorCode = "bind_flags_failed"
	ErrReadConfig    ErrorCode = "read_config_failed"
	ErrInvalidSource ErrorCode = "invalid_power_source"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"
	ErrEventLogWrite   ErrorCode = "event_log_write_failed"

	// Lifecycle errors
	ErrAlreadyRunning ErrorCode = "already_running"
	ErrNotRunning     ErrorCode = "not_running"
	ErrStopped        ErrorCode = "monitor_stopped"
	ErrPIDFile        ErrorCode = "pid_file_failed"

	// Operation errors
	ErrPowerQuery    ErrorCode = "power_query_failed"
	ErrCommandFailed ErrorCode = "command_failed"
	ErrTimeout       ErrorCode = "operation_timeout"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInvalidArgument: "Invalid argument provided",
	ErrUnavailable:     "Service unavailable",
	ErrInvalidConfig:   "Invalid configuration",
	ErrBindFlags:       "Failed to bind flags",
	ErrReadConfig:      "Failed to read configuration",
	ErrInvalidSource:   "Unknown power source",
	ErrInvalidLogLevel: "Invalid log level",
	ErrEventLogWrite:   "Failed to write event log",
	ErrAlreadyRunning:  "Daemon is already running",
	ErrNotRunning:      "Daemon is not running",
	ErrStopped:         "Monitor has been stopped",
	ErrPIDFile:         "PID file operation failed",
	ErrPowerQuery:      "Failed to query power sources",
	ErrCommandFailed:   "External command failed",
	ErrTimeout:         "Operation timed out",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
