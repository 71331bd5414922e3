package logger

import "codeberg.org/mutker/battlevel/internal/errors"

// Logger is the subset of the package API that components take as a
// dependency.
type Logger interface {
	Debug() *LogEvent
	Info() *LogEvent
	Warn() *LogEvent
	Error() *LogEvent
	ErrorWithCode(err errors.Error) *LogEvent
}

type global struct{}

// Default returns a Logger backed by the package-level logger.
func Default() Logger {
	return global{}
}

func (global) Debug() *LogEvent { return Debug() }

func (global) Info() *LogEvent { return Info() }

func (global) Warn() *LogEvent { return Warn() }

func (global) Error() *LogEvent { return Error() }

func (global) ErrorWithCode(err errors.Error) *LogEvent { return ErrorWithCode(err) }
