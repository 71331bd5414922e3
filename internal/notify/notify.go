// Package notify posts a payload to a target through an external HTTP
// client command. Nothing calls it automatically.
package notify

import (
	"context"
	"fmt"
	"os/exec"

	"codeberg.org/mutker/battlevel/internal/errors"
	"codeberg.org/mutker/battlevel/internal/eventlog"
	"codeberg.org/mutker/battlevel/internal/logger"
)

const DefaultCommand = "curl"

type Runner struct {
	command string
	events  eventlog.Recorder
	log     logger.Logger
}

func New(command string, events eventlog.Recorder, log logger.Logger) *Runner {
	if command == "" {
		command = DefaultCommand
	}
	return &Runner{command: command, events: events, log: log}
}

// Run records the invocation, then runs "<command> -X POST -d payload target"
// and waits for it. The payload is passed as one argument, never through a
// shell.
func (r *Runner) Run(ctx context.Context, target, payload string) error {
	errFactory := errors.New()

	if target == "" {
		return errFactory.WithMessage(errors.ErrInvalidArgument, "target must not be empty")
	}

	msg := fmt.Sprintf("Sending curl command to %s with parameters: %s", target, payload)
	if err := r.events.Append(msg); err != nil {
		r.log.Error().Err(err).Msg("Error writing to log file")
	}

	cmd := exec.CommandContext(ctx, r.command, Args(target, payload)...)
	r.log.Debug().Str("command", cmd.String()).Msg("Running notification command")

	if err := cmd.Run(); err != nil {
		return errFactory.WithData(errors.ErrCommandFailed, struct {
			Command string
			Error   string
		}{
			Command: r.command,
			Error:   err.Error(),
		})
	}

	return nil
}

// Args builds the client arguments for a POST of payload to target.
func Args(target, payload string) []string {
	return []string{"-X", "POST", "-d", payload, target}
}
