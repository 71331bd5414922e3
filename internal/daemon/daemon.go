// Package daemon drives a charge monitor from a fixed one-second ticker
// until it is stopped or its context is cancelled.
package daemon

import (
	"context"
	"sync"
	"time"

	"codeberg.org/mutker/battlevel/internal/errors"
	"codeberg.org/mutker/battlevel/internal/eventlog"
	"codeberg.org/mutker/battlevel/internal/logger"
	"codeberg.org/mutker/battlevel/internal/monitor"
)

const (
	TickInterval = time.Second

	StartMessage = "Starting the daemon"
	StopMessage  = "Stopping the daemon"
)

type Daemon struct {
	monitor  *monitor.Monitor
	events   eventlog.Recorder
	log      logger.Logger
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
}

func New(m *monitor.Monitor, events eventlog.Recorder, log logger.Logger) *Daemon {
	return &Daemon{
		monitor:  m,
		events:   events,
		log:      log,
		interval: TickInterval,
	}
}

// Run blocks, ticking the monitor once per interval, until ctx is cancelled
// or Stop is called. It returns an error without ticking if the monitor is
// already running or has been stopped.
func (d *Daemon) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	d.mu.Lock()
	if err := d.monitor.Start(); err != nil {
		d.mu.Unlock()
		return err
	}
	d.cancel = cancel
	d.mu.Unlock()

	d.record(StartMessage)
	d.log.Info().Dur("interval", d.interval).Msg("Daemon started")

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.monitor.Stop()
			d.record(StopMessage)
			d.log.Info().Msg("Daemon stopped")
			return nil
		case <-ticker.C:
			d.monitor.Tick(ctx)
		}
	}
}

// Stop ends a running loop. On a daemon that never ran it only prevents a
// later Run.
func (d *Daemon) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
		return
	}
	d.monitor.Stop()
}

func (d *Daemon) State() monitor.State {
	return d.monitor.State()
}

func (d *Daemon) record(message string) {
	if err := d.events.Append(message); err != nil {
		var appErr errors.Error
		if errors.As(err, &appErr) {
			d.log.ErrorWithCode(appErr).Msg("Error writing to log file")
			return
		}
		d.log.Error().Err(err).Msg("Error writing to log file")
	}
}
