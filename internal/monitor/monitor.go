// Package monitor holds the charge-level state machine: it samples a power
// source on each tick and records an event when the level changes.
package monitor

import (
	"context"
	"fmt"
	"sync"

	"codeberg.org/mutker/battlevel/internal/errors"
	"codeberg.org/mutker/battlevel/internal/eventlog"
	"codeberg.org/mutker/battlevel/internal/logger"
	"codeberg.org/mutker/battlevel/internal/power"
)

type State int

const (
	Unstarted State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Unstarted:
		return "unstarted"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Level is the last observed charge level; Known is false until the first
// sample.
type Level struct {
	Percent int
	Known   bool
}

type Monitor struct {
	source power.Sampler
	events eventlog.Recorder
	log    logger.Logger

	mu    sync.Mutex
	state State
	last  Level
}

func New(source power.Sampler, events eventlog.Recorder, log logger.Logger) *Monitor {
	return &Monitor{source: source, events: events, log: log}
}

// Start moves an unstarted monitor to Running. A monitor runs at most once.
func (m *Monitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case Running:
		return errors.New().New(errors.ErrAlreadyRunning)
	case Stopped:
		return errors.New().New(errors.ErrStopped)
	}
	m.state = Running

	return nil
}

// Stop moves the monitor to Stopped and reports whether it was running.
func (m *Monitor) Stop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	wasRunning := m.state == Running
	m.state = Stopped

	return wasRunning
}

func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Monitor) Last() Level {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Tick samples the source once and records the level if it is the first
// sample or differs from the previous one. It does nothing unless Running.
func (m *Monitor) Tick(ctx context.Context) {
	if m.State() != Running {
		return
	}

	level := m.source.Sample(ctx)

	m.mu.Lock()
	changed := !m.last.Known || m.last.Percent != level
	if changed {
		m.last = Level{Percent: level, Known: true}
	}
	m.mu.Unlock()

	if !changed {
		return
	}

	m.log.Debug().Int("level", level).Msg("Charge level changed")
	if err := m.events.Append(ChargeMessage(level)); err != nil {
		m.reportWriteError(err)
	}
}

func (m *Monitor) reportWriteError(err error) {
	var appErr errors.Error
	if errors.As(err, &appErr) {
		m.log.ErrorWithCode(appErr).Msg("Error writing to log file")
		return
	}
	m.log.Error().Err(err).Msg("Error writing to log file")
}

// ChargeMessage is the event text for a charge level.
func ChargeMessage(level int) string {
	return fmt.Sprintf("Battery charge level %d%%", level)
}
