// Package power turns platform power-source readings into a charge
// percentage.
package power

import (
	"context"
	"time"

	"codeberg.org/mutker/battlevel/internal/errors"
	"codeberg.org/mutker/battlevel/internal/logger"
)

const (
	// SampleTimeout bounds a single platform query; it has to stay well
	// under the tick interval.
	SampleTimeout = 500 * time.Millisecond

	BackendBattery = "battery"
	BackendUPower  = "upower"
)

// Percentage returns current*100/max of the last usable reading, or 0 when
// none is usable.
func Percentage(readings []Capacity) int {
	pct := 0
	for _, r := range readings {
		if !r.Usable() {
			continue
		}
		pct = int(r.Current * 100 / r.Max)
	}
	return pct
}

// Source adapts a Provider to the Sampler contract: any provider failure
// degrades to a 0% sample.
type Source struct {
	provider Provider
	log      logger.Logger
	timeout  time.Duration
}

func NewSource(provider Provider, log logger.Logger) *Source {
	return &Source{provider: provider, log: log, timeout: SampleTimeout}
}

func (s *Source) Sample(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	readings, err := s.provider.Capacities(ctx)
	if err != nil {
		s.log.Debug().Err(err).Msg("Didn't get battery information")
		return 0
	}

	return Percentage(readings)
}

// NewProvider returns the provider for a configured backend name.
func NewProvider(backend string) (Provider, error) {
	switch backend {
	case "", BackendBattery:
		return NewBatteryProvider(), nil
	case BackendUPower:
		return NewUPowerProvider(), nil
	default:
		return nil, errors.New().WithData(ErrInvalidSource, backend)
	}
}

// Backends lists the accepted backend names.
func Backends() []string {
	return []string{BackendBattery, BackendUPower}
}
