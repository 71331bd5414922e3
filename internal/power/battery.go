package power

import (
	"context"

	"codeberg.org/mutker/battlevel/internal/errors"
	"github.com/distatus/battery"
)

type batteryProvider struct {
	getAll func() ([]*battery.Battery, error)
}

// NewBatteryProvider reads batteries through the platform APIs wrapped by
// github.com/distatus/battery.
func NewBatteryProvider() Provider {
	return &batteryProvider{getAll: battery.GetAll}
}

func (p *batteryProvider) Capacities(ctx context.Context) ([]Capacity, error) {
	type result struct {
		batteries []*battery.Battery
		err       error
	}

	// GetAll takes no context; run it aside so a stalled query cannot hold
	// the caller past its deadline.
	done := make(chan result, 1)
	go func() {
		batteries, err := p.getAll()
		done <- result{batteries, err}
	}()

	select {
	case <-ctx.Done():
		return nil, errors.New().Wrap(errors.ErrTimeout, ctx.Err())
	case r := <-done:
		return batteryCapacities(r.batteries, r.err)
	}
}

// batteryCapacities converts library results. A battery.Errors value is a
// partial failure: only the entries with an error lose their fields.
func batteryCapacities(batteries []*battery.Battery, err error) ([]Capacity, error) {
	partial, isPartial := err.(battery.Errors)
	if err != nil && !isPartial {
		return nil, errors.New().Wrap(ErrPowerQuery, err)
	}
	if len(batteries) == 0 {
		return nil, errors.New().New(ErrNoPowerSource)
	}

	readings := make([]Capacity, 0, len(batteries))
	for i, bat := range batteries {
		if bat == nil {
			readings = append(readings, Capacity{})
			continue
		}
		if isPartial && i < len(partial) && partial[i] != nil {
			readings = append(readings, partialCapacity(bat, partial[i]))
			continue
		}
		readings = append(readings, Capacity{
			Current:    int64(bat.Current),
			Max:        int64(bat.Full),
			HasCurrent: true,
			HasMax:     true,
		})
	}

	return readings, nil
}

func partialCapacity(bat *battery.Battery, err error) Capacity {
	perr, ok := err.(battery.ErrPartial)
	if !ok {
		return Capacity{}
	}
	return Capacity{
		Current:    int64(bat.Current),
		Max:        int64(bat.Full),
		HasCurrent: perr.Current == nil,
		HasMax:     perr.Full == nil,
	}
}
