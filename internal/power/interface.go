package power

import "context"

// Provider lists the power sources reported by the platform, in the order
// the platform reports them.
type Provider interface {
	Capacities(ctx context.Context) ([]Capacity, error)
}

// Sampler yields the current charge level in percent. It never fails.
type Sampler interface {
	Sample(ctx context.Context) int
}

// Capacity is one power source's reading. Units are whatever the platform
// uses (mWh, mAh); only the ratio matters.
type Capacity struct {
	Current    int64
	Max        int64
	HasCurrent bool
	HasMax     bool
}

// Usable reports whether the reading can produce a percentage.
func (c Capacity) Usable() bool {
	return c.HasCurrent && c.HasMax && c.Max > 0
}
