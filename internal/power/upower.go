package power

import (
	"context"
	"sync"

	"codeberg.org/mutker/battlevel/internal/errors"
	godbus "github.com/godbus/dbus/v5"
)

const (
	upowerBusName     = "org.freedesktop.UPower"
	upowerObjPath     = "/org/freedesktop/UPower"
	upowerEnumerate   = "org.freedesktop.UPower.EnumerateDevices"
	upowerDeviceIface = "org.freedesktop.UPower.Device"
	propertiesGet     = "org.freedesktop.DBus.Properties.Get"

	// UPower reports energy in Wh as doubles.
	whToMWh = 1000
)

// deviceBus is the slice of the system bus the UPower provider uses.
type deviceBus interface {
	Devices(ctx context.Context) ([]godbus.ObjectPath, error)
	Property(ctx context.Context, device godbus.ObjectPath, name string) (godbus.Variant, error)
	Close() error
}

type upowerProvider struct {
	connect func() (deviceBus, error)

	mu  sync.Mutex
	bus deviceBus
}

// NewUPowerProvider reads devices from the UPower daemon on the system bus.
// The connection is kept between queries and redialed after a bus failure.
func NewUPowerProvider() Provider {
	return &upowerProvider{connect: dialSystemBus}
}

func (p *upowerProvider) Capacities(ctx context.Context) ([]Capacity, error) {
	errFactory := errors.New()

	p.mu.Lock()
	defer p.mu.Unlock()

	bus, err := p.acquire(ctx)
	if err != nil {
		return nil, err
	}

	devices, err := bus.Devices(ctx)
	if err != nil {
		p.drop()
		return nil, errFactory.Wrap(ErrPowerQuery, err)
	}
	if len(devices) == 0 {
		return nil, errFactory.New(ErrNoPowerSource)
	}

	readings := make([]Capacity, 0, len(devices))
	for _, device := range devices {
		var c Capacity
		c.Current, c.HasCurrent = energyProperty(ctx, bus, device, "Energy")
		c.Max, c.HasMax = energyProperty(ctx, bus, device, "EnergyFull")
		readings = append(readings, c)
	}

	return readings, nil
}

// Close releases the cached bus connection.
func (p *upowerProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bus == nil {
		return nil
	}
	err := p.bus.Close()
	p.bus = nil
	return err
}

// acquire returns the cached connection or dials a new one within ctx's
// deadline. A dial that completes after the deadline is closed. Callers
// hold p.mu.
func (p *upowerProvider) acquire(ctx context.Context) (deviceBus, error) {
	if p.bus != nil {
		return p.bus, nil
	}

	type result struct {
		bus deviceBus
		err error
	}

	done := make(chan result, 1)
	go func() {
		bus, err := p.connect()
		done <- result{bus, err}
	}()

	select {
	case <-ctx.Done():
		go func() {
			if r := <-done; r.bus != nil {
				_ = r.bus.Close()
			}
		}()
		return nil, errors.New().Wrap(errors.ErrTimeout, ctx.Err())
	case r := <-done:
		if r.err != nil {
			return nil, errors.New().Wrap(errors.ErrUnavailable, r.err)
		}
		p.bus = r.bus
		return p.bus, nil
	}
}

func (p *upowerProvider) drop() {
	if p.bus != nil {
		_ = p.bus.Close()
		p.bus = nil
	}
}

func energyProperty(ctx context.Context, bus deviceBus, device godbus.ObjectPath, name string) (int64, bool) {
	v, err := bus.Property(ctx, device, name)
	if err != nil {
		return 0, false
	}
	wh, ok := v.Value().(float64)
	if !ok {
		return 0, false
	}
	return int64(wh * whToMWh), true
}

type systemBus struct {
	conn *godbus.Conn
}

func dialSystemBus() (deviceBus, error) {
	conn, err := godbus.ConnectSystemBus()
	if err != nil {
		return nil, err
	}
	return &systemBus{conn: conn}, nil
}

func (b *systemBus) Devices(ctx context.Context) ([]godbus.ObjectPath, error) {
	var paths []godbus.ObjectPath
	obj := b.conn.Object(upowerBusName, upowerObjPath)
	if err := obj.CallWithContext(ctx, upowerEnumerate, 0).Store(&paths); err != nil {
		return nil, err
	}
	return paths, nil
}

func (b *systemBus) Property(ctx context.Context, device godbus.ObjectPath, name string) (godbus.Variant, error) {
	var v godbus.Variant
	obj := b.conn.Object(upowerBusName, device)
	err := obj.CallWithContext(ctx, propertiesGet, 0, upowerDeviceIface, name).Store(&v)
	return v, err
}

func (b *systemBus) Close() error {
	return b.conn.Close()
}
