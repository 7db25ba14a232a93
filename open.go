package ili9481

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// DeviceContext names the bus and pins a device is opened with.
//
// Pin names are resolved through gpioreg, the bus name through spireg.
type DeviceContext struct {
	Bus   string           // SPI port; empty selects the default port
	SCK   string           // Optional, checked against the port
	CS    string           // Driven as a GPIO
	TX    string           // Optional, checked against the port
	RX    string           // Optional, checked against the port
	Clock physic.Frequency // Overrides Opts.Clock when set
	RST   string
	DC    string
}

// Open resolves ctx, opens its SPI port and brings the panel up.
//
// The port is owned by the returned device and closed by Close. A name that
// is empty or unknown, or a clock, data-out or data-in pin that doesn't match
// the port's own wiring, yields ErrConfig. A port that fails to open yields
// ErrDevice.
func Open(ctx DeviceContext, opts *Opts) (*Dev, error) {
	cs, err := pinByName("chip-select", ctx.CS)
	if err != nil {
		return nil, err
	}
	dc, err := pinByName("data/command", ctx.DC)
	if err != nil {
		return nil, err
	}
	rst, err := pinByName("reset", ctx.RST)
	if err != nil {
		return nil, err
	}

	port, err := spireg.Open(ctx.Bus)
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %w", ErrDevice, ctx.Bus, err)
	}
	if err := checkBusPins(port, ctx); err != nil {
		port.Close()
		return nil, err
	}

	o := Opts{}
	if opts != nil {
		o = *opts
	}
	if ctx.Clock != 0 {
		o.Clock = ctx.Clock
	}
	d, err := NewSPI(port, cs, dc, rst, &o)
	if err != nil {
		port.Close()
		return nil, err
	}
	d.ctx = ctx
	d.closer = port
	return d, nil
}

func pinByName(role, name string) (gpio.PinIO, error) {
	if name == "" {
		return nil, fmt.Errorf("ili9481: %s pin is required: %w", role, ErrConfig)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("ili9481: unknown %s pin %q: %w", role, name, ErrConfig)
	}
	return p, nil
}

// checkBusPins verifies the optional SCK, TX and RX names against the pins
// the port reports. Ports that don't implement spi.Pins are not checked.
func checkBusPins(port spi.Port, ctx DeviceContext) error {
	pins, ok := port.(spi.Pins)
	if !ok {
		return nil
	}
	for _, c := range []struct {
		role string
		name string
		got  pin.Pin
	}{
		{"clock", ctx.SCK, pins.CLK()},
		{"data-out", ctx.TX, pins.MOSI()},
		{"data-in", ctx.RX, pins.MISO()},
	} {
		if c.name == "" {
			continue
		}
		want, err := pinByName(c.role, c.name)
		if err != nil {
			return err
		}
		if c.got == nil || c.got.Number() != want.Number() {
			return fmt.Errorf("ili9481: %s pin %s is not wired to port %s (uses %v): %w", c.role, want, port, c.got, ErrConfig)
		}
	}
	return nil
}
