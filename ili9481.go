package ili9481

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"time"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/ili9481/rgb666"
	"tinygo.org/x/drivers"
)

var (
	// ErrConfig reports a missing or invalid pin assignment or option.
	ErrConfig = errors.New("ili9481: invalid configuration")
	// ErrDevice reports a bus that could not be opened or brought up.
	ErrDevice = errors.New("ili9481: device bring-up failed")

	errHalted = errors.New("ili9481: halted")
)

// Native panel size in portrait orientation.
const (
	Width  = 320
	Height = 480
)

// Hardware reset timing.
const (
	resetHold   = 5 * time.Millisecond
	resetPulse  = 15 * time.Millisecond
	resetSettle = 150 * time.Millisecond
)

// Rotation selects the panel orientation.
type Rotation uint8

const (
	Portrait          Rotation = iota // 320x480
	Landscape                         // 480x320
	InvertedPortrait                  // 320x480
	InvertedLandscape                 // 480x320
)

func (r Rotation) String() string {
	switch r {
	case Portrait:
		return "Portrait"
	case Landscape:
		return "Landscape"
	case InvertedPortrait:
		return "InvertedPortrait"
	case InvertedLandscape:
		return "InvertedLandscape"
	}
	return fmt.Sprintf("Rotation(%d)", uint8(r))
}

func (r Rotation) valid() bool {
	return r <= InvertedLandscape
}

// AddressMode returns the address mode register value programmed for r.
func (r Rotation) AddressMode() byte {
	switch r {
	case Landscape:
		return AddrBGR | AddrSwapPageColumn
	case InvertedPortrait:
		return AddrBGR | AddrFlipVertical
	case InvertedLandscape:
		return AddrBGR | AddrSwapPageColumn | AddrFlipHorizontal
	}
	return AddrBGR | AddrFlipHorizontal
}

// Bounds returns the logical drawing area in orientation r.
func (r Rotation) Bounds() Rect {
	if r == Landscape || r == InvertedLandscape {
		return Rect{W: Height, H: Width}
	}
	return Rect{W: Width, H: Height}
}

// Opts is the configuration for the ILI9481 display.
type Opts struct {
	// Initial orientation (default: Portrait)
	Rotation Rotation

	// SPI clock for NewSPI and Open (default: 20MHz)
	Clock physic.Frequency

	// Bring-up sequence (default: DefaultBringup)
	Bringup []Step
}

// Dev is the device handle for the ILI9481 display.
//
// A Dev is not safe for concurrent use.
type Dev struct {
	// Communication
	p      protocol
	ctx    DeviceContext
	closer io.Closer // Port opened by Open

	// Geometry
	rot    Rotation
	limits Rect
	clip   Rect

	// State
	halted bool
}

var (
	_ display.Drawer    = &Dev{}
	_ drivers.Displayer = &Dev{}
)

// New creates a device on an already configured transport and brings the
// panel up.
//
// cs, dc and rst are mandatory. The reset pin is pulsed, the bring-up sequence
// is run and the requested rotation applied before New returns.
//
// opts can be nil to use defaults.
func New(bus Transport, cs, dc, rst gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{}
	}
	if err := checkPins(cs, dc, rst); err != nil {
		return nil, err
	}
	if !opts.Rotation.valid() {
		return nil, fmt.Errorf("ili9481: unknown rotation %d: %w", opts.Rotation, ErrConfig)
	}
	if bus == nil {
		return nil, fmt.Errorf("ili9481: no transport: %w", ErrDevice)
	}

	d := &Dev{
		p:      protocol{bus: bus, cs: cs, dc: dc},
		rot:    Portrait,
		limits: Portrait.Bounds(),
	}
	d.clip = d.limits

	if err := d.init(rst, opts); err != nil {
		return nil, err
	}
	return d, nil
}

// NewSPI creates a device connected via SPI.
//
// The SPI port is configured for Mode3 (CPOL=1, CPHA=1), 8-bit words, MSB
// first, without hardware chip-select: cs is driven as a GPIO so that it stays
// asserted across the command and data phases of a transaction.
func NewSPI(p spi.Port, cs, dc, rst gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{}
	}
	if err := checkPins(cs, dc, rst); err != nil {
		return nil, err
	}
	f := opts.Clock
	if f == 0 {
		f = 20 * physic.MegaHertz
	}
	c, err := p.Connect(f, spi.Mode3|spi.NoCS, 8)
	if err != nil {
		return nil, fmt.Errorf("%w: connect %s: %w", ErrDevice, p, err)
	}
	return New(NewTransport(c), cs, dc, rst, opts)
}

func checkPins(cs, dc, rst gpio.PinOut) error {
	for _, p := range []struct {
		name string
		pin  gpio.PinOut
	}{
		{"chip-select", cs},
		{"data/command", dc},
		{"reset", rst},
	} {
		if p.pin == nil || p.pin == gpio.INVALID {
			return fmt.Errorf("ili9481: %s pin is required: %w", p.name, ErrConfig)
		}
	}
	return nil
}

// init resets the panel and runs the bring-up sequence.
func (d *Dev) init(rst gpio.PinOut, opts *Opts) error {
	p := &d.p
	p.set(p.cs, gpio.High)
	p.set(p.dc, gpio.High)

	// Hardware reset: hold high, pulse low, then let the panel self-initialize.
	p.set(rst, gpio.High)
	sleep(resetHold)
	p.set(rst, gpio.Low)
	sleep(resetPulse)
	p.set(rst, gpio.High)
	sleep(resetSettle)
	if err := p.takeErr(); err != nil {
		return fmt.Errorf("%w: reset: %w", ErrConfig, err)
	}

	steps := opts.Bringup
	if steps == nil {
		steps = DefaultBringup
	}
	p.runBringup(steps)
	if err := p.takeErr(); err != nil {
		return fmt.Errorf("%w: %w", ErrDevice, err)
	}

	if opts.Rotation != Portrait {
		return d.SetRotation(opts.Rotation)
	}
	return nil
}

// Context returns the context the device was opened with. It is the zero
// value for devices created by New or NewSPI.
func (d *Dev) Context() DeviceContext {
	return d.ctx
}

// Rotation returns the current orientation.
func (d *Dev) Rotation() Rotation {
	return d.rot
}

// SetRotation reprograms the address mode for r, switches the logical bounds
// between tall and wide and resets the clip region to them.
func (d *Dev) SetRotation(r Rotation) error {
	if d.halted {
		return errHalted
	}
	if !r.valid() {
		return fmt.Errorf("ili9481: unknown rotation %d: %w", r, ErrConfig)
	}
	d.p.setAddressMode(r.AddressMode())
	d.rot = r
	d.limits = r.Bounds()
	d.clip = d.limits
	return d.p.takeErr()
}

// Limits returns the logical bounds for the current rotation.
func (d *Dev) Limits() Rect {
	return d.limits
}

// Clip returns the current clip region.
func (d *Dev) Clip() Rect {
	return d.clip
}

// SetClip restricts drawing to r intersected with the logical bounds.
func (d *Dev) SetClip(r Rect) {
	d.clip = RectFrom(r.Rectangle().Intersect(d.limits.Rectangle()))
}

// ResetClip makes the whole logical area drawable again.
func (d *Dev) ResetClip() {
	d.clip = d.limits
}

// Clear fills the logical bounds with c.
func (d *Dev) Clear(c rgb666.Color) error {
	if d.halted {
		return errHalted
	}
	d.fillRect(d.limits, c)
	return d.p.takeErr()
}

// FetchAddressMode reads the address mode register back from the panel.
func (d *Dev) FetchAddressMode() (byte, error) {
	if d.halted {
		return 0, errHalted
	}
	m := d.p.fetchStatus()
	return m, d.p.takeErr()
}

// Invert turns display inversion on or off.
func (d *Dev) Invert(invert bool) error {
	if d.halted {
		return errHalted
	}
	op := byte(opExitInvert)
	if invert {
		op = opEnterInvert
	}
	d.p.sendCommand(op)
	return d.p.takeErr()
}

// Blit streams a packed 5-6-5 buffer into the window programmed for r.
//
// The window spans r.W+1 columns and r.H+1 rows, so pix must hold at least
// (r.W+1)*(r.H+1) samples in row-major order. The window must lie inside the
// clip region; otherwise nothing is drawn.
func (d *Dev) Blit(r Rect, pix []uint16) error {
	if d.halted {
		return errHalted
	}
	if r.W < 0 || r.H < 0 {
		return nil
	}
	if len(pix) < r.samples() {
		return fmt.Errorf("ili9481: blit of %s needs %d samples, got %d", r, r.samples(), len(pix))
	}
	win := Rect{X: r.X, Y: r.Y, W: r.W + 1, H: r.H + 1}
	if !win.Rectangle().In(d.clip.Rectangle()) {
		return nil
	}
	t := d.p.begin()
	t.setWindow(r)
	t.blit(r, pix)
	t.end()
	return d.p.takeErr()
}

// ColorModel returns the color model of the display.
func (d *Dev) ColorModel() color.Model {
	return rgb666.Model
}

// Bounds returns the logical bounds as an image rectangle.
func (d *Dev) Bounds() image.Rectangle {
	return d.limits.Rectangle()
}

// Draw streams src onto the display without an intermediate buffer.
//
// dst is clipped to the clip region; sp is the point of src aligned with
// dst.Min.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return errHalted
	}
	r := dst.Intersect(d.clip.Rectangle())
	if r.Empty() {
		return nil
	}

	w := r.Dx()
	win := Rect{X: r.Min.X, Y: r.Min.Y, W: w - 1, H: r.Dy() - 1}

	// Fast path: a uniform source is a plain fill.
	if u, ok := src.(*image.Uniform); ok {
		d.span(win, rgb666.Model.Convert(u.C).(rgb666.Color))
		return d.p.takeErr()
	}

	off := sp.Add(r.Min.Sub(dst.Min))
	t := d.p.begin()
	t.setWindow(win)
	t.push(win, func(i int) rgb666.Color {
		return rgb666.Model.Convert(src.At(off.X+i%w, off.Y+i/w)).(rgb666.Color)
	})
	t.end()
	return d.p.takeErr()
}

// Halt turns the display off and puts the controller to sleep.
//
// After calling Halt, drawing calls fail until the device is re-created.
func (d *Dev) Halt() error {
	d.halted = true
	d.p.sendCommand(opDisplayOff)
	d.p.sendCommand(opEnterSleep)
	return d.p.takeErr()
}

// Close halts the display and closes the SPI port if Open created it.
func (d *Dev) Close() error {
	err := d.Halt()
	if d.closer != nil {
		if cerr := d.closer.Close(); err == nil {
			err = cerr
		}
		d.closer = nil
	}
	return err
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("ili9481.Dev{%dx%d %s}", d.limits.W, d.limits.H, d.rot)
}

// Size implements drivers.Displayer.
func (d *Dev) Size() (x, y int16) {
	return int16(d.limits.W), int16(d.limits.H)
}

// SetPixel implements drivers.Displayer. Bus errors are kept until the next
// call to Display.
func (d *Dev) SetPixel(x, y int16, c color.RGBA) {
	if d.halted {
		return
	}
	d.plot(image.Pt(int(x), int(y)), rgb666.Model.Convert(c).(rgb666.Color))
}

// Display implements drivers.Displayer. Pixels are written immediately, so it
// only reports a bus error left by SetPixel.
func (d *Dev) Display() error {
	return d.p.takeErr()
}
