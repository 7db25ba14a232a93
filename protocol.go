package ili9481

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/devices/v3/ili9481/rgb666"
)

// Controller opcodes.
const (
	opNOP          = 0x00
	opSoftReset    = 0x01
	opReadAddrMode = 0x0B
	opEnterSleep   = 0x10
	opExitSleep    = 0x11
	opExitInvert   = 0x20
	opEnterInvert  = 0x21
	opDisplayOff   = 0x28
	opDisplayOn    = 0x29
	opColumnAddr   = 0x2A
	opPageAddr     = 0x2B
	opMemoryWrite  = 0x2C
	opAddrMode     = 0x36
	opPixelFormat  = 0x3A
	opFrameMemory  = 0xB3
	opPanelDriving = 0xC0
	opFrameRate    = 0xC5
	opGamma        = 0xC8
	opPower        = 0xD0
	opVCOM         = 0xD1
	opNormalPower  = 0xD2
)

// Address mode register bits (opcode 0x36). Bits 6-7 (scan order) are left at
// zero.
const (
	AddrFlipVertical   = 0x01
	AddrFlipHorizontal = 0x02
	AddrBGR            = 0x08
	AddrSwapPageColumn = 0x20
)

// PollInterval is the pause between two readiness polls of the transport.
//
// Polling is unbounded: a transport that never becomes writable blocks the
// caller forever.
const PollInterval = 10 * time.Microsecond

const (
	// pixelBatch is the number of 3-byte samples sent per bus write.
	pixelBatch = 64
	// readFill is clocked out while reading the controller's response.
	readFill = 0xFE
)

// sleep is replaced in tests.
var sleep = time.Sleep

// protocol frames commands, data and pixel streams for the controller.
//
// The first bus or pin failure is kept in err; later transfers are skipped
// but pin transitions, CS release in particular, are still attempted.
type protocol struct {
	bus Transport
	cs  gpio.PinOut
	dc  gpio.PinOut
	buf [pixelBatch * 3]byte
	err error
}

func (p *protocol) set(pin gpio.PinOut, l gpio.Level) {
	if err := pin.Out(l); err != nil && p.err == nil {
		p.err = fmt.Errorf("ili9481: failed to drive %s %s: %w", pin, l, err)
	}
}

func (p *protocol) wait() {
	for !p.bus.Writable() {
		sleep(PollInterval)
	}
}

func (p *protocol) write(b []byte) {
	if p.err != nil || len(b) == 0 {
		return
	}
	p.wait()
	if err := p.bus.Write(b); err != nil {
		p.err = fmt.Errorf("ili9481: bus write: %w", err)
	}
}

func (p *protocol) read(r []byte) {
	if p.err != nil {
		return
	}
	p.wait()
	if err := p.bus.Read(readFill, r); err != nil {
		p.err = fmt.Errorf("ili9481: bus read: %w", err)
	}
}

// takeErr returns the pending error and clears it.
func (p *protocol) takeErr() error {
	err := p.err
	p.err = nil
	return err
}

// txn is an open chip-select scope. Operations that must run inside a scope
// take a txn; end releases it.
type txn struct {
	p *protocol
}

// begin asserts chip-select.
func (p *protocol) begin() txn {
	p.set(p.cs, gpio.Low)
	return txn{p: p}
}

// end releases chip-select.
func (t txn) end() {
	t.p.set(t.p.cs, gpio.High)
}

// command sends one opcode with DC in command mode and leaves DC in data
// mode, which is what the controller expects between commands.
func (t txn) command(op byte) {
	p := t.p
	p.set(p.dc, gpio.Low)
	p.buf[0] = op
	p.write(p.buf[:1])
	p.set(p.dc, gpio.High)
}

// data sends parameter bytes in data mode.
func (t txn) data(b ...byte) {
	t.p.set(t.p.dc, gpio.High)
	t.p.write(b)
}

// sendCommand runs one opcode and its parameters in its own CS scope.
func (p *protocol) sendCommand(op byte, data ...byte) {
	t := p.begin()
	defer t.end()
	t.command(op)
	if len(data) > 0 {
		t.data(data...)
	}
}

// setWindow programs the column and page address range. The end coordinate
// is start+extent; the controller treats it as inclusive.
func (t txn) setWindow(r Rect) {
	x1, y1 := r.X+r.W, r.Y+r.H
	t.command(opColumnAddr)
	t.data(byte(r.X>>8), byte(r.X), byte(x1>>8), byte(x1))
	t.command(opPageAddr)
	t.data(byte(r.Y>>8), byte(r.Y), byte(y1>>8), byte(y1))
}

// fill starts a memory write and repeats c for every sample of the window
// programmed for r.
func (t txn) fill(r Rect, c rgb666.Color) {
	t.command(opMemoryWrite)
	p := t.p
	n := r.samples()
	m := min(n, pixelBatch)
	for i := 0; i < m; i++ {
		p.buf[3*i], p.buf[3*i+1], p.buf[3*i+2] = c.R, c.G, c.B
	}
	for n > 0 && p.err == nil {
		k := min(n, pixelBatch)
		p.write(p.buf[:3*k])
		n -= k
	}
}

// push starts a memory write and streams the samples of the window programmed
// for r, asking px for each one in raster order.
func (t txn) push(r Rect, px func(i int) rgb666.Color) {
	t.command(opMemoryWrite)
	p := t.p
	n := r.samples()
	k := 0
	for i := 0; i < n && p.err == nil; i++ {
		c := px(i)
		p.buf[k], p.buf[k+1], p.buf[k+2] = c.R, c.G, c.B
		k += 3
		if k == len(p.buf) {
			p.write(p.buf[:k])
			k = 0
		}
	}
	p.write(p.buf[:k])
}

// blit streams a packed 5-6-5 buffer holding r.samples() entries.
func (t txn) blit(r Rect, pix []uint16) {
	t.push(r, func(i int) rgb666.Color {
		return rgb666.FromRGB565(pix[i])
	})
}

// setAddressMode writes the address mode register in its own CS scope.
func (p *protocol) setAddressMode(mode byte) {
	p.sendCommand(opAddrMode, mode)
}

// fetchStatus reads back the address mode register. Only the top 5 bits of
// the second response byte are meaningful.
func (p *protocol) fetchStatus() byte {
	var r [2]byte
	t := p.begin()
	defer t.end()
	t.command(opReadAddrMode)
	p.set(p.dc, gpio.High)
	p.read(r[:])
	return r[1] & 0xF8
}

// runBringup executes steps in order. Each Command runs in its own CS scope;
// a Delay blocks without touching the bus.
func (p *protocol) runBringup(steps []Step) {
	for _, s := range steps {
		if p.err != nil {
			return
		}
		switch s := s.(type) {
		case Command:
			p.sendCommand(s.Op, s.Data...)
		case Delay:
			sleep(time.Duration(s))
		}
	}
}
