package ili9481

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/devices/v3/ili9481/rgb666"
)

// event is one pin transition or bus transfer seen on the wire.
type event struct {
	pin   string // Empty for bus transfers
	level gpio.Level
	w     []byte
	read  int
	fill  byte
}

func (e event) String() string {
	switch {
	case e.pin != "" && e.level == gpio.High:
		return e.pin + "=H"
	case e.pin != "":
		return e.pin + "=L"
	case e.read > 0:
		return fmt.Sprintf("read(%d,%02x)", e.read, e.fill)
	}
	return fmt.Sprintf("%x", e.w)
}

// wire is a Transport recording everything in order with the pins created
// through it, so that CS/DC framing can be checked against the bytes.
type wire struct {
	log   []event
	busy  int   // Polls answering not-writable before the next transfer
	polls int   // Writable calls
	resp  []byte
	fail  error // Returned by Write
}

func (w *wire) Writable() bool {
	w.polls++
	if w.busy > 0 {
		w.busy--
		return false
	}
	return true
}

func (w *wire) Write(b []byte) error {
	if w.fail != nil {
		return w.fail
	}
	w.log = append(w.log, event{w: append([]byte(nil), b...)})
	return nil
}

func (w *wire) Read(fill byte, r []byte) error {
	copy(r, w.resp)
	w.log = append(w.log, event{read: len(r), fill: fill})
	return nil
}

// pin returns a GPIO whose transitions are logged on w.
func (w *wire) pin(name string, num int) *tracePin {
	return &tracePin{Pin: &gpiotest.Pin{N: name, Num: num}, w: w}
}

func (w *wire) reset() {
	w.log = nil
	w.polls = 0
}

func (w *wire) trace() string {
	s := make([]string, len(w.log))
	for i, e := range w.log {
		s[i] = e.String()
	}
	return strings.Join(s, " ")
}

// frame is one opcode and the data bytes that followed it.
type frame struct {
	op   byte
	data []byte
}

// txns decodes the log into CS scopes. Bytes written with DC low start a new
// frame; bytes written with DC high extend the current one.
func (w *wire) txns() [][]frame {
	var out [][]frame
	var cur []frame
	cs, dc := gpio.High, gpio.High
	for _, e := range w.log {
		switch e.pin {
		case "CS":
			if cs == gpio.Low && e.level == gpio.High {
				out = append(out, cur)
				cur = nil
			}
			cs = e.level
		case "DC":
			dc = e.level
		case "":
			if cs != gpio.Low || e.read > 0 {
				continue
			}
			if dc == gpio.Low {
				for _, b := range e.w {
					cur = append(cur, frame{op: b})
				}
				continue
			}
			if len(cur) > 0 {
				cur[len(cur)-1].data = append(cur[len(cur)-1].data, e.w...)
			}
		}
	}
	return out
}

// frames flattens txns.
func (w *wire) frames() []frame {
	var out []frame
	for _, t := range w.txns() {
		out = append(out, t...)
	}
	return out
}

// span is one decoded window + memory write transaction.
type span struct {
	r Rect // As passed to setWindow
	n int  // Samples pushed
	c rgb666.Color
}

// spans decodes every transaction that programs a window and writes memory.
func (w *wire) spans(t *testing.T) []span {
	t.Helper()
	var out []span
	for _, tx := range w.txns() {
		if len(tx) != 3 || tx[0].op != opColumnAddr || tx[1].op != opPageAddr || tx[2].op != opMemoryWrite {
			continue
		}
		col, page, px := tx[0].data, tx[1].data, tx[2].data
		if len(col) != 4 || len(page) != 4 || len(px)%3 != 0 {
			t.Fatalf("malformed window transaction %v", tx)
		}
		x0, x1 := int(col[0])<<8|int(col[1]), int(col[2])<<8|int(col[3])
		y0, y1 := int(page[0])<<8|int(page[1]), int(page[2])<<8|int(page[3])
		s := span{r: Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}, n: len(px) / 3}
		if len(px) >= 3 {
			s.c = rgb666.Color{R: px[0], G: px[1], B: px[2]}
		}
		out = append(out, s)
	}
	return out
}

// rects returns the windows of spans.
func rects(s []span) []Rect {
	out := make([]Rect, len(s))
	for i := range s {
		out[i] = s[i].r
	}
	return out
}

// tracePin is a gpiotest.Pin that logs its transitions on a wire.
type tracePin struct {
	*gpiotest.Pin
	w   *wire
	err error // Returned by Out
}

func (p *tracePin) Out(l gpio.Level) error {
	if p.err != nil {
		return p.err
	}
	p.w.log = append(p.w.log, event{pin: p.N, level: l})
	return p.Pin.Out(l)
}

// stubSleep replaces sleep for the duration of the test and returns the
// recorded durations.
func stubSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var got []time.Duration
	old := sleep
	sleep = func(d time.Duration) { got = append(got, d) }
	t.Cleanup(func() { sleep = old })
	return &got
}

// newTestDev brings up a device on a fresh wire and clears the bring-up
// traffic from its log.
func newTestDev(t *testing.T, opts *Opts) (*Dev, *wire) {
	t.Helper()
	stubSleep(t)
	w := &wire{}
	d, err := New(w, w.pin("CS", 8), w.pin("DC", 24), w.pin("RST", 25), opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	w.reset()
	return d, w
}

// coverage counts how many times each pixel was painted, using the extents
// the rasterizer asked for.
func coverage(s []span) map[[2]int]int {
	out := map[[2]int]int{}
	for _, sp := range s {
		for y := sp.r.Y; y < sp.r.Y+sp.r.H; y++ {
			for x := sp.r.X; x < sp.r.X+sp.r.W; x++ {
				out[[2]int{x, y}]++
			}
		}
	}
	return out
}
