package ili9481

import (
	"image"

	"periph.io/x/devices/v3/ili9481/rgb666"
)

// span pushes c into r as a single CS-scoped transaction.
func (d *Dev) span(r Rect, c rgb666.Color) {
	t := d.p.begin()
	defer t.end()
	t.setWindow(r)
	t.fill(r, c)
}

// hline draws w pixels rightwards from (x, y), clipped.
func (d *Dev) hline(x, y, w int, c rgb666.Color) {
	cl := d.clip
	if y < cl.Y || x >= cl.X+cl.W || y >= cl.Y+cl.H {
		return
	}
	if x < cl.X {
		w += x - cl.X
		x = cl.X
	}
	if x+w > cl.X+cl.W {
		w = cl.X + cl.W - x
	}
	if w < 1 {
		return
	}
	d.span(Rect{X: x, Y: y, W: w, H: 1}, c)
}

// vline draws h pixels downwards from (x, y), clipped.
func (d *Dev) vline(x, y, h int, c rgb666.Color) {
	cl := d.clip
	if x < cl.X || x >= cl.X+cl.W || y >= cl.Y+cl.H {
		return
	}
	if y < cl.Y {
		h += y - cl.Y
		y = cl.Y
	}
	if y+h > cl.Y+cl.H {
		h = cl.Y + cl.H - y
	}
	if h < 1 {
		return
	}
	d.span(Rect{X: x, Y: y, W: 1, H: h}, c)
}

func (d *Dev) plot(p image.Point, c rgb666.Color) {
	d.hline(p.X, p.Y, 1, c)
}

// fillRect fills r, clipped, as one transaction.
func (d *Dev) fillRect(r Rect, c rgb666.Color) {
	cl := d.clip
	if r.X >= cl.X+cl.W || r.Y >= cl.Y+cl.H {
		return
	}
	if r.X < cl.X {
		r.W += r.X - cl.X
		r.X = cl.X
	}
	if r.Y < cl.Y {
		r.H += r.Y - cl.Y
		r.Y = cl.Y
	}
	if r.X+r.W > cl.X+cl.W {
		r.W = cl.X + cl.W - r.X
	}
	if r.Y+r.H > cl.Y+cl.H {
		r.H = cl.Y + cl.H - r.Y
	}
	if r.Empty() {
		return
	}
	d.span(r, c)
}

// Plot draws a single pixel.
func (d *Dev) Plot(p image.Point, c rgb666.Color) error {
	if d.halted {
		return errHalted
	}
	d.plot(p, c)
	return d.p.takeErr()
}

// HLine draws a horizontal run of w pixels starting at (x, y).
func (d *Dev) HLine(x, y, w int, c rgb666.Color) error {
	if d.halted {
		return errHalted
	}
	d.hline(x, y, w, c)
	return d.p.takeErr()
}

// VLine draws a vertical run of h pixels starting at (x, y).
func (d *Dev) VLine(x, y, h int, c rgb666.Color) error {
	if d.halted {
		return errHalted
	}
	d.vline(x, y, h, c)
	return d.p.takeErr()
}

// FillRect fills r with c in a single transaction.
func (d *Dev) FillRect(r Rect, c rgb666.Color) error {
	if d.halted {
		return errHalted
	}
	d.fillRect(r, c)
	return d.p.takeErr()
}
