package ili9481

import (
	"image"
	"sort"

	"periph.io/x/devices/v3/ili9481/rgb666"
)

// Corner selectors for arc.
const (
	cornerTopLeft     = 0x1
	cornerTopRight    = 0x2
	cornerBottomRight = 0x4
	cornerBottomLeft  = 0x8
)

// Half selectors for fillCorners.
const (
	capBottom = 0x1
	capTop    = 0x2
)

// Line draws a line from p0 to p1, both ends included.
func (d *Dev) Line(p0, p1 image.Point, c rgb666.Color) error {
	if d.halted {
		return errHalted
	}
	d.line(p0, p1, c)
	return d.p.takeErr()
}

// Box draws the rectangle r, optionally filled, with corners rounded by
// radius pixels. The radius is limited to half the shorter side.
func (d *Dev) Box(r Rect, c rgb666.Color, filled bool, radius int) error {
	if d.halted {
		return errHalted
	}
	d.box(r, c, filled, radius)
	return d.p.takeErr()
}

// Circle draws a circle of radius r around center, optionally filled.
func (d *Dev) Circle(center image.Point, r int, c rgb666.Color, filled bool) error {
	if d.halted {
		return errHalted
	}
	if filled {
		d.circleFill(center.X, center.Y, r, c)
	} else {
		d.circle(center.X, center.Y, r, c)
	}
	return d.p.takeErr()
}

// Ellipse draws an axis-aligned ellipse around center, optionally filled.
// Nothing is drawn when either radius is below 2.
func (d *Dev) Ellipse(center image.Point, rx, ry int, c rgb666.Color, filled bool) error {
	if d.halted {
		return errHalted
	}
	if filled {
		d.ellipseFill(center.X, center.Y, rx, ry, c)
	} else {
		d.ellipse(center.X, center.Y, rx, ry, c)
	}
	return d.p.takeErr()
}

// Triangle draws the triangle p0 p1 p2, optionally filled.
func (d *Dev) Triangle(p0, p1, p2 image.Point, c rgb666.Color, filled bool) error {
	if d.halted {
		return errHalted
	}
	if filled {
		d.triangleFill(p0, p1, p2, c)
	} else {
		d.line(p0, p1, c)
		d.line(p1, p2, c)
		d.line(p2, p0, c)
	}
	return d.p.takeErr()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// line is Bresenham's algorithm emitting one span per run of pixels sharing
// the same minor coordinate instead of one transaction per pixel.
func (d *Dev) line(p0, p1 image.Point, c rgb666.Color) {
	x0, y0, x1, y1 := p0.X, p0.Y, p1.X, p1.Y
	if y0 == y1 {
		if x0 > x1 {
			x0, x1 = x1, x0
		}
		d.hline(x0, y0, x1-x0+1, c)
		return
	}
	if x0 == x1 {
		if y0 > y1 {
			y0, y1 = y1, y0
		}
		d.vline(x0, y0, y1-y0+1, c)
		return
	}

	steep := abs(y1-y0) > abs(x1-x0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	dy := abs(y1 - y0)
	err := dx >> 1
	ystep := -1
	if y0 < y1 {
		ystep = 1
	}

	xs, n := x0, 0
	for ; x0 <= x1; x0++ {
		n++
		err -= dy
		if err < 0 {
			d.run(steep, xs, y0, n, c)
			n = 0
			y0 += ystep
			xs = x0 + 1
			err += dx
		}
	}
	if n > 0 {
		d.run(steep, xs, y0, n, c)
	}
}

// run flushes n pixels of a line starting at major coordinate m on minor
// coordinate k.
func (d *Dev) run(steep bool, m, k, n int, c rgb666.Color) {
	switch {
	case n == 1 && steep:
		d.plot(image.Pt(k, m), c)
	case n == 1:
		d.plot(image.Pt(m, k), c)
	case steep:
		d.vline(k, m, n, c)
	default:
		d.hline(m, k, n, c)
	}
}

func (d *Dev) box(r Rect, c rgb666.Color, filled bool, radius int) {
	if r.Empty() {
		return
	}
	radius = max(0, min(radius, min(r.W, r.H)/2))
	if radius == 0 {
		if filled {
			d.fillRect(r, c)
			return
		}
		d.hline(r.X, r.Y, r.W, c)
		d.hline(r.X, r.Y+r.H-1, r.W, c)
		d.vline(r.X, r.Y, r.H, c)
		d.vline(r.X+r.W-1, r.Y, r.H, c)
		return
	}

	r2 := 2 * radius
	rx2 := r.X + r.W - radius - 1
	ry2 := r.Y + r.H - radius - 1
	if filled {
		// Central band, then the rounded caps above and below it.
		d.fillRect(Rect{X: r.X, Y: r.Y + radius, W: r.W, H: r.H - r2}, c)
		delta := r.W - r2 - 1
		d.fillCorners(r.X+radius, ry2, radius, capBottom, delta, c)
		d.fillCorners(r.X+radius, r.Y+radius, radius, capTop, delta, c)
		return
	}
	d.hline(r.X+radius, r.Y, r.W-r2, c)       // Top
	d.hline(r.X+radius, r.Y+r.H-1, r.W-r2, c) // Bottom
	d.vline(r.X, r.Y+radius, r.H-r2, c)       // Left
	d.vline(r.X+r.W-1, r.Y+radius, r.H-r2, c) // Right
	d.arc(r.X+radius, r.Y+radius, radius, cornerTopLeft, c)
	d.arc(rx2, r.Y+radius, radius, cornerTopRight, c)
	d.arc(rx2, ry2, radius, cornerBottomRight, c)
	d.arc(r.X+radius, ry2, radius, cornerBottomLeft, c)
}

// circle draws an outline with the midpoint algorithm, merging the pixels of
// each octant step into spans mirrored eight ways.
func (d *Dev) circle(x, y, r int, c rgb666.Color) {
	if r < 1 {
		if r == 0 {
			d.plot(image.Pt(x, y), c)
		}
		return
	}
	f := 1 - r
	ddx, ddy := 1, -2*r
	xs, xe := -1, 0
	first := true
	for {
		for f < 0 {
			xe++
			ddx += 2
			f += ddx
		}
		ddy += 2
		f += ddy

		if first {
			n := 2*(xe-xs) - 1
			d.hline(x-xe, y+r, n, c)
			d.hline(x-xe, y-r, n, c)
			d.vline(x+r, y-xe, n, c)
			d.vline(x-r, y-xe, n, c)
			first = false
		} else {
			n := xe - xs
			xs++
			d.hline(x-xe, y+r, n, c)
			d.hline(x-xe, y-r, n, c)
			d.hline(x+xs, y-r, n, c)
			d.hline(x+xs, y+r, n, c)
			d.vline(x+r, y+xs, n, c)
			d.vline(x+r, y-xe, n, c)
			d.vline(x-r, y-xe, n, c)
			d.vline(x-r, y+xs, n, c)
		}
		xs = xe

		r--
		if xe >= r {
			return
		}
	}
}

// circleFill draws a chord per scanline, above and below the center, so the
// transaction count follows the diameter rather than the area.
func (d *Dev) circleFill(x, y, r int, c rgb666.Color) {
	if r < 0 {
		return
	}
	xx := 0
	dx := 1
	dy := r + r
	p := -(r >> 1)
	d.hline(x-r, y, dy+1, c)
	for xx < r {
		if p >= 0 {
			d.hline(x-xx, y+r, dx, c)
			d.hline(x-xx, y-r, dx, c)
			dy -= 2
			p -= dy
			r--
		}
		dx += 2
		p += dx
		xx++
		d.hline(x-r, y+xx, dy+1, c)
		d.hline(x-r, y-xx, dy+1, c)
	}
}

// arc draws quarter circles of radius r around (x0, y0), one per bit set in
// corner.
func (d *Dev) arc(x0, y0, r int, corner uint8, c rgb666.Color) {
	if r <= 0 {
		return
	}
	f := 1 - r
	ddx, ddy := 1, -2*r
	xe, xs := 0, 0
	for xe < r {
		r--
		for f < 0 {
			xe++
			ddx += 2
			f += ddx
		}
		ddy += 2
		f += ddy

		if xe-xs == 1 {
			if corner&cornerTopLeft != 0 {
				d.plot(image.Pt(x0-xe, y0-r), c)
				d.plot(image.Pt(x0-r, y0-xe), c)
			}
			if corner&cornerTopRight != 0 {
				d.plot(image.Pt(x0+r, y0-xe), c)
				d.plot(image.Pt(x0+xs+1, y0-r), c)
			}
			if corner&cornerBottomRight != 0 {
				d.plot(image.Pt(x0+xs+1, y0+r), c)
				d.plot(image.Pt(x0+r, y0+xs+1), c)
			}
			if corner&cornerBottomLeft != 0 {
				d.plot(image.Pt(x0-r, y0+xs+1), c)
				d.plot(image.Pt(x0-xe, y0+r), c)
			}
		} else {
			n := xe - xs
			xs++
			if corner&cornerTopLeft != 0 {
				d.hline(x0-xe, y0-r, n, c)
				d.vline(x0-r, y0-xe, n, c)
			}
			if corner&cornerTopRight != 0 {
				d.vline(x0+r, y0-xe, n, c)
				d.hline(x0+xs, y0-r, n, c)
			}
			if corner&cornerBottomRight != 0 {
				d.hline(x0+xs, y0+r, n, c)
				d.vline(x0+r, y0+xs, n, c)
			}
			if corner&cornerBottomLeft != 0 {
				d.vline(x0-r, y0+xs, n, c)
				d.hline(x0-xe, y0+r, n, c)
			}
		}
		xs = xe
	}
}

// fillCorners draws the rounded cap above (capTop) or below (capBottom) the
// row y0, as horizontal spans stretched by delta+1 pixels of straight edge.
func (d *Dev) fillCorners(x0, y0, r int, corner uint8, delta int, c rgb666.Color) {
	f := 1 - r
	ddx, ddy := 1, -r-r
	y := 0
	delta++
	for y < r {
		if f >= 0 {
			if corner&capBottom != 0 {
				d.hline(x0-y, y0+r, y+y+delta, c)
			}
			if corner&capTop != 0 {
				d.hline(x0-y, y0-r, y+y+delta, c)
			}
			r--
			ddy += 2
			f += ddy
		}
		y++
		ddx += 2
		f += ddx
		if corner&capBottom != 0 {
			d.hline(x0-r, y0+y, r+r+delta, c)
		}
		if corner&capTop != 0 {
			d.hline(x0-r, y0-y, r+r+delta, c)
		}
	}
}

// ellipse plots the outline with the two-region midpoint algorithm, switching
// regions where the slope crosses -1.
func (d *Dev) ellipse(x, y, rx, ry int, c rgb666.Color) {
	if rx < 2 || ry < 2 {
		return
	}
	rx2, ry2 := rx*rx, ry*ry
	fx2, fy2 := 4*rx2, 4*ry2

	for xx, yy, s := 0, ry, 2*ry2+rx2*(1-2*ry); ry2*xx <= rx2*yy; xx++ {
		d.plot4(x, y, xx, yy, c)
		if s >= 0 {
			s += fx2 * (1 - yy)
			yy--
		}
		s += ry2 * (4*xx + 6)
	}
	for xx, yy, s := rx, 0, 2*rx2+ry2*(1-2*rx); rx2*yy <= ry2*xx; yy++ {
		d.plot4(x, y, xx, yy, c)
		if s >= 0 {
			s += fy2 * (1 - xx)
			xx--
		}
		s += rx2 * (4*yy + 6)
	}
}

// plot4 plots (x±dx, y±dy).
func (d *Dev) plot4(x, y, dx, dy int, c rgb666.Color) {
	d.plot(image.Pt(x+dx, y+dy), c)
	d.plot(image.Pt(x-dx, y+dy), c)
	d.plot(image.Pt(x-dx, y-dy), c)
	d.plot(image.Pt(x+dx, y-dy), c)
}

func (d *Dev) ellipseFill(x, y, rx, ry int, c rgb666.Color) {
	if rx < 2 || ry < 2 {
		return
	}
	rx2, ry2 := rx*rx, ry*ry
	fx2, fy2 := 4*rx2, 4*ry2

	for xx, yy, s := 0, ry, 2*ry2+rx2*(1-2*ry); ry2*xx <= rx2*yy; xx++ {
		d.hline(x-xx, y-yy, xx+xx+1, c)
		d.hline(x-xx, y+yy, xx+xx+1, c)
		if s >= 0 {
			s += fx2 * (1 - yy)
			yy--
		}
		s += ry2 * (4*xx + 6)
	}
	for xx, yy, s := rx, 0, 2*rx2+ry2*(1-2*rx); rx2*yy <= ry2*xx; yy++ {
		d.hline(x-xx, y-yy, xx+xx+1, c)
		d.hline(x-xx, y+yy, xx+xx+1, c)
		if s >= 0 {
			s += fy2 * (1 - xx)
			xx--
		}
		s += rx2 * (4*yy + 6)
	}
}

// triangleFill scan-converts the triangle with one span per row: first
// between edges 0-1 and 0-2, then between edges 1-2 and 0-2.
func (d *Dev) triangleFill(p0, p1, p2 image.Point, c rgb666.Color) {
	v := []image.Point{p0, p1, p2}
	sort.SliceStable(v, func(i, j int) bool { return v[i].Y < v[j].Y })
	x0, y0 := v[0].X, v[0].Y
	x1, y1 := v[1].X, v[1].Y
	x2, y2 := v[2].X, v[2].Y

	if y0 == y2 {
		a := min(x0, x1, x2)
		b := max(x0, x1, x2)
		d.hline(a, y0, b-a+1, c)
		return
	}

	dx01, dy01 := x1-x0, y1-y0
	dx02, dy02 := x2-x0, y2-y0
	dx12, dy12 := x2-x1, y2-y1

	// Include row y1 in the upper part only when the bottom edge is flat,
	// otherwise the lower part would divide by zero.
	last := y1 - 1
	if y1 == y2 {
		last = y1
	}

	y := y0
	sa, sb := 0, 0
	for ; y <= last; y++ {
		a := x0 + sa/dy01
		b := x0 + sb/dy02
		sa += dx01
		sb += dx02
		if a > b {
			a, b = b, a
		}
		d.hline(a, y, b-a+1, c)
	}

	sa = dx12 * (y - y1)
	sb = dx02 * (y - y0)
	for ; y <= y2; y++ {
		a := x1 + sa/dy12
		b := x0 + sb/dy02
		sa += dx12
		sb += dx02
		if a > b {
			a, b = b, a
		}
		d.hline(a, y, b-a+1, c)
	}
}
