package rgb666

import (
	"image"
	"image/color"
	"image/draw"
)

// Color is a pixel in the controller's 18-bit wire format.
//
// Each channel carries 6 significant bits stored in the top of a byte, so the
// low 2 bits are always zero when built with New or Model.
type Color struct {
	R, G, B uint8
}

// New builds a Color from three 6-bit channel values (0-63).
// Bits above the low six are discarded.
func New(r, g, b uint8) Color {
	return Color{
		R: (r & 0x3F) << 2,
		G: (g & 0x3F) << 2,
		B: (b & 0x3F) << 2,
	}
}

// FromRGB565 converts one packed 16-bit sample into wire form, the way the
// controller expects a 5-6-5 buffer to be expanded during a pixel push.
func FromRGB565(p uint16) Color {
	return Color{
		R: uint8((p & 0xF800) >> 9),
		G: uint8((p & 0x07E0) >> 3),
		B: uint8((p & 0x003F) << 2),
	}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	return r, g, b, 0xFFFF
}

// toRGB666 keeps the top 6 bits of each 8-bit channel.
func toRGB666(c color.Color) color.Color {
	if v, ok := c.(Color); ok {
		return v
	}
	r, g, b, _ := c.RGBA()
	return Color{
		R: uint8(r>>8) & 0xFC,
		G: uint8(g>>8) & 0xFC,
		B: uint8(b>>8) & 0xFC,
	}
}

// Model converts colors to Color.
var Model = color.ModelFunc(toRGB666)

// Convenience colors.
var (
	Black = New(0x00, 0x00, 0x00)
	White = New(0x3F, 0x3F, 0x3F)
	Red   = New(0x3F, 0x00, 0x00)
	Green = New(0x00, 0x3F, 0x00)
	Blue  = New(0x00, 0x00, 0x3F)
)

// Pack565 packs c into a 5-6-5 sample suitable for an RGB565 buffer.
func Pack565(c color.Color) uint16 {
	r, g, b, _ := c.RGBA()
	return uint16(r>>11)<<11 | uint16(g>>10)<<5 | uint16(b>>11)
}

// Model565 converts colors to what an RGB565 sample holding them becomes on
// the wire.
var Model565 = color.ModelFunc(func(c color.Color) color.Color {
	return FromRGB565(Pack565(c))
})

// RGB565 is an in-memory image of packed 5-6-5 samples, the source format
// accepted by the driver's Blit.
type RGB565 struct {
	Pix    []uint16        // Samples, row-major
	Stride int             // Samples per row
	Rect   image.Rectangle // Image bounds
}

var _ draw.Image = &RGB565{}

// NewRGB565 returns an RGB565 image with the given bounds.
func NewRGB565(r image.Rectangle) *RGB565 {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return &RGB565{Rect: r}
	}
	return &RGB565{
		Pix:    make([]uint16, w*h),
		Stride: w,
		Rect:   r,
	}
}

// ColorModel returns the color model of the image.
func (p *RGB565) ColorModel() color.Model {
	return Model565
}

// Bounds returns the image bounds.
func (p *RGB565) Bounds() image.Rectangle {
	return p.Rect
}

// At returns the wire color of the pixel at (x, y).
func (p *RGB565) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return Color{}
	}
	return FromRGB565(p.Pix[p.offset(x, y)])
}

// Set sets the pixel at (x, y).
func (p *RGB565) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	p.Pix[p.offset(x, y)] = Pack565(c)
}

func (p *RGB565) offset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x - p.Rect.Min.X)
}
