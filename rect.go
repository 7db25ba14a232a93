package ili9481

import (
	"fmt"
	"image"
)

// Rect is an axis-aligned rectangle given by its top-left corner and extent.
//
// W and H are not validated; drawing code treats non-positive extents as
// nothing to draw.
type Rect struct {
	X, Y int // Top left
	W, H int // Extent
}

// RectFrom converts an image.Rectangle.
func RectFrom(r image.Rectangle) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// Rectangle converts r to an image.Rectangle. A negative extent yields the
// canonical (swapped) rectangle, as image.Rect does.
func (r Rect) Rectangle() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// Empty reports whether r covers no pixel.
func (r Rect) Empty() bool {
	return r.W < 1 || r.H < 1
}

// samples is the number of pixels the controller expects after a window for
// r was programmed. Window ends are start+extent inclusive.
func (r Rect) samples() int {
	if r.W < 0 || r.H < 0 {
		return 0
	}
	return (r.W + 1) * (r.H + 1)
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d)+%dx%d", r.X, r.Y, r.W, r.H)
}
