// Package rgb666 provides the 18-bit color format used on the ILI9481 wire.
//
// The controller is configured for 3 bytes per pixel where only the top 6 bits
// of each byte are significant:
//
//	Channel:  R         G         B
//	Byte:     rrrrrr00  gggggg00  bbbbbb00
//
// This package provides:
//
// - Color: a pixel already scaled into wire form
// - Model: a color model converting standard Go colors to Color
// - FromRGB565: the expansion applied to packed 16-bit source buffers
// - RGB565: an image.Image over packed 16-bit samples, usable as a Blit source
//
// Example usage:
//
//	// 6-bit channel values, 0-63
//	orange := rgb666.New(0x3F, 0x20, 0x00)
//
//	// Convert any color
//	c := rgb666.Model.Convert(color.RGBA{0xFF, 0x80, 0x00, 0xFF}).(rgb666.Color)
package rgb666
