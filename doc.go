// Package ili9481 controls an ILI9481 320×480 TFT display via SPI.
//
// The ILI9481 is driven in 18-bit color mode (6 bits per channel, 3 bytes per
// pixel) through a 4-wire SPI interface with separate chip-select and
// data/command lines. The driver keeps no frame buffer: every drawing call is
// turned into one or more windowed pixel pushes sent straight to the panel.
//
// # Display Characteristics
//
// - 320×480 native resolution, four rotations
// - 18-bit color (rgb666.Color)
// - Clipped drawing primitives: point, lines, rectangles, rounded boxes,
// circles, ellipses and triangles
// - Display inversion
// - Address mode read-back
//
// # Hardware Connection
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V
//	SCK         → SPI Clock (SCLK)
//	SDI/MOSI    → SPI Data (MOSI)
//	SDO/MISO    → SPI Data (MISO), only needed for FetchAddressMode
//	CS          → GPIO (driven by the driver, not by the SPI controller)
//	DC/RS       → GPIO
//	RESET       → GPIO
//
// Chip-select has to be a GPIO: it stays asserted across the command and data
// phases of a transaction, which hardware chip-select can't do.
//
// # Basic Usage
//
//	package main
//
//	import (
//		"image"
//
//		"periph.io/x/devices/v3/ili9481"
//		"periph.io/x/devices/v3/ili9481/rgb666"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		host.Init()
//
//		dev, err := ili9481.Open(ili9481.DeviceContext{
//			CS:  "GPIO8",
//			DC:  "GPIO24",
//			RST: "GPIO25",
//		}, &ili9481.Opts{Rotation: ili9481.Landscape})
//		if err != nil {
//			panic(err)
//		}
//		defer dev.Close()
//
//		dev.Clear(rgb666.Black)
//		dev.Box(ili9481.Rect{X: 10, Y: 10, W: 100, H: 60}, rgb666.Red, true, 8)
//		dev.Circle(image.Pt(240, 160), 50, rgb666.Green, false)
//	}
//
// When the bus and pins are already at hand, NewSPI takes an spi.Port and the
// three pins directly, and New accepts any Transport.
//
// # Clipping
//
// Every primitive is clipped against the clip region, which defaults to the
// logical bounds of the current rotation and is reset whenever the rotation
// changes. Geometry never produces an error: anything outside the clip region
// is simply not sent.
//
// # Windows
//
// The controller's address window is programmed with an end coordinate of
// start+extent, so a Rect of W×H covers (W+1)×(H+1) samples. Blit follows the
// same convention.
//
// # Images
//
// Dev implements display.Drawer from periph.io. Draw streams the destination
// rectangle directly from the source image; an *image.Uniform source becomes a
// single fill. Dev also implements drivers.Displayer from TinyGo.
//
// # Bring-up
//
// DefaultBringup holds the power, VCOM, gamma, pixel format and window setup
// sent after reset. A custom sequence can be passed in Opts.Bringup, either
// built from Command and Delay steps or decoded from a vendor byte table with
// ParseBringup.
//
// # Errors
//
// Missing pins and bad options are reported as ErrConfig, bus failures during
// construction as ErrDevice; both are matched with errors.Is. Bus errors met
// while drawing are returned by the drawing call.
//
// The driver busy-polls the transport before every transfer without a
// timeout: a transport that never becomes ready blocks the caller.
package ili9481
