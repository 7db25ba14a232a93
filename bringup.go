package ili9481

import (
	"errors"
	"fmt"
	"time"
)

// Step is one entry of a bring-up sequence, either a Command or a Delay.
type Step interface {
	isStep()
}

// Command sends Op followed by its parameter bytes.
type Command struct {
	Op   byte
	Data []byte
}

// Delay pauses the sequence.
type Delay time.Duration

func (Command) isStep() {}
func (Delay) isStep()   {}

func (c Command) String() string {
	return fmt.Sprintf("cmd %#02x % x", c.Op, c.Data)
}

func (d Delay) String() string {
	return "delay " + time.Duration(d).String()
}

// DefaultBringup takes the panel from reset to display-on in portrait mode
// with an 18-bit pixel format.
var DefaultBringup = []Step{
	Command{Op: opNOP},
	Command{Op: opSoftReset},
	Delay(240 * time.Millisecond),
	Command{Op: opExitSleep},
	Delay(120 * time.Millisecond),
	Command{Op: opPower, Data: []byte{0x07, 0x42, 0x18}},
	Command{Op: opVCOM, Data: []byte{0x00, 0x07, 0x10}},
	Command{Op: opNormalPower, Data: []byte{0x01, 0x02}},
	Command{Op: opPanelDriving, Data: []byte{0x10, 0x3B, 0x00, 0x02, 0x11}},
	Command{Op: opFrameRate, Data: []byte{0x00}},
	Command{Op: opGamma, Data: []byte{
		0x00, 0x32, 0x36, 0x45, 0x06, 0x16,
		0x37, 0x75, 0x77, 0x54, 0x0C, 0x00,
	}},
	Command{Op: opAddrMode, Data: []byte{AddrBGR | AddrFlipHorizontal}},
	Command{Op: opPixelFormat, Data: []byte{0x66}}, // 18 bits per pixel
	Command{Op: opEnterInvert},
	Command{Op: opFrameMemory, Data: []byte{0x00, 0x00, 0x00, 0x01}},
	Command{Op: opColumnAddr, Data: []byte{0x00, 0x00, 0x01, 0x3F}}, // 0-319
	Delay(255 * time.Millisecond),
	Command{Op: opPageAddr, Data: []byte{0x00, 0x00, 0x01, 0xDF}}, // 0-479
	Delay(120 * time.Millisecond),
	Command{Op: opDisplayOn},
	Delay(25 * time.Millisecond),
}

// delayTag marks a count byte whose following byte is a delay in milliseconds.
const delayTag = 0x80

var errTruncated = errors.New("ili9481: truncated bring-up table")

// ParseBringup decodes a bring-up table in the compact byte encoding used by
// panel vendors' sample code:
//
//	N, op, d1..dN-1   command with N-1 parameter bytes
//	0x80|x, ms        delay of ms milliseconds
//	0                 end of table
//
// It returns the steps and the number of bytes consumed, terminator included.
// Bytes after the terminator are ignored.
func ParseBringup(table []byte) ([]Step, int, error) {
	var steps []Step
	i := 0
	for i < len(table) {
		n := int(table[i])
		i++
		if n == 0 {
			return steps, i, nil
		}
		if n&delayTag != 0 {
			if i >= len(table) {
				return nil, i, errTruncated
			}
			steps = append(steps, Delay(time.Duration(table[i])*time.Millisecond))
			i++
			continue
		}
		if i+n > len(table) {
			return nil, i, errTruncated
		}
		c := Command{Op: table[i]}
		if n > 1 {
			c.Data = append([]byte(nil), table[i+1:i+n]...)
		}
		steps = append(steps, c)
		i += n
	}
	return nil, i, errors.New("ili9481: bring-up table has no terminator")
}
