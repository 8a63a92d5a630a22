// Package mouse provides the pointing-device report passed through the
// auto mouse layer each scan tick.
package mouse

import (
	"io"
)

// ReportSize is the length of the encoded report.
const ReportSize = 9

// Button bits. Logical button i maps to bit i.
const (
	ButtonLeft    uint8 = 1 << 0
	ButtonRight   uint8 = 1 << 1
	ButtonMiddle  uint8 = 1 << 2
	ButtonBack    uint8 = 1 << 3
	ButtonForward uint8 = 1 << 4

	// NumButtons is the number of logical buttons carried in a report.
	NumButtons = 5
	buttonMask = 0x1F
)

// Report is one tick's pointing-device report: the button bitmask plus
// relative deltas for pointer (X, Y), horizontal scroll (H) and vertical
// scroll (V).
type Report struct {
	// Button bitfield: bit 0=Left, 1=Right, 2=Middle, 3=Back, 4=Forward
	Buttons uint8
	X, Y    int16
	H, V    int16
}

// HasMotion reports whether any of the four deltas is nonzero.
func (r Report) HasMotion() bool {
	return r.X != 0 || r.Y != 0 || r.H != 0 || r.V != 0
}

// ButtonBit returns the mask bit for logical button i (0-based).
func ButtonBit(i int) uint8 {
	if i < 0 || i >= NumButtons {
		return 0
	}
	return 1 << uint(i)
}

// MarshalBinary encodes the report into the 9-byte wire form.
//
// Layout:
//
//	Byte 0: Button bitfield (bits 5-7 always zero)
//	Bytes 1-2: X (int16 little-endian)
//	Bytes 3-4: Y
//	Bytes 5-6: V (vertical wheel)
//	Bytes 7-8: H (horizontal pan)
func (r Report) MarshalBinary() ([]byte, error) {
	b := make([]byte, ReportSize)
	b[0] = r.Buttons & buttonMask
	b[1] = byte(r.X)
	b[2] = byte(r.X >> 8)
	b[3] = byte(r.Y)
	b[4] = byte(r.Y >> 8)
	b[5] = byte(r.V)
	b[6] = byte(r.V >> 8)
	b[7] = byte(r.H)
	b[8] = byte(r.H >> 8)
	return b, nil
}

// UnmarshalBinary decodes the 9-byte wire form.
func (r *Report) UnmarshalBinary(data []byte) error {
	if len(data) < ReportSize {
		return io.ErrUnexpectedEOF
	}
	r.Buttons = data[0] & buttonMask
	r.X = int16(data[1]) | int16(data[2])<<8
	r.Y = int16(data[3]) | int16(data[4])<<8
	r.V = int16(data[5]) | int16(data[6])<<8
	r.H = int16(data[7]) | int16(data[8])<<8
	return nil
}
