// Package status formats the two-line status panel shown on the
// keyboard's display.
package status

import (
	"strings"
)

// Info is a read-only snapshot of what the panel shows.
type Info struct {
	Layer          uint8
	Movement       uint32
	ClickThreshold int16
	ScrollStep     int16
	// OSCode is the 3-letter host code, or "NA".
	OSCode string
}

const glyph = "±"

// Format4U renders the low four decimal digits of v right-aligned in four
// columns, blank-padding leading zeros.
func Format4U(v uint16) string {
	buf := [4]byte{' ', ' ', ' ', ' '}
	buf[3] = byte(v%10) + '0'
	for i := 2; i >= 0; i-- {
		v /= 10
		if v != 0 {
			buf[i] = byte(v%10) + '0'
		}
	}
	return string(buf[:])
}

// Render returns the two panel lines. Each line ends in three spaces so a
// shorter value overwrites a longer one.
func Render(in Info) [2]string {
	var l1, l2 strings.Builder

	l1.WriteString("LYR " + glyph)
	l1.WriteString(Format4U(uint16(in.Layer)))
	l1.WriteString(" MV  " + glyph)
	l1.WriteString(Format4U(uint16(in.Movement)))
	l1.WriteByte('/')
	l1.WriteString(Format4U(uint16(in.ClickThreshold)))
	l1.WriteString("   ")

	l2.WriteString("ST  " + glyph)
	l2.WriteString(Format4U(uint16(in.ScrollStep)))
	l2.WriteString(" OS  " + glyph)
	l2.WriteString(in.OSCode)
	l2.WriteString("   ")

	return [2]string{l1.String(), l2.String()}
}
