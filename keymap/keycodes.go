// Package keymap defines the keycodes the auto mouse layer intercepts and
// the layer stack it drives.
package keymap

import (
	"fmt"
	"strconv"
	"strings"
)

// Keycode is a 16-bit keymap action code.
type Keycode uint16

// SafeRange is the first keycode free for keymap-level custom actions.
const SafeRange Keycode = 0x7e40

const (
	Btn1 Keycode = SafeRange + iota
	Btn2
	Btn3
	Btn4
	Btn5
	Scroll
	ClickActivationInc
	ClickActivationDec
	// ScrollSpeedInc lowers the scroll step threshold.
	ScrollSpeedInc
	// ScrollSpeedDec raises the scroll step threshold.
	ScrollSpeedDec
)

var names = map[Keycode]string{
	Btn1:               "BTN1",
	Btn2:               "BTN2",
	Btn3:               "BTN3",
	Btn4:               "BTN4",
	Btn5:               "BTN5",
	Scroll:             "SCR",
	ClickActivationInc: "CLICK_INC",
	ClickActivationDec: "CLICK_DEC",
	ScrollSpeedInc:     "SCR_SPD_INC",
	ScrollSpeedDec:     "SCR_SPD_DEC",
}

// Button returns the logical button index (0-4) for Btn1..Btn5.
func (k Keycode) Button() (int, bool) {
	if k >= Btn1 && k <= Btn5 {
		return int(k - Btn1), true
	}
	return 0, false
}

func (k Keycode) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	if k >= kcA && k <= kcA+25 {
		return string(rune('A' + k - kcA))
	}
	return fmt.Sprintf("0x%04x", uint16(k))
}

// kcA is the HID usage of the A key; A..Z are contiguous.
const kcA Keycode = 0x04

// Parse accepts a custom keycode name, a single letter A-Z, or a number
// (decimal or 0x-prefixed hex).
func Parse(s string) (Keycode, error) {
	u := strings.ToUpper(strings.TrimSpace(s))
	u = strings.TrimPrefix(u, "KC_")
	for k, n := range names {
		if n == u {
			return k, nil
		}
	}
	if len(u) == 1 && u[0] >= 'A' && u[0] <= 'Z' {
		return kcA + Keycode(u[0]-'A'), nil
	}
	n, err := strconv.ParseUint(strings.ToLower(u), 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid keycode %q", s)
	}
	return Keycode(n), nil
}
