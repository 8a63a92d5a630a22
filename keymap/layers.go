package keymap

import "math/bits"

// MaxLayers is the number of layers a Stack can hold.
const MaxLayers = 32

// Stack is the keymap's active layer set. Every change is reported to the
// observer with the resulting highest active layer; calls that do not
// change the set are not reported. The observer runs synchronously and may
// itself mutate the stack.
type Stack struct {
	state    uint32
	observer func(highest uint8)
}

// SetObserver installs fn as the change observer.
func (s *Stack) SetObserver(fn func(highest uint8)) {
	s.observer = fn
}

// State returns the active layer bitmask.
func (s *Stack) State() uint32 { return s.state }

// IsOn reports whether layer is active.
func (s *Stack) IsOn(layer uint8) bool {
	return layer < MaxLayers && s.state&(1<<layer) != 0
}

// Highest returns the highest active layer, 0 when none is.
func (s *Stack) Highest() uint8 {
	return highest(s.state)
}

// LayerOn activates layer.
func (s *Stack) LayerOn(layer uint8) {
	if layer >= MaxLayers {
		return
	}
	s.set(s.state | 1<<layer)
}

// LayerOff deactivates layer.
func (s *Stack) LayerOff(layer uint8) {
	if layer >= MaxLayers {
		return
	}
	s.set(s.state &^ (1 << layer))
}

// Toggle flips layer.
func (s *Stack) Toggle(layer uint8) {
	if layer >= MaxLayers {
		return
	}
	s.set(s.state ^ 1<<layer)
}

// Clear deactivates every layer.
func (s *Stack) Clear() {
	s.set(0)
}

func (s *Stack) set(next uint32) {
	if next == s.state {
		return
	}
	s.state = next
	if s.observer != nil {
		s.observer(highest(next))
	}
}

func highest(state uint32) uint8 {
	if state == 0 {
		return 0
	}
	return uint8(31 - bits.LeadingZeros32(state))
}
