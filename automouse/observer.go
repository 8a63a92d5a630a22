package automouse

// ScrollMode switches the keyboard's built-in scroll processing. The
// machine owns scroll semantics, so the observer only ever turns it off.
type ScrollMode interface {
	SetScrollMode(enabled bool)
}

// Observer bridges layer stack changes to the Machine.
type Observer struct {
	machine     *Machine
	scrollMode  ScrollMode
	scrollLayer uint8
}

// NewObserver returns an Observer treating scrollLayer as the dedicated
// scroll layer. Zero selects ScrollLayer.
func NewObserver(m *Machine, scrollMode ScrollMode, scrollLayer uint8) *Observer {
	if scrollLayer == 0 {
		scrollLayer = ScrollLayer
	}
	return &Observer{machine: m, scrollMode: scrollMode, scrollLayer: scrollLayer}
}

// OnLayerChange must be called with the highest active layer after every
// layer stack mutation.
func (o *Observer) OnLayerChange(highest uint8) {
	o.scrollMode.SetScrollMode(false)
	if highest == o.scrollLayer {
		o.machine.enterScrolling()
		return
	}
	o.machine.leaveScrolling()
}
