package automouse_test

import (
	"github.com/Alia5/automouse/automouse"
	"github.com/Alia5/automouse/device/mouse"
	"github.com/Alia5/automouse/userconfig"
)

type fixedConfig struct{ cfg userconfig.Config }

func (f *fixedConfig) Config() userconfig.Config { return f.cfg }

type fakeLayers struct {
	on       map[uint8]bool
	onChange func(highest uint8)
}

func (f *fakeLayers) LayerOn(l uint8) {
	if f.on[l] {
		return
	}
	f.on[l] = true
	f.notify()
}

func (f *fakeLayers) LayerOff(l uint8) {
	if !f.on[l] {
		return
	}
	delete(f.on, l)
	f.notify()
}

func (f *fakeLayers) notify() {
	if f.onChange == nil {
		return
	}
	var highest uint8
	for l := range f.on {
		if l > highest {
			highest = l
		}
	}
	f.onChange(highest)
}

type fakePointer struct {
	report mouse.Report
	sent   []mouse.Report
}

func (f *fakePointer) Report() mouse.Report     { return f.report }
func (f *fakePointer) SetReport(r mouse.Report) { f.report = r }
func (f *fakePointer) Send()                    { f.sent = append(f.sent, f.report) }

type fakeScrollMode struct {
	calls   int
	enabled bool
}

func (f *fakeScrollMode) SetScrollMode(enabled bool) {
	f.calls++
	f.enabled = enabled
}

type rig struct {
	cfg        *fixedConfig
	layers     *fakeLayers
	pointer    *fakePointer
	scrollMode *fakeScrollMode
	machine    *automouse.Machine
	observer   *automouse.Observer
}

func newRig(click, scroll int16, invert bool) *rig {
	r := &rig{
		cfg:        &fixedConfig{cfg: userconfig.Config{ClickActivationThreshold: click, ScrollStepThreshold: scroll}},
		layers:     &fakeLayers{on: map[uint8]bool{}},
		pointer:    &fakePointer{},
		scrollMode: &fakeScrollMode{enabled: true},
	}
	r.machine = automouse.New(r.cfg, r.layers, r.pointer, automouse.Options{InvertScroll: invert})
	r.observer = automouse.NewObserver(r.machine, r.scrollMode, 0)
	r.layers.onChange = r.observer.OnLayerChange
	return r
}

func (r *rig) clickLayerOn() bool { return r.layers.on[automouse.ClickLayer] }

// toClickable drives the machine from NONE to CLICKABLE at time now.
func (r *rig) toClickable(now automouse.Millis) {
	r.machine.Step(mouse.Report{X: 1}, now)
	r.machine.Step(mouse.Report{X: r.cfg.cfg.ClickActivationThreshold}, now)
}

func move(x, y int16) mouse.Report { return mouse.Report{X: x, Y: y} }
