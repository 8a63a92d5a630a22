// Package automouse implements the auto mouse layer: a state machine that
// decides from trackball motion and key events whether the user is typing,
// about to click, clicking or scrolling, and rewrites the pointer report
// to match.
package automouse

import (
	"log/slog"

	"github.com/Alia5/automouse/device/mouse"
	"github.com/Alia5/automouse/userconfig"
)

const (
	// ClickLayer is the layer holding the click and scroll keys.
	ClickLayer uint8 = 6
	// ScrollLayer is the layer that turns the trackball into a scroll wheel
	// while held.
	ScrollLayer uint8 = 3

	// WaitingTimeout is how long WAITING tolerates no motion.
	WaitingTimeout Millis = 50
	// ClickableTimeout is how long CLICKABLE tolerates no motion.
	ClickableTimeout Millis = 5000
	// AfterClickLock is the motion swallowed right after a button press.
	AfterClickLock int32 = 30
)

// Thresholds supplies the current user configuration. It is read on every
// decision so adjustments take effect on the next tick.
type Thresholds interface {
	Config() userconfig.Config
}

// Layers turns keymap layers on and off.
type Layers interface {
	LayerOn(layer uint8)
	LayerOff(layer uint8)
}

// Pointer gives access to the current frame's report. Send flushes it to
// the host immediately, ahead of the next tick.
type Pointer interface {
	Report() mouse.Report
	SetReport(mouse.Report)
	Send()
}

// Options tunes a Machine.
type Options struct {
	// ClickLayer overrides the reserved click layer id. Zero selects
	// ClickLayer.
	ClickLayer uint8
	// InvertScroll negates emitted wheel steps.
	InvertScroll bool
	Logger       *slog.Logger
}

// Machine is the auto mouse layer state machine. It is not safe for
// concurrent use; all calls are expected from the single scan loop.
type Machine struct {
	state        State
	cfg          Thresholds
	layers       Layers
	pointer      Pointer
	clickLayer   uint8
	invertScroll bool
	logger       *slog.Logger
}

// New returns a Machine in NONE.
func New(cfg Thresholds, layers Layers, pointer Pointer, opts Options) *Machine {
	m := &Machine{
		state:        None{},
		cfg:          cfg,
		layers:       layers,
		pointer:      pointer,
		clickLayer:   opts.ClickLayer,
		invertScroll: opts.InvertScroll,
		logger:       opts.Logger,
	}
	if m.clickLayer == 0 {
		m.clickLayer = ClickLayer
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Kind returns the kind of the current state.
func (m *Machine) Kind() Kind { return m.state.Kind() }

// InvertScroll reports whether wheel output is negated.
func (m *Machine) InvertScroll() bool { return m.invertScroll }

// SetInvertScroll sets wheel output negation.
func (m *Machine) SetInvertScroll(v bool) { m.invertScroll = v }

// WaitingMovement returns the motion accumulated towards the click
// activation threshold, zero outside WAITING.
func (m *Machine) WaitingMovement() uint32 {
	if w, ok := m.state.(Waiting); ok {
		return w.Movement
	}
	return 0
}

// Step runs one scan tick over r and returns the report to forward.
func (m *Machine) Step(r mouse.Report, now Millis) mouse.Report {
	if r.HasMotion() {
		return m.stepMotion(r, now)
	}
	m.stepIdle(now)
	return r
}

func (m *Machine) stepMotion(r mouse.Report, now Millis) mouse.Report {
	switch s := m.state.(type) {
	case Clickable:
		m.setState(Clickable{Since: now})

	case Clicking:
		s.LockMovement -= abs(int32(r.X)) + abs(int32(r.Y))
		if s.LockMovement > 0 {
			r.X, r.Y = 0, 0
		}
		m.state = s

	case Scrolling:
		r.H, r.V = m.scroll(&s, r.X, r.Y)
		r.X, r.Y = 0, 0
		m.state = s

	case Waiting:
		s.Movement += uint32(abs(int32(r.X)) + abs(int32(r.Y)) + abs(int32(r.H)) + abs(int32(r.V)))
		if int64(s.Movement) >= int64(m.cfg.Config().ClickActivationThreshold) {
			m.enableClickLayer(now)
		} else {
			m.state = s
		}

	default:
		m.setState(Waiting{Since: now})
	}
	return r
}

func (m *Machine) stepIdle(now Millis) {
	switch s := m.state.(type) {
	case Clicking, Scrolling:
		// held until the button or scroll key is released

	case Clickable:
		if now.Since(s.Since) > ClickableTimeout {
			m.disableClickLayer()
		}

	case Waiting:
		if now.Since(s.Since) > WaitingTimeout {
			m.setState(None{})
		}

	default:
		m.setState(None{})
	}
}

// PressButton handles a press of logical button i (0-4): the button bit
// is set, the machine enters CLICKING and the report is flushed at once.
func (m *Machine) PressButton(i int) {
	bit := mouse.ButtonBit(i)
	if bit == 0 {
		return
	}
	r := m.pointer.Report()
	r.Buttons |= bit
	m.setState(Clicking{LockMovement: AfterClickLock})
	m.pointer.SetReport(r)
	m.pointer.Send()
}

// ReleaseButton handles a release of logical button i: the bit is
// cleared, the click layer re-armed and the report flushed at once.
func (m *Machine) ReleaseButton(i int, now Millis) {
	bit := mouse.ButtonBit(i)
	if bit == 0 {
		return
	}
	r := m.pointer.Report()
	r.Buttons &^= bit
	m.enableClickLayer(now)
	m.pointer.SetReport(r)
	m.pointer.Send()
}

// PressScroll enters SCROLLING. Pressing it again while scrolling keeps the
// carried remainder.
func (m *Machine) PressScroll() {
	if _, ok := m.state.(Scrolling); ok {
		return
	}
	m.setState(Scrolling{})
}

// ReleaseScroll re-arms the click layer.
func (m *Machine) ReleaseScroll(now Millis) {
	m.enableClickLayer(now)
}

// OtherKey cancels mouse mode. Any key that is not a mouse key calls it on
// press, so typing always wins.
func (m *Machine) OtherKey() {
	m.disableClickLayer()
}

// enterScrolling is used by the layer observer. It turns the click layer
// off and starts scrolling with empty accumulators.
func (m *Machine) enterScrolling() {
	m.disableClickLayer()
	m.setState(Scrolling{})
}

// leaveScrolling resets to NONE if scrolling. It reports whether it did.
func (m *Machine) leaveScrolling() bool {
	if _, ok := m.state.(Scrolling); !ok {
		return false
	}
	m.setState(None{})
	return true
}

func (m *Machine) enableClickLayer(now Millis) {
	m.layers.LayerOn(m.clickLayer)
	m.setState(Clickable{Since: now})
}

func (m *Machine) disableClickLayer() {
	m.setState(None{})
	m.layers.LayerOff(m.clickLayer)
}

func (m *Machine) setState(next State) {
	prev := m.state
	m.state = next
	if prev.Kind() != next.Kind() {
		m.logger.Debug("auto mouse state", "from", prev.Kind().String(), "to", next.Kind().String())
	}
}

func abs(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
