// Package firmware wires the auto mouse layer into a keyboard: key
// records, pointing-device ticks, the layer stack, persisted thresholds
// and host OS detection.
package firmware

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Alia5/automouse/automouse"
	"github.com/Alia5/automouse/device/mouse"
	"github.com/Alia5/automouse/hostos"
	"github.com/Alia5/automouse/keymap"
	"github.com/Alia5/automouse/status"
	"github.com/Alia5/automouse/userconfig"
)

// Sender delivers a report to the host out of band.
type Sender interface {
	SendReport(mouse.Report) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(mouse.Report) error

func (f SenderFunc) SendReport(r mouse.Report) error { return f(r) }

// Options configures a Keyboard.
type Options struct {
	// Classifier detects the host OS at Init. Nil means the capability is
	// absent.
	Classifier hostos.Classifier
	// SettleDelay is waited before classifying.
	SettleDelay time.Duration
	Logger      *slog.Logger
}

// Keyboard is one keyboard half with a trackball. It is driven from a
// single loop: ProcessRecord for key events, PointingTask once per tick.
type Keyboard struct {
	store    *userconfig.Store
	layers   *keymap.Stack
	machine  *automouse.Machine
	observer *automouse.Observer
	sender   Sender
	logger   *slog.Logger
	opts     Options

	report     mouse.Report
	scrollMode bool
	host       hostos.Detection
}

// New builds a Keyboard. Call Init before feeding events.
func New(store *userconfig.Store, sender Sender, opts Options) *Keyboard {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	k := &Keyboard{
		store:  store,
		layers: &keymap.Stack{},
		sender: sender,
		logger: logger,
		opts:   opts,
	}
	k.machine = automouse.New(store, k.layers, (*pointer)(k), automouse.Options{Logger: logger})
	k.observer = automouse.NewObserver(k.machine, k, automouse.ScrollLayer)
	k.layers.SetObserver(k.observer.OnLayerChange)
	return k
}

// Init loads the persisted thresholds and classifies the host once.
func (k *Keyboard) Init(ctx context.Context) error {
	cfg, err := k.store.Load()
	if err != nil {
		return fmt.Errorf("init keyboard: %w", err)
	}
	host, err := hostos.Detect(ctx, k.opts.Classifier, k.opts.SettleDelay)
	if err != nil {
		return fmt.Errorf("detect host os: %w", err)
	}
	k.host = host
	k.machine.SetInvertScroll(host.InvertScroll())
	k.logger.Info("keyboard ready",
		"clickActivation", cfg.ClickActivationThreshold,
		"scrollStep", cfg.ScrollStepThreshold,
		"os", host.Code(),
		"invertScroll", host.InvertScroll(),
	)
	return nil
}

// ProcessRecord handles one key event. It returns false when the key was
// consumed and must not reach the host.
func (k *Keyboard) ProcessRecord(code keymap.Keycode, pressed bool, now automouse.Millis) bool {
	if i, ok := code.Button(); ok {
		if pressed {
			k.machine.PressButton(i)
		} else {
			k.machine.ReleaseButton(i, now)
		}
		return false
	}

	switch code {
	case keymap.Scroll:
		if pressed {
			k.machine.PressScroll()
		} else {
			k.machine.ReleaseScroll(now)
		}
		return false

	case keymap.ClickActivationInc, keymap.ClickActivationDec, keymap.ScrollSpeedInc, keymap.ScrollSpeedDec:
		if pressed {
			k.adjust(code)
		}
		return false

	default:
		if pressed {
			k.machine.OtherKey()
		}
		return true
	}
}

func (k *Keyboard) adjust(code keymap.Keycode) {
	var (
		cfg userconfig.Config
		err error
	)
	switch code {
	case keymap.ClickActivationInc:
		cfg, err = k.store.IncreaseClickActivation()
	case keymap.ClickActivationDec:
		cfg, err = k.store.DecreaseClickActivation()
	case keymap.ScrollSpeedInc:
		cfg, err = k.store.IncreaseScrollSpeed()
	case keymap.ScrollSpeedDec:
		cfg, err = k.store.DecreaseScrollSpeed()
	}
	if err != nil {
		k.logger.Error("persist user config", "key", code.String(), "error", err)
		return
	}
	k.logger.Debug("user config adjusted", "key", code.String(),
		"clickActivation", cfg.ClickActivationThreshold, "scrollStep", cfg.ScrollStepThreshold)
}

// PointingTask runs one scan tick on the sensor motion in r and returns
// the report to forward, carrying the current button mask.
func (k *Keyboard) PointingTask(r mouse.Report, now automouse.Millis) mouse.Report {
	r.Buttons = k.report.Buttons
	return k.machine.Step(r, now)
}

// SetScrollMode switches the keyboard's built-in scroll processing.
func (k *Keyboard) SetScrollMode(enabled bool) { k.scrollMode = enabled }

// ScrollMode reports whether built-in scroll processing is on.
func (k *Keyboard) ScrollMode() bool { return k.scrollMode }

// Layers exposes the layer stack, e.g. for layer-tap keys.
func (k *Keyboard) Layers() *keymap.Stack { return k.layers }

// Machine exposes the state machine for inspection.
func (k *Keyboard) Machine() *automouse.Machine { return k.machine }

// Host returns the startup OS detection.
func (k *Keyboard) Host() hostos.Detection { return k.host }

// Buttons returns the current button mask.
func (k *Keyboard) Buttons() uint8 { return k.report.Buttons }

// Status snapshots the display panel contents.
func (k *Keyboard) Status() status.Info {
	cfg := k.store.Config()
	return status.Info{
		Layer:          k.layers.Highest(),
		Movement:       k.machine.WaitingMovement(),
		ClickThreshold: cfg.ClickActivationThreshold,
		ScrollStep:     cfg.ScrollStepThreshold,
		OSCode:         k.host.Code(),
	}
}

// pointer is the Keyboard seen as the machine's report accessor. Only the
// button mask outlives a tick; deltas are cleared after every send.
type pointer Keyboard

func (p *pointer) Report() mouse.Report { return p.report }

func (p *pointer) SetReport(r mouse.Report) { p.report = r }

func (p *pointer) Send() {
	if p.sender == nil {
		return
	}
	if err := p.sender.SendReport(p.report); err != nil {
		p.logger.Warn("send report", "error", err)
	}
	p.report = mouse.Report{Buttons: p.report.Buttons}
}
