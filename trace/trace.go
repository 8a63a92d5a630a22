// Package trace replays scripted keyboard sessions through the firmware
// and records what the host would receive.
//
// A script is a list of steps, each at a millisecond timestamp:
//
//	os: linux
//	steps:
//	  - {at: 0, motion: [1, 0]}
//	  - {at: 5, key: BTN1, action: press}
//	  - {at: 9, layer: on 3}
package trace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/Alia5/automouse/automouse"
	"github.com/Alia5/automouse/device/mouse"
	"github.com/Alia5/automouse/firmware"
	"github.com/Alia5/automouse/hostos"
	"github.com/Alia5/automouse/keymap"
	"github.com/Alia5/automouse/status"
	"github.com/Alia5/automouse/userconfig"
)

// ErrInvalidStep is wrapped by errors about malformed steps.
var ErrInvalidStep = errors.New("invalid step")

// Script is a replayable session.
type Script struct {
	// OS is the classified host; empty means detection is unavailable.
	OS string `json:"os,omitempty" yaml:"os,omitempty" toml:"os,omitempty"`
	// Config, when nonzero, is saved before the keyboard starts.
	Config userconfig.Config `json:"config,omitempty" yaml:"config,omitempty" toml:"config,omitempty"`
	Steps  []Step            `json:"steps" yaml:"steps" toml:"steps"`
}

// Step is one event. Exactly one of Motion, Key or Layer is set.
type Step struct {
	At uint32 `json:"at" yaml:"at" toml:"at"`
	// Motion is [x, y] or [x, y, h, v]. [0, 0] is an idle tick.
	Motion []int16 `json:"motion,omitempty" yaml:"motion,omitempty" toml:"motion,omitempty"`
	Key    string  `json:"key,omitempty" yaml:"key,omitempty" toml:"key,omitempty"`
	// Action is press, release or tap (the default).
	Action string `json:"action,omitempty" yaml:"action,omitempty" toml:"action,omitempty"`
	// Layer is "on N", "off N" or "toggle N".
	Layer string `json:"layer,omitempty" yaml:"layer,omitempty" toml:"layer,omitempty"`
}

// Output is what one step produced.
type Output struct {
	At automouse.Millis
	// Report is the forwarded report for motion steps.
	Report *mouse.Report
	// Flushed are reports sent out of band during the step.
	Flushed []mouse.Report
	// PassThrough is false when a key step was consumed.
	PassThrough bool
	State       automouse.Kind
	Status      status.Info
}

// Load reads a script, choosing the decoder from the file extension.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Decode(data, filepath.Ext(path))
}

// Decode parses data as YAML (.yaml, .yml), TOML (.toml) or JSON (.json).
func Decode(data []byte, ext string) (*Script, error) {
	var s Script
	var err error
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &s)
	case ".toml":
		err = toml.Unmarshal(data, &s)
	case ".json":
		err = json.Unmarshal(data, &s)
	default:
		return nil, fmt.Errorf("unsupported script format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	return &s, nil
}

// Run replays s on a fresh keyboard backed by store.
func Run(ctx context.Context, s *Script, store *userconfig.Store, logger *slog.Logger) ([]Output, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if s.Config != (userconfig.Config{}) {
		if err := store.Save(s.Config); err != nil {
			return nil, err
		}
	}

	var flushed []mouse.Report
	kb := firmware.New(store, firmware.SenderFunc(func(r mouse.Report) error {
		flushed = append(flushed, r)
		return nil
	}), firmware.Options{Classifier: classifier(s.OS), Logger: logger})
	if err := kb.Init(ctx); err != nil {
		return nil, err
	}

	outs := make([]Output, 0, len(s.Steps))
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return outs, err
		}
		flushed = nil
		now := automouse.Millis(st.At)
		out := Output{At: now, PassThrough: true}

		switch {
		case st.Motion != nil:
			r, err := st.report()
			if err != nil {
				return outs, fmt.Errorf("step %d: %w", i, err)
			}
			fwd := kb.PointingTask(r, now)
			out.Report = &fwd
		case st.Key != "":
			code, err := keymap.Parse(st.Key)
			if err != nil {
				return outs, fmt.Errorf("step %d: %w: %w", i, ErrInvalidStep, err)
			}
			switch strings.ToLower(st.Action) {
			case "press":
				out.PassThrough = kb.ProcessRecord(code, true, now)
			case "release":
				out.PassThrough = kb.ProcessRecord(code, false, now)
			case "tap", "":
				out.PassThrough = kb.ProcessRecord(code, true, now)
				kb.ProcessRecord(code, false, now)
			default:
				return outs, fmt.Errorf("step %d: %w: action %q", i, ErrInvalidStep, st.Action)
			}
		case st.Layer != "":
			if err := applyLayer(kb.Layers(), st.Layer); err != nil {
				return outs, fmt.Errorf("step %d: %w", i, err)
			}
		default:
			return outs, fmt.Errorf("step %d: %w: no event", i, ErrInvalidStep)
		}

		out.Flushed = flushed
		out.State = kb.Machine().Kind()
		out.Status = kb.Status()
		outs = append(outs, out)
	}
	return outs, nil
}

func (st Step) report() (mouse.Report, error) {
	m := st.Motion
	switch len(m) {
	case 2:
		return mouse.Report{X: m[0], Y: m[1]}, nil
	case 4:
		return mouse.Report{X: m[0], Y: m[1], H: m[2], V: m[3]}, nil
	default:
		return mouse.Report{}, fmt.Errorf("%w: motion needs 2 or 4 values, got %d", ErrInvalidStep, len(m))
	}
}

func applyLayer(s *keymap.Stack, expr string) error {
	fields := strings.Fields(expr)
	if len(fields) != 2 {
		return fmt.Errorf("%w: layer %q", ErrInvalidStep, expr)
	}
	n, err := strconv.ParseUint(fields[1], 10, 8)
	if err != nil || n >= keymap.MaxLayers {
		return fmt.Errorf("%w: layer %q", ErrInvalidStep, expr)
	}
	layer := uint8(n)
	switch strings.ToLower(fields[0]) {
	case "on":
		s.LayerOn(layer)
	case "off":
		s.LayerOff(layer)
	case "toggle":
		s.Toggle(layer)
	default:
		return fmt.Errorf("%w: layer %q", ErrInvalidStep, expr)
	}
	return nil
}

func classifier(name string) hostos.Classifier {
	if name == "" {
		return nil
	}
	return hostos.Fixed(hostos.Parse(name))
}
