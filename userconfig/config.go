// Package userconfig holds the two tunable thresholds of the auto mouse
// layer and persists them as one blob.
package userconfig

import "math"

const (
	DefaultClickActivation int16 = 50
	DefaultScrollStep      int16 = 50

	MinClickActivation int16 = 5
	MaxClickActivation int16 = math.MaxInt16
	MinScrollStep      int16 = 1
	MaxScrollStep      int16 = 200

	// Step is the amount one adjustment key changes a threshold by.
	Step int16 = 5
)

// Config is the persisted user configuration.
type Config struct {
	// ClickActivationThreshold is the motion needed while waiting before
	// the click layer is armed.
	ClickActivationThreshold int16 `json:"clickActivationThreshold" yaml:"clickActivationThreshold" toml:"clickActivationThreshold"`
	// ScrollStepThreshold is the motion per emitted scroll step.
	ScrollStepThreshold int16 `json:"scrollStepThreshold" yaml:"scrollStepThreshold" toml:"scrollStepThreshold"`
}

// Defaults returns the factory configuration.
func Defaults() Config {
	return Config{
		ClickActivationThreshold: DefaultClickActivation,
		ScrollStepThreshold:      DefaultScrollStep,
	}
}

// Clamped returns c with both fields forced into their bounds.
func (c Config) Clamped() Config {
	c.ClickActivationThreshold = clamp(c.ClickActivationThreshold, MinClickActivation, MaxClickActivation)
	c.ScrollStepThreshold = clamp(c.ScrollStepThreshold, MinScrollStep, MaxScrollStep)
	return c
}

// repaired replaces each out-of-bounds field with its default. It reports
// whether anything changed.
func (c Config) repaired() (Config, bool) {
	changed := false
	if c.ClickActivationThreshold < MinClickActivation {
		c.ClickActivationThreshold = DefaultClickActivation
		changed = true
	}
	if c.ScrollStepThreshold < MinScrollStep || c.ScrollStepThreshold > MaxScrollStep {
		c.ScrollStepThreshold = DefaultScrollStep
		changed = true
	}
	return c, changed
}

// add returns v+d saturated to [lo, hi] without int16 wraparound.
func add(v, d, lo, hi int16) int16 {
	return clamp16(int32(v)+int32(d), lo, hi)
}

func clamp(v, lo, hi int16) int16 {
	return clamp16(int32(v), lo, hi)
}

func clamp16(v int32, lo, hi int16) int16 {
	if v < int32(lo) {
		return lo
	}
	if v > int32(hi) {
		return hi
	}
	return int16(v)
}
