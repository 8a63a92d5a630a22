package userconfig

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Alia5/automouse/eeprom"
)

// Key is the fixed identifier the configuration blob is stored under.
const Key = "user"

const blobSize = 4

// Store owns the in-memory configuration and writes it back to the
// backing eeprom.Store after every mutation.
type Store struct {
	mu      sync.Mutex
	backing eeprom.Store
	cfg     Config
	logger  *slog.Logger
}

// NewStore wraps backing. The in-memory value is Defaults() until Load.
func NewStore(backing eeprom.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{backing: backing, cfg: Defaults(), logger: logger}
}

// Load reads the persisted configuration. Missing or out-of-bounds fields
// are replaced by their defaults and the repaired value is written back.
func (s *Store) Load() (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cfg Config
	raw, err := s.backing.Read(Key)
	switch {
	case errors.Is(err, eeprom.ErrNotFound):
		// erased memory reads as zero, which the repair below fixes
	case err != nil:
		return s.cfg, fmt.Errorf("load user config: %w", err)
	default:
		cfg = decode(raw)
	}

	cfg, changed := cfg.repaired()
	s.cfg = cfg
	if changed {
		s.logger.Info("repaired user config", "clickActivation", cfg.ClickActivationThreshold, "scrollStep", cfg.ScrollStepThreshold)
		if err := s.write(cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// Save clamps cfg and persists it.
func (s *Store) Save(cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg.Clamped()
	return s.write(s.cfg)
}

// Reset restores and persists the defaults.
func (s *Store) Reset() (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = Defaults()
	return s.cfg, s.write(s.cfg)
}

// Config returns the current configuration.
func (s *Store) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// IncreaseClickActivation raises the click activation threshold by Step.
func (s *Store) IncreaseClickActivation() (Config, error) {
	return s.update(func(c *Config) {
		c.ClickActivationThreshold = add(c.ClickActivationThreshold, Step, MinClickActivation, MaxClickActivation)
	})
}

// DecreaseClickActivation lowers the click activation threshold by Step.
func (s *Store) DecreaseClickActivation() (Config, error) {
	return s.update(func(c *Config) {
		c.ClickActivationThreshold = add(c.ClickActivationThreshold, -Step, MinClickActivation, MaxClickActivation)
	})
}

// IncreaseScrollSpeed lowers the scroll step threshold so fewer motion
// units produce a scroll step.
func (s *Store) IncreaseScrollSpeed() (Config, error) {
	return s.update(func(c *Config) {
		c.ScrollStepThreshold = add(c.ScrollStepThreshold, -Step, MinScrollStep, MaxScrollStep)
	})
}

// DecreaseScrollSpeed raises the scroll step threshold.
func (s *Store) DecreaseScrollSpeed() (Config, error) {
	return s.update(func(c *Config) {
		c.ScrollStepThreshold = add(c.ScrollStepThreshold, Step, MinScrollStep, MaxScrollStep)
	})
}

func (s *Store) update(fn func(*Config)) (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.cfg
	fn(&cfg)
	s.cfg = cfg.Clamped()
	return s.cfg, s.write(s.cfg)
}

func (s *Store) write(cfg Config) error {
	if err := s.backing.Write(Key, encode(cfg)); err != nil {
		return fmt.Errorf("save user config: %w", err)
	}
	return nil
}

// encode lays the config out like the firmware's 32-bit union: two
// little-endian int16 values.
func encode(c Config) []byte {
	b := make([]byte, blobSize)
	binary.LittleEndian.PutUint16(b[0:], uint16(c.ClickActivationThreshold))
	binary.LittleEndian.PutUint16(b[2:], uint16(c.ScrollStepThreshold))
	return b
}

func decode(b []byte) Config {
	if len(b) < blobSize {
		return Config{}
	}
	return Config{
		ClickActivationThreshold: int16(binary.LittleEndian.Uint16(b[0:])),
		ScrollStepThreshold:      int16(binary.LittleEndian.Uint16(b[2:])),
	}
}
