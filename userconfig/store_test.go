package userconfig_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/automouse/eeprom"
	"github.com/Alia5/automouse/userconfig"
)

func blob(click, scroll int16) []byte {
	return []byte{byte(click), byte(uint16(click) >> 8), byte(scroll), byte(uint16(scroll) >> 8)}
}

func TestLoad(t *testing.T) {
	cases := []struct {
		name         string
		stored       []byte
		expected     userconfig.Config
		expectWrites int
	}{
		{
			name:         "erased memory gets defaults",
			stored:       nil,
			expected:     userconfig.Config{ClickActivationThreshold: 50, ScrollStepThreshold: 50},
			expectWrites: 1,
		},
		{
			name:         "valid blob is kept",
			stored:       blob(35, 120),
			expected:     userconfig.Config{ClickActivationThreshold: 35, ScrollStepThreshold: 120},
			expectWrites: 0,
		},
		{
			name:         "click threshold below floor is repaired",
			stored:       blob(4, 10),
			expected:     userconfig.Config{ClickActivationThreshold: 50, ScrollStepThreshold: 10},
			expectWrites: 1,
		},
		{
			name:         "scroll threshold zero is repaired",
			stored:       blob(20, 0),
			expected:     userconfig.Config{ClickActivationThreshold: 20, ScrollStepThreshold: 50},
			expectWrites: 1,
		},
		{
			name:         "scroll threshold above cap is repaired",
			stored:       blob(20, 201),
			expected:     userconfig.Config{ClickActivationThreshold: 20, ScrollStepThreshold: 50},
			expectWrites: 1,
		},
		{
			name:         "negative values are repaired",
			stored:       blob(-7, -1),
			expected:     userconfig.Config{ClickActivationThreshold: 50, ScrollStepThreshold: 50},
			expectWrites: 1,
		},
		{
			name:         "short blob reads as erased",
			stored:       []byte{1, 2},
			expected:     userconfig.Config{ClickActivationThreshold: 50, ScrollStepThreshold: 50},
			expectWrites: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mem := eeprom.NewMem()
			if tc.stored != nil {
				require.NoError(t, mem.Write(userconfig.Key, tc.stored))
			}
			before := mem.Writes()

			s := userconfig.NewStore(mem, nil)
			cfg, err := s.Load()
			require.NoError(t, err)
			assert.Equal(t, tc.expected, cfg)
			assert.Equal(t, tc.expected, s.Config())
			assert.Equal(t, tc.expectWrites, mem.Writes()-before)

			if tc.expectWrites > 0 {
				raw, err := mem.Read(userconfig.Key)
				require.NoError(t, err)
				assert.Equal(t, blob(tc.expected.ClickActivationThreshold, tc.expected.ScrollStepThreshold), raw)
			}
		})
	}
}

func TestAdjustmentsStayInBounds(t *testing.T) {
	mem := eeprom.NewMem()
	s := userconfig.NewStore(mem, nil)
	_, err := s.Load()
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		cfg, err := s.DecreaseClickActivation()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, cfg.ClickActivationThreshold, userconfig.MinClickActivation)

		cfg, err = s.IncreaseScrollSpeed()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, cfg.ScrollStepThreshold, userconfig.MinScrollStep)
	}
	assert.Equal(t, userconfig.Config{ClickActivationThreshold: 5, ScrollStepThreshold: 1}, s.Config())

	for i := 0; i < 100; i++ {
		cfg, err := s.DecreaseScrollSpeed()
		require.NoError(t, err)
		assert.LessOrEqual(t, cfg.ScrollStepThreshold, userconfig.MaxScrollStep)
	}
	assert.Equal(t, int16(200), s.Config().ScrollStepThreshold)

	_, err = s.Reset()
	require.NoError(t, err)
	cfg, err := s.IncreaseScrollSpeed()
	require.NoError(t, err)
	assert.Equal(t, int16(45), cfg.ScrollStepThreshold)
}

func TestClickActivationSaturates(t *testing.T) {
	mem := eeprom.NewMem()
	s := userconfig.NewStore(mem, nil)
	require.NoError(t, s.Save(userconfig.Config{ClickActivationThreshold: 32765, ScrollStepThreshold: 50}))

	cfg, err := s.IncreaseClickActivation()
	require.NoError(t, err)
	assert.Equal(t, userconfig.MaxClickActivation, cfg.ClickActivationThreshold)

	cfg, err = s.IncreaseClickActivation()
	require.NoError(t, err)
	assert.Equal(t, userconfig.MaxClickActivation, cfg.ClickActivationThreshold)
}

func TestEveryAdjustmentWritesOnce(t *testing.T) {
	mem := eeprom.NewMem()
	s := userconfig.NewStore(mem, nil)

	adjust := []func() (userconfig.Config, error){
		s.IncreaseClickActivation,
		s.DecreaseClickActivation,
		s.IncreaseScrollSpeed,
		s.DecreaseScrollSpeed,
	}
	for i, fn := range adjust {
		_, err := fn()
		require.NoError(t, err)
		assert.Equal(t, i+1, mem.Writes())
	}
}

func TestSaveClamps(t *testing.T) {
	mem := eeprom.NewMem()
	s := userconfig.NewStore(mem, nil)
	require.NoError(t, s.Save(userconfig.Config{ClickActivationThreshold: 1, ScrollStepThreshold: 900}))
	assert.Equal(t, userconfig.Config{ClickActivationThreshold: 5, ScrollStepThreshold: 200}, s.Config())

	reloaded := userconfig.NewStore(mem, nil)
	cfg, err := reloaded.Load()
	require.NoError(t, err)
	assert.Equal(t, s.Config(), cfg)
}

type failingStore struct{ err error }

func (f failingStore) Read(string) ([]byte, error) { return nil, f.err }
func (f failingStore) Write(string, []byte) error  { return f.err }

func TestBackingErrorsAreWrapped(t *testing.T) {
	boom := errors.New("boom")
	s := userconfig.NewStore(failingStore{err: boom}, nil)

	_, err := s.Load()
	assert.ErrorIs(t, err, boom)

	_, err = s.IncreaseScrollSpeed()
	assert.ErrorIs(t, err, boom)
}
