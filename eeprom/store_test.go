package eeprom_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/automouse/eeprom"
)

func backends(t *testing.T) map[string]eeprom.Store {
	t.Helper()
	dir := t.TempDir()
	sq, err := eeprom.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })
	return map[string]eeprom.Store{
		"mem":    eeprom.NewMem(),
		"file":   eeprom.NewFile(filepath.Join(dir, "eeprom.yaml")),
		"sqlite": sq,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Read("user")
			assert.ErrorIs(t, err, eeprom.ErrNotFound)

			require.NoError(t, s.Write("user", []byte{1, 2, 3, 4}))
			got, err := s.Read("user")
			require.NoError(t, err)
			assert.Equal(t, []byte{1, 2, 3, 4}, got)

			require.NoError(t, s.Write("user", []byte{9, 9, 9, 9}))
			got, err = s.Read("user")
			require.NoError(t, err)
			assert.Equal(t, []byte{9, 9, 9, 9}, got)

			_, err = s.Read("other")
			assert.ErrorIs(t, err, eeprom.ErrNotFound)
		})
	}
}

func TestFileDigestMismatchReadsAsMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eeprom.yaml")
	s := eeprom.NewFile(path)
	require.NoError(t, s.Write("user", []byte{0x32, 0x00, 0x32, 0x00}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	tampered := []byte(string(raw))
	for i := range tampered {
		// flip the first hex digit of the stored value
		if tampered[i] == '3' {
			tampered[i] = '4'
			break
		}
	}
	require.NoError(t, os.WriteFile(path, tampered, 0o644))

	_, err = s.Read("user")
	assert.ErrorIs(t, err, eeprom.ErrNotFound)
}

func TestFileGarbageIsErased(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eeprom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("::: not yaml"), 0o644))
	s := eeprom.NewFile(path)

	_, err := s.Read("user")
	assert.ErrorIs(t, err, eeprom.ErrNotFound)
	require.NoError(t, s.Write("user", []byte{1}))
	got, err := s.Read("user")
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, got)
}

func TestOpenSelectsBackend(t *testing.T) {
	dir := t.TempDir()

	s, c, err := eeprom.Open("")
	require.NoError(t, err)
	assert.IsType(t, &eeprom.Mem{}, s)
	assert.NoError(t, c.Close())

	s, c, err = eeprom.Open(filepath.Join(dir, "cfg.yaml"))
	require.NoError(t, err)
	assert.IsType(t, &eeprom.File{}, s)
	assert.NoError(t, c.Close())

	s, c, err = eeprom.Open(filepath.Join(dir, "cfg.db"))
	require.NoError(t, err)
	assert.IsType(t, &eeprom.SQLite{}, s)
	assert.NoError(t, c.Close())
}

func TestMemCountsWrites(t *testing.T) {
	m := eeprom.NewMem()
	assert.Equal(t, 0, m.Writes())
	require.NoError(t, m.Write("a", nil))
	require.NoError(t, m.Write("a", []byte{1}))
	assert.Equal(t, 2, m.Writes())
}
