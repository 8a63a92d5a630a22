// Package eeprom provides blob persistence keyed by a fixed identifier,
// standing in for the keyboard's byte-addressable user EEPROM area.
package eeprom

import (
	"errors"
	"sync"
)

// ErrNotFound is returned by Read when no blob is stored under the key.
var ErrNotFound = errors.New("eeprom: key not found")

// Store reads and writes whole blobs. A Write replaces the previous blob
// for the key in one unit.
type Store interface {
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
}

// Mem is an in-memory Store.
type Mem struct {
	mu     sync.Mutex
	blobs  map[string][]byte
	writes int
}

// NewMem returns an empty in-memory store.
func NewMem() *Mem {
	return &Mem{blobs: map[string][]byte{}}
}

func (m *Mem) Read(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (m *Mem) Write(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = append([]byte(nil), data...)
	m.writes++
	return nil
}

// Writes returns how many writes the store has accepted.
func (m *Mem) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
