package eeprom

import (
	"io"
	"path/filepath"
	"strings"
)

// Open picks a backend from the path: empty selects memory, a .db/.sqlite
// suffix selects SQLite, anything else the YAML file store.
func Open(path string) (Store, io.Closer, error) {
	if path == "" {
		return NewMem(), io.NopCloser(nil), nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return NewFile(path), io.NopCloser(nil), nil
	}
}
