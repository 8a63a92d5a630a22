package eeprom

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/blake2b"
	yaml "gopkg.in/yaml.v3"
)

type fileEntry struct {
	Value  string `yaml:"value"`
	Digest string `yaml:"digest"`
}

// File is a Store backed by a single YAML document. Every blob is stored
// with its BLAKE2b-256 digest; a blob whose digest does not match reads as
// ErrNotFound so callers fall back to defaults.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile returns a Store persisting to path. The file is created on the
// first Write.
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Read(key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return nil, err
	}
	e, ok := doc[key]
	if !ok {
		return nil, ErrNotFound
	}
	data, err := hex.DecodeString(e.Value)
	if err != nil {
		return nil, ErrNotFound
	}
	if digest(data) != e.Digest {
		return nil, ErrNotFound
	}
	return data, nil
}

func (f *File) Write(key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return err
	}
	doc[key] = fileEntry{Value: hex.EncodeToString(data), Digest: digest(data)}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode eeprom file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create eeprom dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return fmt.Errorf("write eeprom file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace eeprom file: %w", err)
	}
	return nil
}

func (f *File) load() (map[string]fileEntry, error) {
	doc := map[string]fileEntry{}
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, nil
		}
		return nil, fmt.Errorf("read eeprom file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		// A mangled file is treated like erased memory.
		return map[string]fileEntry{}, nil
	}
	if doc == nil {
		doc = map[string]fileEntry{}
	}
	return doc, nil
}

func digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
