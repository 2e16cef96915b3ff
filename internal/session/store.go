package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// FileName is the default file name of the persisted selection.
const FileName = "session.yaml"

// Store persists a [Selection] between CLI invocations so that a later command
// can read what an action selected.
type Store struct {
	fs   afero.Fs
	path string
}

// NewStore creates a [Store] writing to path on fsys.
func NewStore(fsys afero.Fs, path string) *Store {
	return &Store{fs: fsys, path: path}
}

// DefaultPath returns the session file location under the user config
// directory, falling back to the working directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(dir, "promortctl", FileName)
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted selection. A missing file yields an empty selection.
func (s *Store) Load() (Selection, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Selection{}, nil
		}
		return Selection{}, fmt.Errorf("failed to read session: %w", err)
	}

	var sel Selection
	if err := yaml.Unmarshal(data, &sel); err != nil {
		return Selection{}, fmt.Errorf("failed to parse session: %w", err)
	}
	return sel, nil
}

// Save writes the selection atomically (temp file, then rename).
func (s *Store) Save(sel Selection) error {
	data, err := yaml.Marshal(&sel)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	if err := s.fs.Rename(tmpPath, s.path); err != nil {
		s.fs.Remove(tmpPath)
		return fmt.Errorf("failed to write session: %w", err)
	}

	return nil
}
