package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps ticket artifacts on local disk under a single directory.
// Names are flat; path separators are rejected so a reference can never
// escape the directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create ticket dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Save(name string, data []byte) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("save artifact %s: %w", name, err)
	}
	return name, nil
}

func (s *FileStore) Load(name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fs.ErrNotExist
		}
		return nil, fmt.Errorf("load artifact %s: %w", name, err)
	}
	return data, nil
}

func validateName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("invalid artifact name %q", name)
	}
	return nil
}
