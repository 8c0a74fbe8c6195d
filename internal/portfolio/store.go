package portfolio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gamma-omg/stock-analysis/internal/market"
)

// Store is a flat keyed blob store addressed by portfolio name.
// Load fails with market.ErrNotFound when nothing is stored under the name.
type Store interface {
	Save(ctx context.Context, name string, data []byte) error
	Load(ctx context.Context, name string) ([]byte, error)
}

// FileStore keeps one JSON document per portfolio in a directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Save(_ context.Context, name string, data []byte) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create portfolio dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".portfolio-*")
	if err != nil {
		return fmt.Errorf("failed to save portfolio %q: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save portfolio %q: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to save portfolio %q: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to save portfolio %q: %w", name, err)
	}
	return nil
}

func (s *FileStore) Load(_ context.Context, name string) ([]byte, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: portfolio %q", market.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio %q: %w", name, err)
	}
	return data, nil
}

func (s *FileStore) path(name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name+"_portfolio.json"), nil
}

func checkName(name string) error {
	if strings.TrimSpace(name) == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: invalid portfolio name %q", market.ErrInvalidInput, name)
	}
	return nil
}
