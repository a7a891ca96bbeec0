package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/matzehuels/recolor/pkg/errors"
)

// FileStore is a file-based configuration store for CLI usage.
// Each theme's configuration is a JSON file named after the theme.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based store.
// If baseDir is empty, defaults to ~/.config/recolor/themes/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "recolor", "themes")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) configPath(theme string) (string, error) {
	if err := errors.ValidateThemeName(theme); err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, theme+".json"), nil
}

func (s *FileStore) Get(ctx context.Context, theme string) (*ThemeConfig, error) {
	path, err := s.configPath(theme)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return readConfig(path)
}

func (s *FileStore) Set(ctx context.Context, cfg *ThemeConfig) error {
	path, err := s.configPath(cfg.Theme)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal theme config: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write theme config: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, theme string) error {
	path, err := s.configPath(theme)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove theme config: %w", err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]*ThemeConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read store dir: %w", err)
	}

	var out []*ThemeConfig
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		if errors.ValidateThemeName(strings.TrimSuffix(name, ".json")) != nil {
			continue
		}
		cfg, err := readConfig(filepath.Join(s.baseDir, name))
		if err != nil {
			return nil, err
		}
		if cfg != nil {
			out = append(out, cfg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Theme < out[j].Theme })
	return out, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for configuration files.
func (s *FileStore) Path() string {
	return s.baseDir
}

func readConfig(path string) (*ThemeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read theme config: %w", err)
	}

	var cfg ThemeConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "parse %s", filepath.Base(path))
	}
	return &cfg, nil
}

var _ Store = (*FileStore)(nil)
