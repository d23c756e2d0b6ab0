package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/masoncj86-ctrl/mason-trader/internal/model"
)

// DateLayout is the format of Settings.LastRunDate.
const DateLayout = "2006-01-02"

// Store persists model.Settings as a small JSON file.
type Store struct {
	Path string
	// CI disables writes so ephemeral runners do not persist state.
	CI     bool
	Logger *zap.Logger
}

// NewStore creates a file-backed settings store.
func NewStore(path string, ci bool, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{Path: path, CI: ci, Logger: logger}
}

// Load reads the settings file. A missing or unreadable file yields defaults.
func (s *Store) Load(defaults model.Settings) model.Settings {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.Logger.Warn("read settings failed, using defaults", zap.String("path", s.Path), zap.Error(err))
		}
		return defaults
	}
	var st model.Settings
	if err := json.Unmarshal(data, &st); err != nil {
		s.Logger.Warn("corrupt settings file, using defaults", zap.String("path", s.Path), zap.Error(err))
		return defaults
	}
	return st
}

// Save writes the settings atomically. It returns false without touching the
// file when running under CI.
func (s *Store) Save(st model.Settings) (bool, error) {
	if s.CI {
		s.Logger.Debug("CI run, settings not persisted")
		return false, nil
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return false, fmt.Errorf("%w: marshal settings: %v", model.ErrPersistence, err)
	}
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, fmt.Errorf("%w: %v", model.ErrPersistence, err)
		}
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return false, fmt.Errorf("%w: %v", model.ErrPersistence, err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		os.Remove(tmp)
		return false, fmt.Errorf("%w: %v", model.ErrPersistence, err)
	}
	return true, nil
}
