// Package config provides settings file handling for yamlforge.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/thirteen37/yamlforge/internal/format"
	"github.com/thirteen37/yamlforge/internal/logging"
)

// Settings represents the config.toml settings file.
type Settings struct {
	// Indent is the number of spaces per nesting level in written documents.
	Indent int `toml:"indent"`

	// ExportFormat is the format used by export when --format is not given.
	ExportFormat string `toml:"export_format"`

	// Backup keeps a <file>.bak copy before a document is overwritten.
	Backup bool `toml:"backup"`

	// LogLevel is the default log level (debug, info, warn, error).
	LogLevel string `toml:"log_level"`
}

// Default returns the built-in settings.
func Default() *Settings {
	return &Settings{
		Indent:       2,
		ExportFormat: "json",
		Backup:       false,
		LogLevel:     "warn",
	}
}

// DefaultPath returns the settings file location under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "yamlforge", "config.toml"), nil
}

// Load reads settings from filename. Keys missing from the file keep their
// default values.
func Load(filename string) (*Settings, error) {
	s := Default()
	meta, err := toml.DecodeFile(filename, s)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		logging.Warn("Config", "ignoring unknown settings in %s: %v", filename, undecoded)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filename, err)
	}
	return s, nil
}

// LoadDefault reads the settings file at DefaultPath. A missing file yields
// the built-in settings.
func LoadDefault() (*Settings, error) {
	filename, err := DefaultPath()
	if err != nil {
		logging.Debug("Config", "using built-in settings: %v", err)
		return Default(), nil
	}
	s, err := Load(filename)
	if errors.Is(err, fs.ErrNotExist) {
		logging.Debug("Config", "no settings file at %s, using built-in settings", filename)
		return Default(), nil
	}
	return s, err
}

// Save writes the settings to a file, creating its directory if needed.
func (s *Settings) Save(filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	defer f.Close()

	if err := s.Encode(f); err != nil {
		return err
	}
	return f.Close()
}

// Encode writes the settings as TOML.
func (s *Settings) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return nil
}

// Validate checks that every setting holds an accepted value.
func (s *Settings) Validate() error {
	if s.Indent < 1 || s.Indent > 9 {
		return fmt.Errorf("indent must be between 1 and 9, got %d", s.Indent)
	}
	if !slices.Contains(format.Names, s.ExportFormat) {
		return &format.UnsupportedError{Name: s.ExportFormat}
	}
	if _, err := logging.ParseLevel(s.LogLevel); err != nil {
		return err
	}
	return nil
}
