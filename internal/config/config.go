package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/woozymasta/vmt"
)

const (
	// AppName is the application name.
	AppName = "vmtclean"
	// SettingsFileName is the settings file name inside the config directory.
	SettingsFileName = "settings.toml"
	// SearchPathsFileName is the default search path list in the working directory.
	SearchPathsFileName = "project_searchpaths.txt"
	// LogFileName is the default log file in the working directory.
	LogFileName = "clean_log.txt"
)

const (
	keyVMTPath      = "vmt_path"
	keyCleanupNames = "cleanup_dirs_filenames"
)

// ErrSearchPathsMissing is returned when the search path file does not exist.
var ErrSearchPathsMissing = errors.New("search path file not found")

// Settings are the values remembered between runs.
type Settings struct {
	VMTPath      string `mapstructure:"vmt_path"`               // Content root last processed
	CleanupNames bool   `mapstructure:"cleanup_dirs_filenames"` // Whether the rename pass was requested
}

// Store loads and saves Settings at a fixed path.
type Store struct {
	path string
}

// NewStore creates a store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultStore creates a store at the platform config directory.
func DefaultStore() (*Store, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}

	return NewStore(filepath.Join(dir, SettingsFileName)), nil
}

// ConfigDir returns the vmtclean configuration directory.
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}

	return filepath.Join(dir, AppName), nil
}

// Path returns the settings file path.
func (s *Store) Path() string { return s.path }

// Load reads the settings. A missing file yields zero settings.
func (s *Store) Load() (Settings, error) {
	v := s.newViper()
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return Settings{}, nil
	}

	if err := v.ReadInConfig(); err != nil {
		return Settings{}, fmt.Errorf("failed to read settings %s: %w", s.path, err)
	}

	var out Settings
	if err := v.Unmarshal(&out); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings %s: %w", s.path, err)
	}

	return out, nil
}

// Save writes the settings, creating the parent directory.
func (s *Store) Save(st Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := s.newViper()
	v.Set(keyVMTPath, st.VMTPath)
	v.Set(keyCleanupNames, st.CleanupNames)

	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to write settings %s: %w", s.path, err)
	}

	return nil
}

// newViper returns a viper instance bound to the store's file.
func (s *Store) newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("toml")
	v.SetDefault(keyVMTPath, "")
	v.SetDefault(keyCleanupNames, false)

	return v
}

// LoadSearchPaths reads the search path list at path.
func LoadSearchPaths(path string) (vmt.SearchPaths, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSearchPathsMissing, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open search paths: %w", err)
	}
	defer func() { _ = f.Close() }()

	paths, err := vmt.ReadSearchPaths(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read search paths %s: %w", path, err)
	}

	return paths, nil
}
