package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/justyntemme/picroute/internal/debug"
)

// Config holds all user-configurable settings loaded from config.json
type Config struct {
	Media     MediaConfig     `json:"media"`
	Behavior  BehaviorConfig  `json:"behavior"`
	Locations []LocationEntry `json:"locations"`
	Store     StoreConfig     `json:"store"`
}

// MediaConfig controls which files are listed.
type MediaConfig struct {
	Extensions      []string `json:"extensions"` // Empty means the built-in image set
	ProbeDimensions bool     `json:"probeDimensions"`
	ShowHidden      bool     `json:"showHidden"`
}

// BehaviorConfig holds behavior settings
type BehaviorConfig struct {
	ConfirmTrash    bool   `json:"confirmTrash"`
	MaxHistory      int    `json:"maxHistory"`
	StartLocation   string `json:"startLocation"` // Location name or absolute path
	RestoreLastPath bool   `json:"restoreLastPath"`
	ShowVolumes     bool   `json:"showVolumes"`
}

// LocationEntry is an extra named starting location.
type LocationEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// StoreConfig locates the favorites/settings database.
type StoreConfig struct {
	Path string `json:"path"` // Empty means ~/.config/picroute/picroute.db
}

// Manager handles loading, saving, and accessing configuration
type Manager struct {
	mu       sync.RWMutex
	config   *Config
	path     string
	parseErr error // Stores parsing error if config failed to load
}

// NewManager creates a manager for the file at path; "" means ConfigPath().
func NewManager(path string) *Manager {
	if path == "" {
		path = ConfigPath()
	}
	return &Manager{
		config: DefaultConfig(),
		path:   path,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Media: MediaConfig{
			ProbeDimensions: false,
			ShowHidden:      false,
		},
		Behavior: BehaviorConfig{
			ConfirmTrash:    true,
			MaxHistory:      100,
			StartLocation:   "pictures",
			RestoreLastPath: true,
			ShowVolumes:     false,
		},
	}
}

// ConfigPath returns the config file path: ~/.config/picroute/config.json
// This is consistent across all platforms (Windows, macOS, Linux)
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "picroute", "config.json")
}

// Path returns the file this manager reads and writes.
func (m *Manager) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.path
}

// Load reads the configuration from the config file
// If the file doesn't exist, creates it with defaults
// If parsing fails, stores the error and returns defaults
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.parseErr = nil

	configDir := filepath.Dir(m.path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		debug.Log(debug.APP, "config: failed to create directory %s: %v", configDir, err)
		return err
	}

	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		debug.Log(debug.APP, "config: creating default config at %s", m.path)
		m.config = DefaultConfig()
		return m.saveUnlocked()
	}
	if err != nil {
		debug.Log(debug.APP, "config: failed to read %s: %v", m.path, err)
		return err
	}

	// Missing sections keep their defaults.
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		debug.Log(debug.APP, "config: JSON parse error: %v", err)
		m.parseErr = err
		m.config = DefaultConfig()
		return nil
	}
	if cfg.Behavior.MaxHistory <= 0 {
		cfg.Behavior.MaxHistory = DefaultConfig().Behavior.MaxHistory
	}

	debug.Log(debug.APP, "config: loaded from %s", m.path)
	m.config = cfg
	return nil
}

// saveUnlocked saves config without acquiring lock (caller must hold lock)
func (m *Manager) saveUnlocked() error {
	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.path, data, 0o644)
}

// Save writes the current configuration to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveUnlocked()
}

// Get returns a copy of the current configuration
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return *DefaultConfig()
	}
	cfg := *m.config
	cfg.Media.Extensions = append([]string(nil), m.config.Media.Extensions...)
	cfg.Locations = append([]LocationEntry(nil), m.config.Locations...)
	return cfg
}

// ParseError returns the parsing error if config failed to load
func (m *Manager) ParseError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.parseErr
}

// SetStartLocation updates the start location and saves.
func (m *Manager) SetStartLocation(location string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config.Behavior.StartLocation = location
	return m.saveUnlocked()
}

// AddLocation adds or renames a named location and saves.
func (m *Manager) AddLocation(name, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, loc := range m.config.Locations {
		if loc.Path == path {
			m.config.Locations[i].Name = name
			return m.saveUnlocked()
		}
	}
	m.config.Locations = append(m.config.Locations, LocationEntry{Name: name, Path: path})
	return m.saveUnlocked()
}

// RemoveLocation removes a location by path and saves.
func (m *Manager) RemoveLocation(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, loc := range m.config.Locations {
		if loc.Path == path {
			m.config.Locations = append(m.config.Locations[:i], m.config.Locations[i+1:]...)
			break
		}
	}
	return m.saveUnlocked()
}

// Generate backs up an existing config and writes a fresh default one.
// Returns the backup path if a backup was created, or empty string otherwise.
func (m *Manager) Generate() (backupPath string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if data, err := os.ReadFile(m.path); err == nil {
		timestamp := time.Now().Format("20060102-150405")
		backupPath = filepath.Join(filepath.Dir(m.path), "config.backup."+timestamp+".json")
		if err := os.WriteFile(backupPath, data, 0o644); err != nil {
			return "", fmt.Errorf("failed to write backup: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return backupPath, fmt.Errorf("failed to create config directory: %w", err)
	}
	m.config = DefaultConfig()
	m.parseErr = nil
	if err := m.saveUnlocked(); err != nil {
		return backupPath, fmt.Errorf("failed to write config: %w", err)
	}
	return backupPath, nil
}
