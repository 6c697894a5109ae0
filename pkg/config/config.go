// Package config handles loading and saving present configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/present/config.yaml
//   - State:   ~/.local/state/present/ (progress database)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// TransitionConfig tunes the slide transition sequence. The two phases are
// configuration, not hard-coded callback literals: CommitDelayMs is the gap
// before the incoming slide is committed as active, SettleDelayMs the gap
// before input is re-enabled (matches the visual transition duration).
type TransitionConfig struct {
	CommitDelayMs int `yaml:"commit_delay_ms,omitempty"`
	SettleDelayMs int `yaml:"settle_delay_ms,omitempty"`
}

// GestureConfig tunes mouse-drag swipe recognition.
type GestureConfig struct {
	MinDistance   int `yaml:"min_distance,omitempty"`    // horizontal cells
	MaxDurationMs int `yaml:"max_duration_ms,omitempty"` // gesture time budget
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	Theme            string `yaml:"theme,omitempty"`              // dark, light
	ResizeDebounceMs int    `yaml:"resize_debounce_ms,omitempty"` // trailing-edge window
	HideProgressBar  bool   `yaml:"hide_progress_bar,omitempty"`
}

// Config is the top-level configuration for present.
type Config struct {
	UI         UIConfig         `yaml:"ui,omitempty"`
	Transition TransitionConfig `yaml:"transition,omitempty"`
	Gesture    GestureConfig    `yaml:"gesture,omitempty"`
	RecentDeck string           `yaml:"recent_deck,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			Theme:            "dark",
			ResizeDebounceMs: 250,
		},
		Transition: TransitionConfig{
			CommitDelayMs: 33, // two frame boundaries at ~60fps
			SettleDelayMs: 600,
		},
		Gesture: GestureConfig{
			MinDistance:   5,
			MaxDurationMs: 500,
		},
	}
}

// CommitDelay returns the configured commit-visual-state delay.
func (c Config) CommitDelay() time.Duration {
	return time.Duration(c.Transition.CommitDelayMs) * time.Millisecond
}

// SettleDelay returns the configured settle delay.
func (c Config) SettleDelay() time.Duration {
	return time.Duration(c.Transition.SettleDelayMs) * time.Millisecond
}

// ResizeDebounce returns the configured resize debounce window.
func (c Config) ResizeDebounce() time.Duration {
	return time.Duration(c.UI.ResizeDebounceMs) * time.Millisecond
}

// MaxGestureDuration returns the configured swipe time budget.
func (c Config) MaxGestureDuration() time.Duration {
	return time.Duration(c.Gesture.MaxDurationMs) * time.Millisecond
}

// ConfigDir returns the XDG config directory for present.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "present")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "present")
}

// StateDir returns the XDG state directory for present.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "present")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "present")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// normalize clamps nonsense values back to defaults so a hand-edited config
// can't produce a zero-length debounce or a negative settle delay.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.UI.ResizeDebounceMs <= 0 {
		c.UI.ResizeDebounceMs = def.UI.ResizeDebounceMs
	}
	if c.Transition.CommitDelayMs <= 0 {
		c.Transition.CommitDelayMs = def.Transition.CommitDelayMs
	}
	if c.Transition.SettleDelayMs < 0 {
		c.Transition.SettleDelayMs = def.Transition.SettleDelayMs
	}
	if c.Gesture.MinDistance <= 0 {
		c.Gesture.MinDistance = def.Gesture.MinDistance
	}
	if c.Gesture.MaxDurationMs <= 0 {
		c.Gesture.MaxDurationMs = def.Gesture.MaxDurationMs
	}
	c.RecentDeck = expandHome(c.RecentDeck)
	switch strings.ToLower(c.UI.Theme) {
	case "dark", "light", "":
	default:
		c.UI.Theme = def.UI.Theme
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
