// Package config loads the toolkit configuration from YAML, starting
// from built-in defaults and overlaying an optional user file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Match configures template matching.
type Match struct {
	Threshold  float64   `yaml:"threshold"`   // minimum correlation score in [0,1]
	Method     string    `yaml:"method"`      // ccoeff_normed, ccorr_normed, sqdiff_normed
	Scales     []float64 `yaml:"scales"`      // template scale factors, all positive
	IoU        float64   `yaml:"iou"`         // NMS overlap threshold
	MaxResults int       `yaml:"max_results"` // 0 = unlimited
}

// Input configures input-synthesis timing.
type Input struct {
	ClickDelayMs  int `yaml:"click_delay_ms"`  // settle delay around press/release
	DragSettleMs  int `yaml:"drag_settle_ms"`  // settle delay around drag press/release
	DragRateHz    int `yaml:"drag_rate_hz"`    // interpolation steps per second
	TypeDelayMs   int `yaml:"type_delay_ms"`   // delay between typed characters
	ScrollDelayMs int `yaml:"scroll_delay_ms"` // delay between wheel clicks
}

// Capture configures screenshot acquisition.
type Capture struct {
	Display int `yaml:"display"` // display index for full-screen capture
}

// Config is the top-level configuration.
type Config struct {
	Match   Match   `yaml:"match"`
	Input   Input   `yaml:"input"`
	Capture Capture `yaml:"capture"`
	Log     string  `yaml:"log"` // debug, info, warn, error
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Match: Match{
			Threshold:  0.8,
			Method:     "ccoeff_normed",
			Scales:     []float64{1.0},
			IoU:        0.3,
			MaxResults: 0,
		},
		Input: Input{
			ClickDelayMs:  10,
			DragSettleMs:  50,
			DragRateHz:    50,
			TypeDelayMs:   5,
			ScrollDelayMs: 10,
		},
		Capture: Capture{Display: 0},
		Log:     "info",
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "deskctl", "config.yaml"), nil
}

// Load reads the config at path on top of the defaults. A missing file
// is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Match.Threshold < 0 || c.Match.Threshold > 1 {
		return fmt.Errorf("match.threshold %v outside [0,1]", c.Match.Threshold)
	}
	if c.Match.IoU < 0 || c.Match.IoU > 1 {
		return fmt.Errorf("match.iou %v outside [0,1]", c.Match.IoU)
	}
	for _, s := range c.Match.Scales {
		if s <= 0 {
			return fmt.Errorf("match.scales entry %v must be positive", s)
		}
	}
	if c.Input.DragRateHz <= 0 {
		return fmt.Errorf("input.drag_rate_hz must be positive")
	}
	return nil
}
