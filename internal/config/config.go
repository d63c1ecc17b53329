// Package config loads the desk-controller configuration from a JSON
// file, applying defaults for anything not set. A missing file is not an
// error - the defaults describe a standard IKEA-style desk setup.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const (
	// DefaultQuietPeriod bounds how long a shell session waits for more
	// output after the last received line.
	DefaultQuietPeriod = 2 * time.Second

	// DefaultSettleDelay is the pause between dispatching a physical move
	// and starting the height animation, masking controller startup.
	DefaultSettleDelay = 1500 * time.Millisecond

	// DefaultStepInterval is the animation cadence per height unit.
	DefaultStepInterval = 250 * time.Millisecond
)

// Preset is a named desk position bound to a number key in the TUI.
type Preset struct {
	Name   string `json:"name"`
	Height int    `json:"height"`
}

// Config holds all tunables for the desk controller.
type Config struct {
	// Tool is the desk controller executable driven by the supervisor.
	Tool string `json:"tool"`
	// Shell hosts one-shot command sessions.
	Shell string `json:"shell"`
	// MinHeight and MaxHeight bound the desk position in device units.
	MinHeight int `json:"min_height"`
	MaxHeight int `json:"max_height"`
	// UnitMultiplier scales a height unit to the controller's move
	// argument (height 75 -> --move-to 750).
	UnitMultiplier int `json:"unit_multiplier"`
	// QuietPeriodSeconds overrides the shell session quiet period.
	QuietPeriodSeconds float64  `json:"quiet_period_seconds,omitempty"`
	Presets            []Preset `json:"presets,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Tool:           "idasen-controller",
		Shell:          "/bin/sh",
		MinHeight:      63,
		MaxHeight:      127,
		UnitMultiplier: 10,
		Presets: []Preset{
			{Name: "sit", Height: 75},
			{Name: "stand", Height: 112},
		},
	}
}

// QuietPeriod returns the configured quiet period or the default.
func (c Config) QuietPeriod() time.Duration {
	if c.QuietPeriodSeconds > 0 {
		return time.Duration(c.QuietPeriodSeconds * float64(time.Second))
	}
	return DefaultQuietPeriod
}

// ClampHeight restricts h to the configured device range.
func (c Config) ClampHeight(h int) int {
	if h < c.MinHeight {
		return c.MinHeight
	}
	if h > c.MaxHeight {
		return c.MaxHeight
	}
	return h
}

// Load reads the configuration from path. A missing file yields the
// defaults; a malformed or invalid file is an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks invariants that would otherwise surface as confusing
// runtime behavior (a zero multiplier sends the desk to position 0).
func (c Config) Validate() error {
	if c.Tool == "" {
		return fmt.Errorf("tool must not be empty")
	}
	if c.Shell == "" {
		return fmt.Errorf("shell must not be empty")
	}
	if c.MinHeight >= c.MaxHeight {
		return fmt.Errorf("min_height %d must be below max_height %d", c.MinHeight, c.MaxHeight)
	}
	if c.UnitMultiplier <= 0 {
		return fmt.Errorf("unit_multiplier must be positive, got %d", c.UnitMultiplier)
	}
	if c.QuietPeriodSeconds < 0 {
		return fmt.Errorf("quiet_period_seconds must not be negative")
	}
	for i, p := range c.Presets {
		if p.Height < c.MinHeight || p.Height > c.MaxHeight {
			return fmt.Errorf("preset %d (%s) height %d outside range %d-%d",
				i, p.Name, p.Height, c.MinHeight, c.MaxHeight)
		}
	}
	return nil
}
