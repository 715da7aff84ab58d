package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds the paths and settings of a Jacobian batch run.
type Config struct {
	// Paths
	SceneDir  string `json:"scene_dir" toml:"scene_dir"`
	OutputDir string `json:"output_dir" toml:"output_dir"`

	// Jacobian settings
	Plain    bool `json:"plain" toml:"plain"`       // Sobel-only position Jacobian
	Aperture int  `json:"aperture" toml:"aperture"` // 1 or 3

	// Output settings
	Scale       int   `json:"scale" toml:"scale"`
	WriteImages *bool `json:"write_images" toml:"write_images"`
	Workers     int   `json:"workers" toml:"workers"`

	// Demo scene size, used when SceneDir is empty
	DemoWidth  int `json:"demo_width" toml:"demo_width"`
	DemoHeight int `json:"demo_height" toml:"demo_height"`
}

// Load reads a JSON or TOML config file, chosen by extension.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	var cfg Config

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	return cfg, nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.SceneDir != "" {
		c.SceneDir = flags.SceneDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Scale > 0 {
		c.Scale = flags.Scale
	}
	if flags.Plain {
		c.Plain = true
	}
	if flags.NoImages {
		off := false
		c.WriteImages = &off
	}

	if c.OutputDir == "" {
		c.OutputDir = "jacobian-out"
	}

	// Defaults for settings
	if c.Aperture <= 0 {
		c.Aperture = 1
	}
	if c.Scale <= 0 {
		c.Scale = 4
	}
	if c.WriteImages == nil {
		on := true
		c.WriteImages = &on
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.DemoWidth <= 0 {
		c.DemoWidth = 64
	}
	if c.DemoHeight <= 0 {
		c.DemoHeight = 48
	}
}

// Images reports whether visualizations should be written.
func (c Config) Images() bool { return c.WriteImages == nil || *c.WriteImages }

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	SceneDir  string
	OutputDir string
	Workers   int
	Scale     int
	Plain     bool
	NoImages  bool
}
