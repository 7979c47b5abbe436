// Package config handles loading and saving dynoplot configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/dynoplot/config.yaml
//   - Data:    ~/.local/share/dynoplot/ (exports, report bundles)
//   - State:   ~/.local/state/dynoplot/ (recent dynophores)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Dynophore represents a registered dynophore directory in the config.
type Dynophore struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// RenderConfig holds plot rendering defaults.
type RenderConfig struct {
	Format     string `yaml:"format,omitempty"`      // png or svg
	OutputDir  string `yaml:"output_dir,omitempty"`  // where rendered figures land
	Monochrome bool   `yaml:"monochrome,omitempty"`  // draw barcodes black instead of per feature type
	FrameStep  int    `yaml:"frame_step,omitempty"`  // default frame subsampling step
}

// ServeConfig holds defaults for the plot server.
type ServeConfig struct {
	Addr  string `yaml:"addr,omitempty"`  // listen address, e.g. "localhost:8590"
	Watch bool   `yaml:"watch,omitempty"` // reload the dynophore when its files change
}

// Config is the top-level configuration for dynoplot.
type Config struct {
	Dynophores []Dynophore  `yaml:"dynophores,omitempty"`
	Render     RenderConfig `yaml:"render,omitempty"`
	Serve      ServeConfig  `yaml:"serve,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Render: RenderConfig{
			Format:    "svg",
			OutputDir: "plots",
			FrameStep: 1,
		},
		Serve: ServeConfig{
			Addr: "localhost:8590",
		},
	}
}

// ConfigDir returns the XDG config directory for dynoplot.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "dynoplot")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "dynoplot")
}

// DataDir returns the XDG data directory for dynoplot.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "dynoplot")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "dynoplot")
}

// StateDir returns the XDG state directory for dynoplot.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "dynoplot")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "dynoplot")
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

	if cfg.Render.Format != "" && cfg.Render.Format != "png" && cfg.Render.Format != "svg" {
		return cfg, fmt.Errorf("parsing config: render format %q: want png or svg", cfg.Render.Format)
	}
	if cfg.Render.FrameStep < 1 {
		cfg.Render.FrameStep = 1
	}

	// Expand ~ in dynophore paths
	for i := range cfg.Dynophores {
		cfg.Dynophores[i].Path = expandHome(cfg.Dynophores[i].Path)
	}
	cfg.Render.OutputDir = expandHome(cfg.Render.OutputDir)

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

// FindDynophore returns the registered dynophore with the given name, or nil.
func (c Config) FindDynophore(name string) *Dynophore {
	for i := range c.Dynophores {
		if strings.EqualFold(c.Dynophores[i].Name, name) {
			return &c.Dynophores[i]
		}
	}
	return nil
}

// ResolvedPath returns the dynophore path with ~ expanded.
func (d Dynophore) ResolvedPath() string {
	return expandHome(d.Path)
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
