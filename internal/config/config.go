// Package config loads the flowboard configuration file.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is read from <root>/config.yaml. Absent file or fields fall back
// to defaults rooted at the store directory.
type Config struct {
	// StorePath is the SQLite blob store location.
	StorePath string `yaml:"store_path"`
	// ExportDir receives JSON board exports.
	ExportDir string `yaml:"export_dir"`
	// Listen is the serve command's bind address.
	Listen string `yaml:"listen"`
	// BaseURL is the public URL share links are built against.
	BaseURL string `yaml:"base_url"`
	// DefaultBoardTitle names boards created without an explicit title.
	DefaultBoardTitle string `yaml:"default_board_title"`
}

// DefaultRoot resolves the store root: FLOWBOARD_ROOT, else ~/.flowboard.
func DefaultRoot() string {
	if env := os.Getenv("FLOWBOARD_ROOT"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	if home != "" {
		return filepath.Join(home, ".flowboard")
	}
	return ".flowboard"
}

// Load reads <root>/config.yaml, tolerating a missing file.
func Load(root string) (Config, error) {
	cfg := defaults(root)
	b, err := os.ReadFile(filepath.Join(root, "config.yaml"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return defaults(root), err
	}
	return fill(cfg, root), nil
}

// Save writes the config file, creating the root directory if needed.
func Save(root string, cfg Config) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(fill(cfg, root))
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(root, "config.yaml"), b, 0o644)
}

func defaults(root string) Config {
	return fill(Config{}, root)
}

func fill(cfg Config, root string) Config {
	if strings.TrimSpace(cfg.StorePath) == "" {
		cfg.StorePath = filepath.Join(root, "flowboard.sqlite")
	}
	if strings.TrimSpace(cfg.ExportDir) == "" {
		cfg.ExportDir = filepath.Join(root, "exports")
	}
	if strings.TrimSpace(cfg.Listen) == "" {
		cfg.Listen = "127.0.0.1:7420"
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "http://" + cfg.Listen
	}
	if strings.TrimSpace(cfg.DefaultBoardTitle) == "" {
		cfg.DefaultBoardTitle = "Untitled Board"
	}
	return cfg
}
