package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ThemeConfig mirrors the page-level theme settings.
type ThemeConfig struct {
	DefaultMode string `yaml:"default_mode,omitempty"`
	StorageKey  string `yaml:"storage_key,omitempty"`
}

// Config is the in-memory representation of ~/.zsearch/zsearch.yaml.
type Config struct {
	// Site is the site root: an http(s) URL or a local build directory.
	Site string `yaml:"site"`
	// Page is an HTML page, relative to Site, whose search container
	// attributes are applied over Search.
	Page   string      `yaml:"page,omitempty"`
	Search Attrs       `yaml:"search,omitempty"`
	Theme  ThemeConfig `yaml:"theme,omitempty"`
}

// Dir returns the absolute path to ~/.zsearch/.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".zsearch"), nil
}

// ConfigPath returns the absolute path to ~/.zsearch/zsearch.yaml.
func ConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "zsearch.yaml"), nil
}

// StatePath returns the path of the key/value file backing theme storage.
func StatePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "state.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Site:   ".",
		Search: Attrs{},
		Theme: ThemeConfig{
			DefaultMode: "auto",
			StorageKey:  "zacharite-theme",
		},
	}
}

// Load reads and parses ~/.zsearch/zsearch.yaml. A missing file yields
// DefaultConfig. ZSEARCH_SITE and ZSEARCH_INDEX_PATH (environment or
// ~/.zsearch/.env) override the file.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if cfg.Search == nil {
		cfg.Search = Attrs{}
	}
	// Expand ~ in a local site directory at load time.
	cfg.Site, err = ExpandPath(cfg.Site)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	site, err := GetConfigValue(EnvSite)
	if err != nil {
		return err
	}
	if site != "" {
		cfg.Site = site
	}
	indexPath, err := GetConfigValue(EnvIndexPath)
	if err != nil {
		return err
	}
	if indexPath != "" {
		if cfg.Search == nil {
			cfg.Search = Attrs{}
		}
		cfg.Search[AttrIndexPath] = indexPath
	}
	return nil
}

// Save marshals cfg and writes it to ~/.zsearch/zsearch.yaml.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}
