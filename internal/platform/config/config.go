package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultBaseURL         = "https://changjiang.yuketang.cn"
	defaultLoginPath       = "/v2/web/index"
	defaultRefreshInterval = 30 * time.Minute
	defaultNotifyWindow    = 36 * time.Hour
	defaultUIWindow        = 72 * time.Hour
)

type Config struct {
	DataDir         string
	DBPath          string
	BaseURL         string
	LoginPath       string
	RefreshInterval time.Duration
	// NotifyWindow is the urgency window for background notifications,
	// UIWindow the wider one used by the TUI badge. Both come from the
	// original product and are kept distinct on purpose.
	NotifyWindow time.Duration
	UIWindow     time.Duration
}

// fileConfig is the optional YAML overlay at <data>/config.yaml.
type fileConfig struct {
	BaseURL         string `yaml:"base_url"`
	LoginPath       string `yaml:"login_path"`
	RefreshInterval string `yaml:"refresh_interval"`
	NotifyWindow    string `yaml:"notify_window"`
	UIWindow        string `yaml:"ui_window"`
}

func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := Config{
		DataDir:         dataDir,
		DBPath:          filepath.Join(dataDir, "snapshot.db"),
		BaseURL:         defaultBaseURL,
		LoginPath:       defaultLoginPath,
		RefreshInterval: defaultRefreshInterval,
		NotifyWindow:    defaultNotifyWindow,
		UIWindow:        defaultUIWindow,
	}
	if err := cfg.applyFile(filepath.Join(dataDir, "config.yaml")); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultDataDir resolves ~/.ykwatch, falling back to the working directory
// when the home directory cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ykwatch"
	}
	return filepath.Join(home, ".ykwatch")
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("decode config file: %w", err)
	}
	if fc.BaseURL != "" {
		c.BaseURL = fc.BaseURL
	}
	if fc.LoginPath != "" {
		c.LoginPath = fc.LoginPath
	}
	for _, entry := range []struct {
		raw  string
		dst  *time.Duration
		name string
	}{
		{fc.RefreshInterval, &c.RefreshInterval, "refresh_interval"},
		{fc.NotifyWindow, &c.NotifyWindow, "notify_window"},
		{fc.UIWindow, &c.UIWindow, "ui_window"},
	} {
		if entry.raw == "" {
			continue
		}
		d, err := time.ParseDuration(entry.raw)
		if err != nil {
			return fmt.Errorf("parse %s: %w", entry.name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", entry.name)
		}
		*entry.dst = d
	}
	return nil
}

// LoginURL is the page the user must open and log in to before a capture can
// succeed.
func (c Config) LoginURL() string {
	return c.BaseURL + c.LoginPath
}
