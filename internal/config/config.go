// Package config loads the adthand YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/adthand/adthand/common"
	"gopkg.in/yaml.v3"
)

// Backoff strategies accepted by RetryConfig.Backoff.
const (
	BackoffFixed       = "fixed"
	BackoffExponential = "exponential"
)

// DefaultEvents are the timings scheduled when the events key is absent.
var DefaultEvents = []string{"Fajr", "Sunrise", "Dhuhr", "Asr", "Maghrib", "Isha"}

// RetryConfig controls how failed timing fetches are retried.
type RetryConfig struct {
	// Delay between attempts; the base delay for exponential backoff.
	Delay time.Duration `yaml:"delay"`
	// MaxAttempts caps attempts per fetch. 0 retries forever.
	MaxAttempts int `yaml:"max_attempts"`
	// Backoff is "fixed" or "exponential".
	Backoff string `yaml:"backoff"`
	// MaxDelay caps exponential backoff.
	MaxDelay time.Duration `yaml:"max_delay"`
}

type NotificationConfig struct {
	Summary   string        `yaml:"summary"`
	Timeout   time.Duration `yaml:"timeout"`
	QueueSize int           `yaml:"queue_size"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// File receives a copy of the daemon log. Empty disables file logging.
	File string `yaml:"file"`
}

// Config is the top-level daemon configuration.
type Config struct {
	City    string `yaml:"city"`
	Country string `yaml:"country"`
	// Method selects the Aladhan calculation method; -1 lets the API decide.
	Method int    `yaml:"method"`
	APIURL string `yaml:"api_url"`
	// Events lists the timings to schedule. Absent means DefaultEvents;
	// an explicit empty list schedules every timing the API returns.
	Events       []string           `yaml:"events"`
	Retry        RetryConfig        `yaml:"retry"`
	Notification NotificationConfig `yaml:"notification"`
	Log          LogConfig          `yaml:"log"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	c := &Config{Method: -1}
	c.Normalize()
	return c
}

// Normalize fills zero values with defaults.
func (c *Config) Normalize() {
	if c.City == "" {
		c.City = common.DefaultCity
	}
	if c.Country == "" {
		c.Country = common.DefaultCountry
	}
	if c.APIURL == "" {
		c.APIURL = common.DefaultAPIURL
	}
	if c.Events == nil {
		c.Events = append([]string(nil), DefaultEvents...)
	}
	switch c.Retry.Backoff {
	case BackoffFixed, BackoffExponential:
	default:
		c.Retry.Backoff = BackoffFixed
	}
	if c.Retry.Delay <= 0 {
		c.Retry.Delay = common.DefaultRetryDelay
	}
	if c.Retry.MaxAttempts < 0 {
		c.Retry.MaxAttempts = 0
	}
	if c.Retry.MaxDelay < c.Retry.Delay {
		c.Retry.MaxDelay = 10 * c.Retry.Delay
	}
	if c.Notification.Summary == "" {
		c.Notification.Summary = common.DefaultNotificationSummary
	}
	if c.Notification.Timeout <= 0 {
		c.Notification.Timeout = common.DefaultNotificationTimeout
	}
	if c.Notification.QueueSize <= 0 {
		c.Notification.QueueSize = 8
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate reports configuration values that cannot be normalized away.
func (c *Config) Validate() error {
	if c.Method < -1 {
		return fmt.Errorf("invalid calculation method %d", c.Method)
	}
	return nil
}

// DefaultPath returns $ADTHAND_CONFIG or <user config dir>/adthand/config.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv(common.ConfigPathEnv); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, common.AppName, "config.yaml"), nil
}

// ErrNotSaved is returned by Load, together with a usable default
// config, when the missing config file could not be written.
var ErrNotSaved = errors.New("default config not saved")

// Load reads the YAML config at path. When the file does not exist a
// default config is written there and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, fmt.Errorf("%w to %s: %v", ErrNotSaved, path, err)
			}
			return cfg, nil
		}
		return nil, err
	}
	cfg := Config{Method: -1}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes cfg to path atomically with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".adthand-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
