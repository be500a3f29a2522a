package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	xdgAppName = "autoflow"
	configFile = "config.yaml"

	DefaultTimezone = "Asia/Seoul"
	DefaultCalendar = "AutoFlow"
	DefaultHTTPAddr = ":8080"
)

type Config struct {
	// Timezone is the location "today" is computed in.
	Timezone string `yaml:"timezone"`
	// Database is the path of the SQLite task store.
	Database string `yaml:"database"`
	// SlackWebhookURL enables chat delivery when set.
	SlackWebhookURL string `yaml:"slack_webhook_url"`
	// Calendar is the Google Calendar name tasks are synced to.
	Calendar string `yaml:"calendar"`
	// CalendarSync enables calendar side effects.
	CalendarSync bool   `yaml:"calendar_sync"`
	HTTPAddr     string `yaml:"http_addr"`
	LogLevel     string `yaml:"log_level"`

	Settings Settings `yaml:"settings"`
}

// Dir returns the autoflow config directory (~/.config/autoflow).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}

func GetConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the config file, then .env, then environment overrides.
// A missing file is not an error.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile is Load with an explicit path.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	// .env is optional
	_ = godotenv.Load()
	cfg.applyEnvOverrides()
	cfg.applyDefaults()

	if err := cfg.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to the default config path.
func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(cfg, path)
}

func SaveFile(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, b, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Location resolves Timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) applyEnvOverrides() {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Database, "AUTOFLOW_DB")
	set(&c.SlackWebhookURL, "SLACK_WEBHOOK_URL")
	set(&c.Timezone, "AUTOFLOW_TIMEZONE")
	set(&c.Calendar, "AUTOFLOW_CALENDAR")
	set(&c.HTTPAddr, "AUTOFLOW_HTTP_ADDR")
	set(&c.LogLevel, "AUTOFLOW_LOG_LEVEL")
	set(&c.Settings.DailySummaryTime, "AUTOFLOW_DAILY_SUMMARY_TIME")
}

func (c *Config) applyDefaults() {
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.Calendar == "" {
		c.Calendar = DefaultCalendar
	}
	if c.HTTPAddr == "" {
		c.HTTPAddr = DefaultHTTPAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Database == "" {
		if dir, err := Dir(); err == nil {
			c.Database = filepath.Join(dir, "autoflow.db")
		} else {
			c.Database = "autoflow.db"
		}
	}
	if c.Settings.DailySummaryTime == "" {
		c.Settings.DailySummaryTime = DefaultDailySummaryTime
	}
}
