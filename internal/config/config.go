package config

import (
	"fmt"
	"os"

	"github.com/robfig/cron/v3"
	"go.yaml.in/yaml/v4"

	"github.com/brk3/wellnest/internal/clock"
)

type NudgeConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Schedule     string `yaml:"schedule"`
	From         string `yaml:"from"`
	To           string `yaml:"to"`
	ResendAPIKey string `yaml:"resend_api_key"`
}

type Config struct {
	ListenAddr         string      `yaml:"listen_addr"`
	DBPath             string      `yaml:"db_path"`
	LogLevel           string      `yaml:"log_level"`
	LogFormat          string      `yaml:"log_format"`
	AuthEnabled        bool        `yaml:"auth_enabled"`
	DefaultTimezone    string      `yaml:"default_timezone"`
	DefaultCalorieGoal float64     `yaml:"default_calorie_goal"`
	APIBaseURL         string      `yaml:"api_base_url"`
	APIKey             string      `yaml:"api_key"`
	Nudge              NudgeConfig `yaml:"nudge"`
}

const (
	defaultConfigPath = "config.yaml"
	defaultSchedule   = "0 20 * * *"
	defaultFrom       = "onboarding@resend.dev"
)

// Path is the config file location, $WELLNESS_CONFIG or config.yaml.
func Path() string {
	if p := os.Getenv("WELLNESS_CONFIG"); p != "" {
		return p
	}
	return defaultConfigPath
}

func Load() (*Config, error) {
	return LoadFile(Path())
}

func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("WELLNESS_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("WELLNESS_RESEND_API_KEY"); v != "" {
		c.Nudge.ResendAPIKey = v
	}
	if v := os.Getenv("WELLNESS_DB_PATH"); v != "" {
		c.DBPath = v
	}
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.DBPath == "" {
		c.DBPath = "wellnest.db"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.DefaultTimezone == "" {
		c.DefaultTimezone = "UTC"
	}
	if c.DefaultCalorieGoal <= 0 {
		c.DefaultCalorieGoal = 2000
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = "http://localhost:8080"
	}
	if c.Nudge.Schedule == "" {
		c.Nudge.Schedule = defaultSchedule
	}
	if c.Nudge.From == "" {
		c.Nudge.From = defaultFrom
	}
}

func (c *Config) Validate() error {
	if !clock.ValidTimezone(c.DefaultTimezone) {
		return fmt.Errorf("default_timezone: unknown timezone %q", c.DefaultTimezone)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format: must be text or json, got %q", c.LogFormat)
	}
	if _, err := cron.ParseStandard(c.Nudge.Schedule); err != nil {
		return fmt.Errorf("nudge.schedule: %w", err)
	}
	if c.Nudge.Enabled && c.Nudge.To == "" {
		return fmt.Errorf("nudge.to is required when nudges are enabled")
	}
	return nil
}
