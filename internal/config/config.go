package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"dayplan/internal/clock"
	"dayplan/internal/planner"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr      string `mapstructure:"addr" yaml:"addr"`
	StaticDir string `mapstructure:"static_dir" yaml:"static_dir"`
}

// StoreConfig holds the persistence paths.
type StoreConfig struct {
	DBPath      string `mapstructure:"db_path" yaml:"db_path"`
	TemplateDir string `mapstructure:"template_dir" yaml:"template_dir"`
}

// BudgetConfig holds the remote time-tracking service settings.
type BudgetConfig struct {
	// BaseURL is the root URL of the time-tracking service.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds a single budget fetch.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// PlannerConfig holds the time-accounting constants.
type PlannerConfig struct {
	// DayStartHour is the hour the logical day rolls over (not midnight).
	DayStartHour int `mapstructure:"day_start_hour" yaml:"day_start_hour"`

	// UTCOffsetHours fixes the local time reference.
	UTCOffsetHours int `mapstructure:"utc_offset_hours" yaml:"utc_offset_hours"`

	// LiveDiscountPercent is the share of not-yet-elapsed block time
	// charged against the live remaining budget.
	LiveDiscountPercent int `mapstructure:"live_discount_percent" yaml:"live_discount_percent"`

	// TopicMatch is "exact" or "contains".
	TopicMatch string `mapstructure:"topic_match" yaml:"topic_match"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	Budget  BudgetConfig  `mapstructure:"budget" yaml:"budget"`
	Planner PlannerConfig `mapstructure:"planner" yaml:"planner"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// BudgetTimeout returns the budget fetch timeout as a duration.
func (c *Config) BudgetTimeout() time.Duration {
	return time.Duration(c.Budget.TimeoutSec) * time.Second
}

// NewPlanner builds a planner from the configured constants.
func (c *Config) NewPlanner() planner.Planner {
	p := planner.Planner{
		DayStartHour:    c.Planner.DayStartHour,
		UTCOffsetHours:  c.Planner.UTCOffsetHours,
		DiscountPercent: c.Planner.LiveDiscountPercent,
		Match:           planner.MatchExact,
	}
	if c.Planner.TopicMatch == string(planner.MatchContains) {
		p.Match = planner.MatchContains
	}
	return p
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/dayplan/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "dayplan", "config.yaml")
}

// defaultConfig returns a sensible default configuration.
func defaultConfig() *Config {
	return &Config{
		Server:  ServerConfig{Addr: ":3333", StaticDir: "./static"},
		Store:   StoreConfig{DBPath: "./data/schedule.db", TemplateDir: "./data/templates"},
		Budget:  BudgetConfig{BaseURL: "", TimeoutSec: 10},
		Planner: PlannerConfig{
			DayStartHour:        clock.DefaultDayStartHour,
			UTCOffsetHours:      clock.DefaultUTCOffsetHours,
			LiveDiscountPercent: planner.DefaultDiscountPercent,
			TopicMatch:          string(planner.MatchExact),
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns the default configuration.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("server.addr", ":3333")
	v.SetDefault("server.static_dir", "./static")
	v.SetDefault("store.db_path", "./data/schedule.db")
	v.SetDefault("store.template_dir", "./data/templates")
	v.SetDefault("budget.base_url", "")
	v.SetDefault("budget.timeout_sec", 10)
	v.SetDefault("planner.day_start_hour", clock.DefaultDayStartHour)
	v.SetDefault("planner.utc_offset_hours", clock.DefaultUTCOffsetHours)
	v.SetDefault("planner.live_discount_percent", planner.DefaultDiscountPercent)
	v.SetDefault("planner.topic_match", string(planner.MatchExact))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Planner.TopicMatch != string(planner.MatchExact) &&
		cfg.Planner.TopicMatch != string(planner.MatchContains) {
		return nil, fmt.Errorf("config %s: planner.topic_match must be %q or %q",
			path, planner.MatchExact, planner.MatchContains)
	}

	return cfg, nil
}
