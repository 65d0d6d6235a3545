package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/cyp0633/calendarium/recurrence"
	"github.com/cyp0633/calendarium/registry"
	"gopkg.in/yaml.v3"
)

// CalendarConfig describes one calendar to create at startup.
type CalendarConfig struct {
	Name     string `yaml:"name"`
	Timezone string `yaml:"timezone"`
}

// RecurrenceConfig tunes the recurrence engine.
type RecurrenceConfig struct {
	// CacheEnabled turns on memoization of expanded occurrence dates.
	CacheEnabled bool `yaml:"cache_enabled"`
	// CacheTTL is how long an expansion stays cached, e.g. "15m".
	CacheTTL time.Duration `yaml:"cache_ttl"`
	// MaxOccurrences caps a single expansion.
	MaxOccurrences int `yaml:"max_occurrences"`
}

// Config is the top-level application configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Calendars are created in order; names must be unique.
	Calendars []CalendarConfig `yaml:"calendars"`

	// Active names the calendar selected after startup. Empty means the first one.
	Active string `yaml:"active"`

	Recurrence RecurrenceConfig `yaml:"recurrence"`
}

const (
	defaultLogLevel       = "info"
	defaultCalendarName   = "Default"
	defaultCalendarZone   = "UTC"
	defaultMaxOccurrences = 5000
)

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: defaultLogLevel,
		Calendars: []CalendarConfig{
			{Name: defaultCalendarName, Timezone: defaultCalendarZone},
		},
		Active: defaultCalendarName,
		Recurrence: RecurrenceConfig{
			CacheEnabled:   true,
			CacheTTL:       recurrence.DefaultCacheConfig.TTL,
			MaxOccurrences: defaultMaxOccurrences,
		},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		c.LogLevel = defaultLogLevel
	}

	if len(c.Calendars) == 0 {
		c.Calendars = []CalendarConfig{{Name: defaultCalendarName, Timezone: defaultCalendarZone}}
	}
	for i := range c.Calendars {
		if c.Calendars[i].Timezone == "" {
			c.Calendars[i].Timezone = defaultCalendarZone
		}
	}
	if c.Active == "" {
		c.Active = c.Calendars[0].Name
	}

	if c.Recurrence.CacheTTL <= 0 {
		c.Recurrence.CacheTTL = recurrence.DefaultCacheConfig.TTL
	}
	if c.Recurrence.MaxOccurrences <= 0 {
		c.Recurrence.MaxOccurrences = defaultMaxOccurrences
	}
}

// Load loads configuration from the given YAML path. Keys absent from the
// file keep their DefaultConfig values; a missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Normalize()

	return cfg, nil
}

// SlogLevel maps LogLevel onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// EngineConfig builds the recurrence engine configuration.
func (c *Config) EngineConfig() recurrence.EngineConfig {
	cache := recurrence.DefaultCacheConfig
	cache.TTL = c.Recurrence.CacheTTL
	return recurrence.EngineConfig{
		CacheEnabled:   c.Recurrence.CacheEnabled,
		CacheConfig:    cache,
		MaxOccurrences: c.Recurrence.MaxOccurrences,
	}
}

// Apply creates every configured calendar in r and selects the active one.
func (c *Config) Apply(r *registry.Registry) error {
	for _, cal := range c.Calendars {
		if err := r.CreateCalendar(cal.Name, cal.Timezone); err != nil {
			return fmt.Errorf("calendar %q: %w", cal.Name, err)
		}
	}
	if c.Active != "" {
		if err := r.UseCalendar(c.Active); err != nil {
			return fmt.Errorf("active calendar: %w", err)
		}
	}
	return nil
}
