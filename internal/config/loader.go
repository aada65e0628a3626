package config

import (
	"os"
	"strconv"
	"time"
)

// Loader resolves a Config from, in increasing precedence: defaults, the
// TOML or YAML file named by TS_CONFIG (or --config), TS_* environment
// variables and command line flags.
type Loader struct {
	config *Config
}

func NewLoader() *Loader {
	return &Loader{config: NewConfig()}
}

// Load resolves the configuration without flag overrides.
func (l *Loader) Load() (*Config, error) {
	return l.LoadWithOverrides(nil)
}

// LoadWithOverrides resolves the configuration, applies the set fields of
// overrides last and validates the result.
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	path := os.Getenv("TS_CONFIG")
	if overrides != nil && overrides.ConfigPath != nil {
		path = *overrides.ConfigPath
	}
	if path != "" {
		if err := l.config.LoadFromFile(path); err != nil {
			return nil, err
		}
	}
	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}
	overrides.apply(l.config)

	if err := l.config.Validate(); err != nil {
		return nil, err
	}
	return l.config, nil
}

// ConfigOverrides carries command line flags. A nil field was not given.
type ConfigOverrides struct {
	ConfigPath *string

	DBDriver       *string
	DBDir          *string
	DBFilename     *string
	DBDSN          *string
	DBQueryTimeout *time.Duration
	DBWriteTimeout *time.Duration

	Zone       *string
	TimeFormat *string
	UserID     *string

	RolloverDay  *int
	RolloverHour *int
	RoundingRule *string

	MaxRetries *int
	ExportDir  *string
	BackupDir  *string

	ServerAddr     *string
	MetricsEnabled *bool

	Timeout *time.Duration
	Verbose *bool
}

func override[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func (o *ConfigOverrides) apply(c *Config) {
	if o == nil {
		return
	}
	override(&c.Database.Driver, o.DBDriver)
	override(&c.Database.Dir, o.DBDir)
	override(&c.Database.Filename, o.DBFilename)
	override(&c.Database.DSN, o.DBDSN)
	override(&c.Database.QueryTimeout, o.DBQueryTimeout)
	override(&c.Database.WriteTimeout, o.DBWriteTimeout)

	override(&c.Time.Zone, o.Zone)
	override(&c.Time.DisplayFormat, o.TimeFormat)
	override(&c.User.ID, o.UserID)

	override(&c.Defaults.RolloverDay, o.RolloverDay)
	override(&c.Defaults.RolloverHour, o.RolloverHour)
	override(&c.Defaults.RoundingRule, o.RoundingRule)

	override(&c.Queue.MaxRetries, o.MaxRetries)
	override(&c.Export.Dir, o.ExportDir)
	override(&c.Backup.Dir, o.BackupDir)

	override(&c.Server.Addr, o.ServerAddr)
	override(&c.Server.MetricsEnabled, o.MetricsEnabled)

	override(&c.Application.Timeout, o.Timeout)
	override(&c.Application.Verbose, o.Verbose)
}

func parsed[T any](v T, err error, fallback T) T {
	if err != nil {
		return fallback
	}
	return v
}

// ParseDurationWithFallback returns fallback when s is not a valid duration.
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	return parsed(d, err, fallback)
}

func ParseIntWithFallback(s string, fallback int) int {
	i, err := strconv.Atoi(s)
	return parsed(i, err, fallback)
}

func ParseBoolWithFallback(s string, fallback bool) bool {
	b, err := strconv.ParseBool(s)
	return parsed(b, err, fallback)
}

// ParseUint32WithFallback parses s in the given base, as used for octal
// directory permissions.
func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	u, err := strconv.ParseUint(s, base, 32)
	return parsed(uint32(u), err, fallback)
}
