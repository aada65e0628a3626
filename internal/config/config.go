package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"timesheet/internal/timecalc"
)

// Database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all configuration options for the timesheet application
type Config struct {
	Database    DatabaseConfig    `yaml:"database" toml:"database"`
	Time        TimeConfig        `yaml:"time" toml:"time"`
	User        UserConfig        `yaml:"user" toml:"user"`
	Defaults    DefaultsConfig    `yaml:"defaults" toml:"defaults"`
	Queue       QueueConfig       `yaml:"queue" toml:"queue"`
	Export      ExportConfig      `yaml:"export" toml:"export"`
	Backup      BackupConfig      `yaml:"backup" toml:"backup"`
	Server      ServerConfig      `yaml:"server" toml:"server"`
	Validation  ValidationConfig  `yaml:"validation" toml:"validation"`
	Application ApplicationConfig `yaml:"application" toml:"application"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver         string        `yaml:"driver" toml:"driver" env:"TS_DB_DRIVER"`
	Dir            string        `yaml:"dir" toml:"dir" env:"TS_DB_DIR"`
	Filename       string        `yaml:"filename" toml:"filename" env:"TS_DB_FILENAME"`
	DSN            string        `yaml:"dsn" toml:"dsn" env:"TS_DB_DSN"`
	QueryTimeout   time.Duration `yaml:"query_timeout" toml:"query_timeout" env:"TS_DB_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout" toml:"write_timeout" env:"TS_DB_WRITE_TIMEOUT"`
	DirPermissions uint32        `yaml:"dir_permissions" toml:"dir_permissions" env:"TS_DB_DIR_PERMISSIONS"`
}

// TimeConfig holds the reference zone and time formatting configuration
type TimeConfig struct {
	Zone          string `yaml:"zone" toml:"zone" env:"TS_TIME_ZONE"`
	DisplayFormat string `yaml:"display_format" toml:"display_format" env:"TS_TIME_DISPLAY_FORMAT"`
}

// UserConfig identifies whose timesheet is being kept
type UserConfig struct {
	ID string `yaml:"id" toml:"id" env:"TS_USER"`
}

// DefaultsConfig holds the settings used until a user stores their own
type DefaultsConfig struct {
	RolloverDay  int    `yaml:"rollover_day" toml:"rollover_day" env:"TS_ROLLOVER_DAY"`
	RolloverHour int    `yaml:"rollover_hour" toml:"rollover_hour" env:"TS_ROLLOVER_HOUR"`
	RoundingRule string `yaml:"rounding_rule" toml:"rounding_rule" env:"TS_ROUNDING_RULE"`
}

// QueueConfig holds offline queue configuration
type QueueConfig struct {
	MaxRetries int `yaml:"max_retries" toml:"max_retries" env:"TS_QUEUE_MAX_RETRIES"`
}

// ExportConfig holds report export configuration
type ExportConfig struct {
	Dir string `yaml:"dir" toml:"dir" env:"TS_EXPORT_DIR"`
}

// BackupConfig holds JSON backup configuration
type BackupConfig struct {
	Dir          string        `yaml:"dir" toml:"dir" env:"TS_BACKUP_DIR"`
	LookbackDays int           `yaml:"lookback_days" toml:"lookback_days" env:"TS_BACKUP_LOOKBACK_DAYS"`
	Interval     time.Duration `yaml:"interval" toml:"interval" env:"TS_BACKUP_INTERVAL"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr           string `yaml:"addr" toml:"addr" env:"TS_SERVER_ADDR"`
	MetricsEnabled bool   `yaml:"metrics_enabled" toml:"metrics_enabled" env:"TS_SERVER_METRICS"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	MaxEntryDuration time.Duration `yaml:"max_entry_duration" toml:"max_entry_duration" env:"TS_VALIDATION_MAX_ENTRY_DURATION"`
	MaxYearsBack     int           `yaml:"max_years_back" toml:"max_years_back" env:"TS_VALIDATION_MAX_YEARS_BACK"`
	MaxDaysAhead     int           `yaml:"max_days_ahead" toml:"max_days_ahead" env:"TS_VALIDATION_MAX_DAYS_AHEAD"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `yaml:"timeout" toml:"timeout" env:"TS_APP_TIMEOUT"`
	Verbose bool          `yaml:"verbose" toml:"verbose" env:"TS_APP_VERBOSE"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	baseDir := filepath.Join(homeDir, ".ts")

	return &Config{
		Database: DatabaseConfig{
			Driver:         DriverSQLite,
			Dir:            baseDir,
			Filename:       "ts.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		Time: TimeConfig{
			Zone:          timecalc.DefaultZone,
			DisplayFormat: "2006-01-02 15:04",
		},
		User: UserConfig{
			ID: defaultUserID(),
		},
		Defaults: DefaultsConfig{
			RolloverDay:  1,
			RolloverHour: 0,
			RoundingRule: string(timecalc.RoundNone),
		},
		Queue: QueueConfig{
			MaxRetries: 3,
		},
		Export: ExportConfig{
			Dir: ".",
		},
		Backup: BackupConfig{
			Dir:          filepath.Join(baseDir, "backups"),
			LookbackDays: 90,
			Interval:     24 * time.Hour,
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			MetricsEnabled: true,
		},
		Validation: ValidationConfig{
			MaxEntryDuration: 48 * time.Hour,
			MaxYearsBack:     10,
			MaxDaysAhead:     2,
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
			Verbose: false,
		},
	}
}

func defaultUserID() string {
	if user := strings.TrimSpace(os.Getenv("USER")); user != "" && !strings.ContainsAny(user, " \t") {
		return user
	}
	return "local"
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// GetQueuePath returns the local database that holds the offline queue
// when day entries live in a remote database.
func (c *Config) GetQueuePath() string {
	return filepath.Join(c.Database.Dir, "queue.db")
}

// GetQueryTimeout returns the database query timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Database.QueryTimeout
}

// GetWriteTimeout returns the database write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Database.WriteTimeout
}

// Calendar returns the calendar for the configured reference zone
func (c *Config) Calendar() (*timecalc.Calendar, error) {
	return timecalc.NewCalendar(c.Time.Zone)
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Database configuration
	if driver := os.Getenv("TS_DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dir := os.Getenv("TS_DB_DIR"); dir != "" {
		c.Database.Dir = dir
	}
	if filename := os.Getenv("TS_DB_FILENAME"); filename != "" {
		c.Database.Filename = filename
	}
	if dsn := os.Getenv("TS_DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if timeout := os.Getenv("TS_DB_QUERY_TIMEOUT"); timeout != "" {
		c.Database.QueryTimeout = ParseDurationWithFallback(timeout, c.Database.QueryTimeout)
	}
	if timeout := os.Getenv("TS_DB_WRITE_TIMEOUT"); timeout != "" {
		c.Database.WriteTimeout = ParseDurationWithFallback(timeout, c.Database.WriteTimeout)
	}
	if perms := os.Getenv("TS_DB_DIR_PERMISSIONS"); perms != "" {
		c.Database.DirPermissions = ParseUint32WithFallback(perms, 8, c.Database.DirPermissions)
	}

	// Time configuration
	if zone := os.Getenv("TS_TIME_ZONE"); zone != "" {
		c.Time.Zone = zone
	}
	if format := os.Getenv("TS_TIME_DISPLAY_FORMAT"); format != "" {
		c.Time.DisplayFormat = format
	}

	if user := os.Getenv("TS_USER"); user != "" {
		c.User.ID = user
	}

	// Settings defaults. Malformed numbers are kept as errors for Validate
	// rather than silently replaced.
	if day := os.Getenv("TS_ROLLOVER_DAY"); day != "" {
		n, err := strconv.Atoi(day)
		if err != nil {
			return &ConfigError{Field: "defaults.rollover_day", Message: "must be an integer"}
		}
		c.Defaults.RolloverDay = n
	}
	if hour := os.Getenv("TS_ROLLOVER_HOUR"); hour != "" {
		n, err := strconv.Atoi(hour)
		if err != nil {
			return &ConfigError{Field: "defaults.rollover_hour", Message: "must be an integer"}
		}
		c.Defaults.RolloverHour = n
	}
	if rule := os.Getenv("TS_ROUNDING_RULE"); rule != "" {
		c.Defaults.RoundingRule = rule
	}

	if retries := os.Getenv("TS_QUEUE_MAX_RETRIES"); retries != "" {
		c.Queue.MaxRetries = ParseIntWithFallback(retries, c.Queue.MaxRetries)
	}

	if dir := os.Getenv("TS_EXPORT_DIR"); dir != "" {
		c.Export.Dir = dir
	}

	// Backup configuration
	if dir := os.Getenv("TS_BACKUP_DIR"); dir != "" {
		c.Backup.Dir = dir
	}
	if days := os.Getenv("TS_BACKUP_LOOKBACK_DAYS"); days != "" {
		c.Backup.LookbackDays = ParseIntWithFallback(days, c.Backup.LookbackDays)
	}
	if interval := os.Getenv("TS_BACKUP_INTERVAL"); interval != "" {
		c.Backup.Interval = ParseDurationWithFallback(interval, c.Backup.Interval)
	}

	// Server configuration
	if addr := os.Getenv("TS_SERVER_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if metrics := os.Getenv("TS_SERVER_METRICS"); metrics != "" {
		c.Server.MetricsEnabled = ParseBoolWithFallback(metrics, c.Server.MetricsEnabled)
	}

	// Validation configuration
	if maxDur := os.Getenv("TS_VALIDATION_MAX_ENTRY_DURATION"); maxDur != "" {
		c.Validation.MaxEntryDuration = ParseDurationWithFallback(maxDur, c.Validation.MaxEntryDuration)
	}
	if years := os.Getenv("TS_VALIDATION_MAX_YEARS_BACK"); years != "" {
		c.Validation.MaxYearsBack = ParseIntWithFallback(years, c.Validation.MaxYearsBack)
	}
	if days := os.Getenv("TS_VALIDATION_MAX_DAYS_AHEAD"); days != "" {
		c.Validation.MaxDaysAhead = ParseIntWithFallback(days, c.Validation.MaxDaysAhead)
	}

	// Application configuration
	if timeout := os.Getenv("TS_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(timeout, c.Application.Timeout)
	}
	if verbose := os.Getenv("TS_APP_VERBOSE"); verbose != "" {
		c.Application.Verbose = ParseBoolWithFallback(verbose, c.Application.Verbose)
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate database configuration
	switch c.Database.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Database.DSN == "" {
			return &ConfigError{Field: "database.dsn", Message: "a DSN is required for the postgres driver"}
		}
	default:
		return &ConfigError{Field: "database.driver", Message: "driver must be sqlite or postgres"}
	}
	if c.Database.Dir == "" {
		return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
	}
	if c.Database.Filename == "" {
		return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}

	// Validate time configuration
	if _, err := timecalc.NewCalendar(c.Time.Zone); err != nil {
		return &ConfigError{Field: "time.zone", Message: "unknown time zone " + strconv.Quote(c.Time.Zone)}
	}
	if c.Time.DisplayFormat == "" {
		return &ConfigError{Field: "time.display_format", Message: "display format cannot be empty"}
	}

	if strings.TrimSpace(c.User.ID) == "" {
		return &ConfigError{Field: "user.id", Message: "user id cannot be empty"}
	}

	// Validate settings defaults
	if c.Defaults.RolloverDay < timecalc.MinRolloverDay || c.Defaults.RolloverDay > timecalc.MaxRolloverDay {
		return &ConfigError{Field: "defaults.rollover_day", Message: "rollover day must be between 1 and 28"}
	}
	if c.Defaults.RolloverHour < timecalc.MinRolloverHour || c.Defaults.RolloverHour > timecalc.MaxRolloverHour {
		return &ConfigError{Field: "defaults.rollover_hour", Message: "rollover hour must be between 0 and 23"}
	}
	if _, err := timecalc.ParseRoundingRule(c.Defaults.RoundingRule); err != nil {
		return &ConfigError{Field: "defaults.rounding_rule", Message: "rounding rule must be one of none, 5, 10, 15"}
	}

	if c.Queue.MaxRetries < 1 {
		return &ConfigError{Field: "queue.max_retries", Message: "max retries must be at least 1"}
	}

	if c.Export.Dir == "" {
		return &ConfigError{Field: "export.dir", Message: "export directory cannot be empty"}
	}

	// Validate backup configuration
	if c.Backup.Dir == "" {
		return &ConfigError{Field: "backup.dir", Message: "backup directory cannot be empty"}
	}
	if c.Backup.LookbackDays < 1 {
		return &ConfigError{Field: "backup.lookback_days", Message: "lookback must be at least one day"}
	}
	if c.Backup.Interval <= 0 {
		return &ConfigError{Field: "backup.interval", Message: "backup interval must be positive"}
	}

	if c.Server.Addr == "" {
		return &ConfigError{Field: "server.addr", Message: "server address cannot be empty"}
	}

	// Validate validation configuration
	if c.Validation.MaxEntryDuration <= 0 {
		return &ConfigError{Field: "validation.max_entry_duration", Message: "max entry duration must be positive"}
	}
	if c.Validation.MaxYearsBack < 1 {
		return &ConfigError{Field: "validation.max_years_back", Message: "max years back must be at least 1"}
	}
	if c.Validation.MaxDaysAhead < 0 {
		return &ConfigError{Field: "validation.max_days_ahead", Message: "max days ahead cannot be negative"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
