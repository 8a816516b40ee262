package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"mileage-logbook/internal/report"
)

// Config holds all configuration options for the logbook
type Config struct {
	Database    DatabaseConfig
	Report      ReportConfig
	Display     DisplayConfig
	Application ApplicationConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Dir            string        `env:"LB_DB_DIR"`
	Filename       string        `env:"LB_DB_FILENAME"`
	QueryTimeout   time.Duration `env:"LB_DB_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `env:"LB_DB_WRITE_TIMEOUT"`
	DirPermissions uint32        `env:"LB_DB_DIR_PERMISSIONS"`
}

// ReportConfig holds export configuration
type ReportConfig struct {
	Locale         string `env:"LB_REPORT_LOCALE"`
	FlatPrefix     string `env:"LB_REPORT_FLAT_PREFIX"`
	PeriodicPrefix string `env:"LB_REPORT_PERIODIC_PREFIX"`
}

// DisplayConfig holds display formatting configuration
type DisplayConfig struct {
	ListLimit  int    `env:"LB_DISPLAY_LIST_LIMIT"`
	TimeFormat string `env:"LB_DISPLAY_TIME_FORMAT"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `env:"LB_APP_TIMEOUT"`
	Verbose bool          `env:"LB_APP_VERBOSE"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDBDir := filepath.Join(homeDir, ".lb")

	return &Config{
		Database: DatabaseConfig{
			Dir:            defaultDBDir,
			Filename:       "lb.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		Report: ReportConfig{
			Locale:         "de",
			FlatPrefix:     "Fahrtenbuch",
			PeriodicPrefix: "Fahrtenbuch_Bericht",
		},
		Display: DisplayConfig{
			ListLimit:  10,
			TimeFormat: "2006-01-02 15:04",
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
			Verbose: false,
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// Locale returns the configured report locale
func (c *Config) Locale() report.Locale {
	if l, ok := report.LookupLocale(c.Report.Locale); ok {
		return l
	}
	return report.German
}

// LoadFromEnvironment loads configuration from LB_* environment variables.
// A malformed value is reported as a ConfigError naming the variable.
func (c *Config) LoadFromEnvironment() error {
	env := envReader{}

	env.str("LB_DB_DIR", &c.Database.Dir)
	env.str("LB_DB_FILENAME", &c.Database.Filename)
	env.duration("LB_DB_QUERY_TIMEOUT", &c.Database.QueryTimeout)
	env.duration("LB_DB_WRITE_TIMEOUT", &c.Database.WriteTimeout)
	env.octal("LB_DB_DIR_PERMISSIONS", &c.Database.DirPermissions)

	env.str("LB_REPORT_LOCALE", &c.Report.Locale)
	env.str("LB_REPORT_FLAT_PREFIX", &c.Report.FlatPrefix)
	env.str("LB_REPORT_PERIODIC_PREFIX", &c.Report.PeriodicPrefix)

	env.integer("LB_DISPLAY_LIST_LIMIT", &c.Display.ListLimit)
	env.str("LB_DISPLAY_TIME_FORMAT", &c.Display.TimeFormat)

	env.duration("LB_APP_TIMEOUT", &c.Application.Timeout)
	env.boolean("LB_APP_VERBOSE", &c.Application.Verbose)

	return env.err
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
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

	if _, ok := report.LookupLocale(c.Report.Locale); !ok {
		return &ConfigError{
			Field:   "report.locale",
			Message: fmt.Sprintf("unknown locale %q, expected one of %s", c.Report.Locale, strings.Join(report.LocaleNames(), ", ")),
		}
	}
	if c.Report.FlatPrefix == "" || c.Report.PeriodicPrefix == "" {
		return &ConfigError{Field: "report.prefix", Message: "export filename prefixes cannot be empty"}
	}
	if c.Report.FlatPrefix == c.Report.PeriodicPrefix {
		return &ConfigError{Field: "report.prefix", Message: "flat and periodic exports need different filename prefixes"}
	}

	if c.Display.ListLimit < 1 {
		return &ConfigError{Field: "display.list_limit", Message: "list limit must be at least 1"}
	}
	if c.Display.TimeFormat == "" {
		return &ConfigError{Field: "display.time_format", Message: "time format cannot be empty"}
	}

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

// envReader copies set environment variables into config fields and keeps the first parse error.
type envReader struct {
	err error
}

func (r *envReader) lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func (r *envReader) fail(name, value, expected string) {
	if r.err == nil {
		r.err = &ConfigError{Field: name, Message: fmt.Sprintf("invalid value %q, expected %s", value, expected)}
	}
}

func (r *envReader) str(name string, dst *string) {
	if v, ok := r.lookup(name); ok {
		*dst = v
	}
}

func (r *envReader) duration(name string, dst *time.Duration) {
	if v, ok := r.lookup(name); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			r.fail(name, v, "a duration like 5s")
			return
		}
		*dst = d
	}
}

func (r *envReader) integer(name string, dst *int) {
	if v, ok := r.lookup(name); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			r.fail(name, v, "an integer")
			return
		}
		*dst = n
	}
}

func (r *envReader) octal(name string, dst *uint32) {
	if v, ok := r.lookup(name); ok {
		p, err := strconv.ParseUint(v, 8, 32)
		if err != nil {
			r.fail(name, v, "octal permissions like 0755")
			return
		}
		*dst = uint32(p)
	}
}

func (r *envReader) boolean(name string, dst *bool) {
	if v, ok := r.lookup(name); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			r.fail(name, v, "true or false")
			return
		}
		*dst = b
	}
}
