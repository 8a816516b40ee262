package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is read from the working directory when present.
const DefaultEnvFile = ".env"

// Loader handles loading configuration from multiple sources
type Loader struct {
	config   *Config
	envFiles []string
}

// NewLoader creates a new configuration loader reading DefaultEnvFile
func NewLoader() *Loader {
	return NewLoaderWithEnvFiles(DefaultEnvFile)
}

// NewLoaderWithEnvFiles creates a loader reading the given dotenv files.
// Missing files are skipped.
func NewLoaderWithEnvFiles(files ...string) *Loader {
	return &Loader{
		config:   NewConfig(),
		envFiles: files,
	}
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Fill unset environment variables from dotenv files
// 3. Override with environment variables
// 4. Override with command line flags (handled by cobra)
func (l *Loader) Load() (*Config, error) {
	for _, file := range l.envFiles {
		// godotenv never overwrites variables that are already set.
		if err := godotenv.Load(file); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return nil, &ConfigError{Field: file, Message: fmt.Sprintf("cannot read env file: %v", err)}
		}
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	DBDir      *string
	DBFilename *string

	Locale *string

	ListLimit *int

	Timeout *time.Duration
	Verbose *bool
}

// Apply copies every set override onto config
func (overrides *ConfigOverrides) Apply(config *Config) {
	if overrides.DBDir != nil {
		config.Database.Dir = *overrides.DBDir
	}
	if overrides.DBFilename != nil {
		config.Database.Filename = *overrides.DBFilename
	}
	if overrides.Locale != nil {
		config.Report.Locale = *overrides.Locale
	}
	if overrides.ListLimit != nil {
		config.Display.ListLimit = *overrides.ListLimit
	}
	if overrides.Timeout != nil {
		config.Application.Timeout = *overrides.Timeout
	}
	if overrides.Verbose != nil {
		config.Application.Verbose = *overrides.Verbose
	}
}
