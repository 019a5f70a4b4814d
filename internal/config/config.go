package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all configuration options for the project tracker
type Config struct {
	Database    DatabaseConfig
	Time        TimeConfig
	Validation  ValidationConfig
	Display     DisplayConfig
	Application ApplicationConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Dir            string        `env:"PT_DB_DIR"`
	Filename       string        `env:"PT_DB_FILENAME"`
	QueryTimeout   time.Duration `env:"PT_DB_QUERY_TIMEOUT"`
	DirPermissions uint32        `env:"PT_DB_DIR_PERMISSIONS"`
}

// TimeConfig holds time formatting configuration
type TimeConfig struct {
	DisplayFormat string `env:"PT_TIME_DISPLAY_FORMAT"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	NameMinLength        int `env:"PT_VALIDATION_NAME_MIN"`
	NameMaxLength        int `env:"PT_VALIDATION_NAME_MAX"`
	DescriptionMaxLength int `env:"PT_VALIDATION_DESCRIPTION_MAX"`
}

// DisplayConfig holds display formatting configuration
type DisplayConfig struct {
	DateOnly bool `env:"PT_DISPLAY_DATE_ONLY"`
	Color    bool `env:"PT_DISPLAY_COLOR"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `env:"PT_APP_TIMEOUT"`
	Verbose bool          `env:"PT_APP_VERBOSE"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDBDir := filepath.Join(homeDir, ".pt")

	return &Config{
		Database: DatabaseConfig{
			Dir:            defaultDBDir,
			Filename:       "pt.db",
			QueryTimeout:   10 * time.Second,
			DirPermissions: 0755,
		},
		Time: TimeConfig{
			DisplayFormat: "2006-01-02 15:04",
		},
		Validation: ValidationConfig{
			NameMinLength:        1,
			NameMaxLength:        255,
			DescriptionMaxLength: 2000,
		},
		Display: DisplayConfig{
			DateOnly: false,
			Color:    true,
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

// GetQueryTimeout returns the database query timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Database.QueryTimeout
}

// LoadFromEnvironment loads configuration from environment variables.
// Malformed values are reported as a ConfigError naming the variable.
func (c *Config) LoadFromEnvironment() error {
	// Database configuration
	if dir := os.Getenv("PT_DB_DIR"); dir != "" {
		c.Database.Dir = dir
	}
	if filename := os.Getenv("PT_DB_FILENAME"); filename != "" {
		c.Database.Filename = filename
	}
	if err := envDuration("PT_DB_QUERY_TIMEOUT", &c.Database.QueryTimeout); err != nil {
		return err
	}
	if perms := os.Getenv("PT_DB_DIR_PERMISSIONS"); perms != "" {
		p, err := strconv.ParseUint(perms, 8, 32)
		if err != nil {
			return &ConfigError{Field: "PT_DB_DIR_PERMISSIONS", Message: "must be an octal permission mode"}
		}
		c.Database.DirPermissions = uint32(p)
	}

	// Time configuration
	if format := os.Getenv("PT_TIME_DISPLAY_FORMAT"); format != "" {
		c.Time.DisplayFormat = format
	}

	// Validation configuration
	if err := envInt("PT_VALIDATION_NAME_MIN", &c.Validation.NameMinLength); err != nil {
		return err
	}
	if err := envInt("PT_VALIDATION_NAME_MAX", &c.Validation.NameMaxLength); err != nil {
		return err
	}
	if err := envInt("PT_VALIDATION_DESCRIPTION_MAX", &c.Validation.DescriptionMaxLength); err != nil {
		return err
	}

	// Display configuration
	if err := envBool("PT_DISPLAY_DATE_ONLY", &c.Display.DateOnly); err != nil {
		return err
	}
	if err := envBool("PT_DISPLAY_COLOR", &c.Display.Color); err != nil {
		return err
	}

	// Application configuration
	if err := envDuration("PT_APP_TIMEOUT", &c.Application.Timeout); err != nil {
		return err
	}
	return envBool("PT_APP_VERBOSE", &c.Application.Verbose)
}

func envDuration(name string, dst *time.Duration) error {
	if v := os.Getenv(name); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return &ConfigError{Field: name, Message: "must be a duration such as 10s or 1m"}
		}
		*dst = d
	}
	return nil
}

func envInt(name string, dst *int) error {
	if v := os.Getenv(name); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigError{Field: name, Message: "must be an integer"}
		}
		*dst = n
	}
	return nil
}

func envBool(name string, dst *bool) error {
	if v := os.Getenv(name); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return &ConfigError{Field: name, Message: "must be true or false"}
		}
		*dst = b
	}
	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate database configuration
	if c.Database.Dir == "" {
		return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
	}
	if c.Database.Filename == "" {
		return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}

	// Validate time configuration
	if c.Time.DisplayFormat == "" {
		return &ConfigError{Field: "time.display_format", Message: "display format cannot be empty"}
	}

	// Validate validation configuration
	if c.Validation.NameMinLength < 1 {
		return &ConfigError{Field: "validation.name_min_length", Message: "name minimum length must be at least 1"}
	}
	if c.Validation.NameMaxLength < c.Validation.NameMinLength {
		return &ConfigError{Field: "validation.name_max_length", Message: "name maximum length must be greater than minimum length"}
	}
	if c.Validation.DescriptionMaxLength < 0 {
		return &ConfigError{Field: "validation.description_max_length", Message: "description maximum length cannot be negative"}
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
