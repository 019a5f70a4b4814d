package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors the layout of config.toml. Durations and permissions are
// written as strings ("10s", "0750").
type fileConfig struct {
	Database struct {
		Dir            string `toml:"dir"`
		Filename       string `toml:"filename"`
		QueryTimeout   string `toml:"query-timeout"`
		DirPermissions string `toml:"dir-permissions"`
	} `toml:"database"`
	Time struct {
		DisplayFormat string `toml:"display-format"`
	} `toml:"time"`
	Validation struct {
		NameMinLength        int `toml:"name-min-length"`
		NameMaxLength        int `toml:"name-max-length"`
		DescriptionMaxLength int `toml:"description-max-length"`
	} `toml:"validation"`
	Display struct {
		DateOnly bool `toml:"date-only"`
		Color    bool `toml:"color"`
	} `toml:"display"`
	Application struct {
		Timeout string `toml:"timeout"`
		Verbose bool   `toml:"verbose"`
	} `toml:"application"`
}

// ConfigFilePath returns $PT_CONFIG, or ~/.config/pt/config.toml when unset.
func ConfigFilePath() (string, error) {
	if path := os.Getenv("PT_CONFIG"); path != "" {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "pt", "config.toml"), nil
}

// LoadFromFile applies the keys defined in a TOML file on top of the current
// values. A missing file leaves the configuration unchanged.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	meta, err := toml.Decode(string(data), &fc)
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return &ConfigError{Field: undecoded[0].String(), Message: "unknown configuration key in " + path}
	}

	return c.mergeFile(&fc, meta)
}

func (c *Config) mergeFile(fc *fileConfig, meta toml.MetaData) error {
	if meta.IsDefined("database", "dir") {
		c.Database.Dir = strings.TrimSpace(fc.Database.Dir)
	}
	if meta.IsDefined("database", "filename") {
		c.Database.Filename = strings.TrimSpace(fc.Database.Filename)
	}
	if meta.IsDefined("database", "query-timeout") {
		d, err := time.ParseDuration(fc.Database.QueryTimeout)
		if err != nil {
			return &ConfigError{Field: "database.query-timeout", Message: "must be a duration such as 10s or 1m"}
		}
		c.Database.QueryTimeout = d
	}
	if meta.IsDefined("database", "dir-permissions") {
		p, err := strconv.ParseUint(fc.Database.DirPermissions, 8, 32)
		if err != nil {
			return &ConfigError{Field: "database.dir-permissions", Message: "must be an octal permission mode"}
		}
		c.Database.DirPermissions = uint32(p)
	}

	if meta.IsDefined("time", "display-format") {
		c.Time.DisplayFormat = fc.Time.DisplayFormat
	}

	if meta.IsDefined("validation", "name-min-length") {
		c.Validation.NameMinLength = fc.Validation.NameMinLength
	}
	if meta.IsDefined("validation", "name-max-length") {
		c.Validation.NameMaxLength = fc.Validation.NameMaxLength
	}
	if meta.IsDefined("validation", "description-max-length") {
		c.Validation.DescriptionMaxLength = fc.Validation.DescriptionMaxLength
	}

	if meta.IsDefined("display", "date-only") {
		c.Display.DateOnly = fc.Display.DateOnly
	}
	if meta.IsDefined("display", "color") {
		c.Display.Color = fc.Display.Color
	}

	if meta.IsDefined("application", "timeout") {
		d, err := time.ParseDuration(fc.Application.Timeout)
		if err != nil {
			return &ConfigError{Field: "application.timeout", Message: "must be a duration such as 30s or 1m"}
		}
		c.Application.Timeout = d
	}
	if meta.IsDefined("application", "verbose") {
		c.Application.Verbose = fc.Application.Verbose
	}

	return nil
}
