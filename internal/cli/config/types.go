// Package config provides configuration management for the nodata CLI.
//
// Values are layered, lowest to highest: built-in defaults, the project
// config file (nodata.yaml), NODATA_* environment variables, then flags
// set on the command line.
package config

import (
	"context"

	intconfig "github.com/leapstack-labs/nodata/internal/config"
)

// Config holds all CLI configuration options.
type Config struct {
	SchemasDir   string `koanf:"schemas_dir"`
	ModelsDir    string `koanf:"models_dir"`
	LogLevel     string `koanf:"log_level"`
	LogFormat    string `koanf:"log_format"`
	OutputFormat string `koanf:"output"`
	Verbose      bool   `koanf:"verbose"`
	HistoryFile  string `koanf:"history_file"`

	// Set by the loader, not read from any source.
	ProjectRoot string `koanf:"-"`
	ConfigFile  string `koanf:"-"`
}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultSchemasDir  = intconfig.DefaultSchemasDir
	DefaultModelsDir   = intconfig.DefaultModelsDir
	DefaultLogLevel    = intconfig.DefaultLogLevel
	DefaultLogFormat   = intconfig.DefaultLogFormat
	DefaultOutput      = intconfig.DefaultOutput
	DefaultHistoryFile = intconfig.DefaultHistoryFile
)

// OutputFormats lists the accepted values for the output key.
var OutputFormats = []string{"auto", "table", "markdown", "csv", "json", "yaml"}

// Default returns a Config holding only the defaults.
func Default() *Config {
	return &Config{
		SchemasDir:   DefaultSchemasDir,
		ModelsDir:    DefaultModelsDir,
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
		OutputFormat: DefaultOutput,
		HistoryFile:  DefaultHistoryFile,
	}
}

// Project returns the directory settings as a shared ProjectConfig.
func (c *Config) Project() *intconfig.ProjectConfig {
	return &intconfig.ProjectConfig{
		SchemasDir: c.SchemasDir,
		ModelsDir:  c.ModelsDir,
	}
}

// configKey is used to store config in context.
type configKey struct{}

// WithConfig returns a copy of ctx carrying cfg.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from the command context, or the
// defaults if none was stored.
func FromContext(ctx context.Context) *Config {
	if ctx != nil {
		if c, ok := ctx.Value(configKey{}).(*Config); ok {
			return c
		}
	}
	return Default()
}
