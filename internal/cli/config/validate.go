package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.SchemasDir == "" {
		return fmt.Errorf("schemas_dir is required")
	}
	if c.ModelsDir == "" {
		return fmt.Errorf("models_dir is required")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log_format %q (expected text or json)", c.LogFormat)
	}
	if !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("invalid output %q (expected one of %s)", c.OutputFormat, strings.Join(OutputFormats, ", "))
	}
	return nil
}

// ValidateDirectories checks if the schemas directory exists. The models
// directory may be absent; a project with no rows is valid.
func (c *Config) ValidateDirectories() error {
	if _, err := os.Stat(c.SchemasDir); os.IsNotExist(err) {
		return fmt.Errorf("schemas directory does not exist: %s\nHint: Create the directory or use --schemas-dir to specify a different path", c.SchemasDir)
	}
	return nil
}
