// Package config provides the project configuration shared by the CLI
// and the loader.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config file names, in lookup order.
const (
	ConfigFileName    = "nodata.yaml"
	ConfigFileNameAlt = "nodata.yml"
)

// LoadFromDir loads a ProjectConfig from dir. Relative directories are
// resolved against dir. A missing config file yields the defaults.
func LoadFromDir(dir string) (*ProjectConfig, error) {
	var cfg ProjectConfig

	if path := FindConfigFile(dir); path != "" {
		k := koanf.New(".")
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if err := k.Unmarshal("", &cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	cfg.ApplyDefaults()
	cfg.SchemasDir = ResolvePath(cfg.SchemasDir, dir)
	cfg.ModelsDir = ResolvePath(cfg.ModelsDir, dir)
	return &cfg, nil
}

// FindConfigFile returns the config file in dir, or "" if there is none.
func FindConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// FindProjectRoot walks up from startDir to the first directory holding
// a config file. Returns "" if none is found.
func FindProjectRoot(startDir string) string {
	dir := startDir
	for {
		if FindConfigFile(dir) != "" {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// ResolvePath joins a relative path onto base. Empty and absolute paths
// are returned unchanged.
func ResolvePath(path, base string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
