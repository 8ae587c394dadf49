package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	intconfig "github.com/leapstack-labs/nodata/internal/config"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix for environment overrides.
// NODATA_MODELS_DIR sets models_dir.
const EnvPrefix = "NODATA_"

// pathKeys are resolved against the project root when they come from the
// defaults or the config file. Values from env vars and flags are taken
// relative to the working directory.
var pathKeys = []string{"schemas_dir", "models_dir"}

// projectRoot determines where the project lives.
// Priority: explicit config file > upward search from CWD > CWD.
func projectRoot(cfgFile string) string {
	if cfgFile != "" {
		if abs, err := filepath.Abs(cfgFile); err == nil {
			return filepath.Dir(abs)
		}
		return filepath.Dir(cfgFile)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	if root := intconfig.FindProjectRoot(cwd); root != "" {
		return root
	}
	return cwd
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	root := projectRoot(cfgFile)

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"schemas_dir":  DefaultSchemasDir,
		"models_dir":   DefaultModelsDir,
		"log_level":    DefaultLogLevel,
		"log_format":   DefaultLogFormat,
		"output":       DefaultOutput,
		"verbose":      false,
		"history_file": DefaultHistoryFile,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if cfgFile == "" {
		cfgFile = intconfig.FindConfigFile(root)
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	for _, key := range pathKeys {
		if err := k.Set(key, intconfig.ResolvePath(k.String(key), root)); err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", key, err)
		}
	}

	// 3. Environment variables
	// Transform: NODATA_MODELS_DIR -> models_dir
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ProjectRoot = root
	cfg.ConfigFile = cfgFile

	if cfg.Verbose && !flagChanged(flags, "log-level") {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func flagChanged(flags *pflag.FlagSet, name string) bool {
	if flags == nil {
		return false
	}
	f := flags.Lookup(name)
	return f != nil && f.Changed
}
