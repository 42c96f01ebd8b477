package cli

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
	"github.com/spf13/pflag"
)

// Config defaults.
const (
	DefaultDialect   = "hql"
	DefaultFormat    = "text"
	DefaultSchemaDir = "schema"

	// EnvPrefix prefixes environment overrides: PATHQL_SCHEMA_DIR -> schema_dir.
	EnvPrefix = "PATHQL_"
)

// configFiles are searched in the working directory when no --config is given.
var configFiles = []string{"pathql.yaml", "pathql.yml"}

// Config holds the settings shared by all commands.
type Config struct {
	Dialect   string `koanf:"dialect"`
	Format    string `koanf:"format"`
	Verbose   bool   `koanf:"verbose"`
	SchemaDir string `koanf:"schema_dir"`
	Convert   bool   `koanf:"convert"`

	// File is the config file that was read, empty when none was found.
	File string `koanf:"-"`
}

// configKeys are the keys flags may override.
var configKeys = map[string]bool{
	"dialect":    true,
	"format":     true,
	"verbose":    true,
	"schema_dir": true,
	"convert":    true,
}

// findConfigFile returns explicit, or the first config file present in the
// working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// LoadConfig loads configuration from defaults, the config file, environment
// variables and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
//
// A relative schema_dir read from the config file resolves against the
// file's directory; one given by flag or environment stays relative to the
// working directory.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"dialect":    DefaultDialect,
		"format":     DefaultFormat,
		"verbose":    false,
		"schema_dir": DefaultSchemaDir,
		"convert":    false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	fileSchemaDir := ""
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
		if k.Exists("schema_dir") {
			fileSchemaDir = k.String("schema_dir")
		}
	}

	// 3. Environment (PATHQL_ prefix)
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only those explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if !configKeys[key] {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used

	if used != "" && cfg.SchemaDir == fileSchemaDir && !filepath.IsAbs(cfg.SchemaDir) {
		cfg.SchemaDir = filepath.Join(filepath.Dir(used), cfg.SchemaDir)
	}
	return &cfg, nil
}
