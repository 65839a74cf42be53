package cli

import (
	"fmt"
	"log/slog"
	"strings"

	env "github.com/caarlos0/env/v11"

	"github.com/attus74/devutil/compiler/module"
	"github.com/attus74/devutil/compiler/registry"
)

// EnvPrefix prefixes every environment variable read by the command line.
const EnvPrefix = "DEVUTIL_"

// Config holds the command line defaults. Flags override them.
type Config struct {
	Root        string `env:"ROOT" envDefault:"."`
	Author      string `env:"AUTHOR"`
	Date        bool   `env:"DATE" envDefault:"false"`
	ModulesDir  string `env:"MODULES_DIR" envDefault:"modules/custom"`
	CoreVersion string `env:"CORE_VERSION" envDefault:"^9.1 || ^10"`
	Manifest    string `env:"MANIFEST" envDefault:"devutil.entity_types.yml"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"warn"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return &cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Root:        ".",
		ModulesDir:  module.DefaultDir,
		CoreVersion: module.DefaultCoreVersion,
		Manifest:    registry.ManifestFile,
		LogLevel:    "warn",
	}
}

// level parses a slog level name such as "debug" or "WARN".
func level(name string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", name)
	}
	return l, nil
}
