package gen

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// Option configures the generators.
type Option func(*Config) error

// WithAuthor sets the default author of generated doc comments.
func WithAuthor(name string) Option {
	return func(c *Config) error {
		c.Author = strings.TrimSpace(name)
		return nil
	}
}

// WithClock enables @date lines using now.
func WithClock(now func() time.Time) Option {
	return func(c *Config) error {
		if now == nil {
			return NewConfigError("Clock", nil, "clock cannot be nil")
		}
		c.Clock = now
		return nil
	}
}

// WithModulesDir sets the parent directory of new modules.
func WithModulesDir(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("ModulesDir", nil, "modules directory cannot be empty")
		}
		if filepath.IsAbs(dir) {
			return NewConfigError("ModulesDir", dir, "modules directory must be relative to the project root")
		}
		c.ModulesDir = filepath.Clean(dir)
		return nil
	}
}

// WithCoreVersion sets the core_version_requirement of new modules.
func WithCoreVersion(v string) Option {
	return func(c *Config) error {
		if strings.TrimSpace(v) == "" {
			return NewConfigError("CoreVersion", nil, "core version cannot be empty")
		}
		c.CoreVersion = v
		return nil
	}
}

// WithManifest sets the path of the project manifest.
func WithManifest(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return NewConfigError("Manifest", nil, "manifest path cannot be empty")
		}
		c.Manifest = path
		return nil
	}
}

// WithLogger sets the logger of generation runs.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
