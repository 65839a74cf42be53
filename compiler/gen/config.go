package gen

import (
	"io"
	"log/slog"
	"time"

	"github.com/attus74/devutil/compiler/module"
	"github.com/attus74/devutil/compiler/registry"
)

// DateLayout is the layout of @date lines in generated doc comments.
const DateLayout = "02.01.2006"

// Config holds the settings shared by all generators.
type Config struct {
	// Author is the default @author of generated doc comments. A spec
	// carrying its own author wins.
	Author string
	// Clock enables @date lines. Without a clock no dates are written, which
	// keeps repeated runs byte-identical.
	Clock func() time.Time
	// ModulesDir is the parent directory of new modules.
	ModulesDir string
	// CoreVersion is the core_version_requirement of new modules.
	CoreVersion string
	// Manifest is the path of the project manifest of generated entity types.
	Manifest string
	// Logger receives run progress. Defaults to a discarding logger.
	Logger *slog.Logger
}

// NewConfig returns a Config with defaults applied and then opts.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		ModulesDir:  module.DefaultDir,
		CoreVersion: module.DefaultCoreVersion,
		Manifest:    registry.ManifestFile,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if err := c.ApplyAll(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// date returns the @date value of this run, or "".
func (c *Config) date() string {
	if c.Clock == nil {
		return ""
	}
	return c.Clock().Format(DateLayout)
}
