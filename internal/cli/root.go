// Package cli implements the devutil command line.
package cli

import (
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/attus74/devutil/compiler/filestore"
	"github.com/attus74/devutil/compiler/gen"
	"github.com/attus74/devutil/compiler/registry"
)

// app carries the settings shared by all subcommands.
type app struct {
	cfg *Config
	out io.Writer
	err io.Writer
	now func() time.Time
}

// NewRootCmd returns the devutil command. cfg supplies the flag defaults; a
// nil cfg uses the built-in defaults.
func NewRootCmd(cfg *Config, out, errOut io.Writer) *cobra.Command {
	if cfg == nil {
		cfg = defaultConfig()
	}
	a := &app{cfg: cfg, out: out, err: errOut, now: time.Now}
	root := &cobra.Command{
		Use:   "devutil",
		Short: "Scaffold Drupal entity types, bundles and plugin types",
		Long: `devutil generates the classes, routing, permissions, links, forms,
access handlers and templates of Drupal entity types into a module.

Configuration tables and the module file are merged, generated classes are
overwritten. Defaults are read from DEVUTIL_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)
	f := root.PersistentFlags()
	f.StringVar(&cfg.Root, "root", cfg.Root, "project root directory")
	f.StringVar(&cfg.Author, "name", cfg.Author, "author written to generated doc comments")
	f.BoolVar(&cfg.Date, "date", cfg.Date, "write the current date to generated doc comments")
	f.StringVar(&cfg.ModulesDir, "modules-dir", cfg.ModulesDir, "directory new modules are created in")
	f.StringVar(&cfg.CoreVersion, "core-version", cfg.CoreVersion, "core_version_requirement of new modules")
	f.StringVar(&cfg.Manifest, "manifest", cfg.Manifest, "manifest of generated entity types")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")

	root.AddCommand(
		a.contentEntityCmd(),
		a.configEntityCmd(),
		a.bundleCmd(),
		a.pluginCmd(),
		a.applyCmd(),
		a.modulesCmd(),
	)
	return root
}

// project opens the project store and its registries.
func (a *app) project() (*filestore.Store, *registry.Modules, *registry.EntityTypes) {
	fs := filestore.OS(a.cfg.Root)
	dirs := []string{a.cfg.ModulesDir}
	for _, d := range registry.DefaultModuleDirs {
		if !slices.Contains(dirs, d) {
			dirs = append(dirs, d)
		}
	}
	return fs, registry.NewModules(fs, dirs...), registry.NewEntityTypes(fs, a.cfg.Manifest)
}

// options translates the configuration into generator options.
func (a *app) options() ([]gen.Option, error) {
	lvl, err := level(a.cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log := slog.New(slog.NewTextHandler(a.err, &slog.HandlerOptions{Level: lvl}))
	opts := []gen.Option{
		gen.WithAuthor(a.cfg.Author),
		gen.WithModulesDir(a.cfg.ModulesDir),
		gen.WithCoreVersion(a.cfg.CoreVersion),
		gen.WithManifest(a.cfg.Manifest),
		gen.WithLogger(log),
	}
	if a.cfg.Date {
		opts = append(opts, gen.WithClock(a.now))
	}
	return opts, nil
}
