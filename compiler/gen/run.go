package gen

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/attus74/devutil"
	"github.com/attus74/devutil/compiler/filestore"
	"github.com/attus74/devutil/compiler/hook"
	"github.com/attus74/devutil/compiler/module"
	"github.com/attus74/devutil/compiler/omap"
	"github.com/attus74/devutil/compiler/php"
	"github.com/attus74/devutil/compiler/table"
)

// run is the state of one generation run. Steps execute in order on a
// single goroutine; every table is loaded and saved by exactly one step.
type run struct {
	cfg     *Config
	log     *slog.Logger
	w       *writer
	tables  *table.Store
	patcher *hook.Patcher
	author  string
	date    string
	module  *module.Module
	result  *Result
}

// start begins a run. It is called after all preconditions passed and is the
// last point where ctx is consulted.
func start(ctx context.Context, cfg *Config, fs filestore.FileStore, generator, subject, author string) (*run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	log := cfg.Logger.With("run_id", id, "generator", generator, "subject", subject)
	w := newWriter(fs, log)
	if author == "" {
		author = cfg.Author
	}
	log.Info("generation started")
	return &run{
		cfg:     cfg,
		log:     log,
		w:       w,
		tables:  table.NewStore(w),
		patcher: hook.New(w),
		author:  author,
		date:    cfg.date(),
		result:  &Result{RunID: id},
	}, nil
}

// ensureModule resolves or creates the target module.
func (r *run) ensureModule(modules module.Registry, ref module.Ref) error {
	m, err := module.NewScaffolder(r.w, modules, r.cfg.ModulesDir, r.cfg.CoreVersion).Ensure(ref)
	if err != nil {
		r.log.Error("module unavailable", "module", ref.Name, "error", err)
		return err
	}
	r.module = m
	r.result.Module = m
	r.log.Debug("module resolved", "module", m.Name, "root", m.Root, "created", !m.Exists)
	return nil
}

// update loads the table at path, lets fn mutate it and saves it.
func (r *run) update(path string, fn func(*table.Table) error) error {
	t, err := r.tables.Load(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	if err := fn(t); err != nil {
		return err
	}
	if err := r.tables.Save(t); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// merge sets entries into the module table with the given key.
func (r *run) merge(key string, entries omap.Map) error {
	return r.mergePath(r.module.Table(key), entries)
}

func (r *run) mergePath(path string, entries omap.Map) error {
	update := table.New(path)
	for _, e := range entries {
		if err := update.Set(e.Key, e.Value); err != nil {
			return err
		}
	}
	return r.update(path, func(t *table.Table) error {
		t.Merge(update)
		return nil
	})
}

// namespace returns the namespace segments of the module below Drupal.
func (r *run) namespace(sub ...string) []string {
	return append([]string{"Drupal", r.module.Name}, sub...)
}

// class returns the fully qualified name of a module class.
func (r *run) class(elem ...string) string {
	return strings.Join(r.namespace(elem...), `\`)
}

// newDocument creates a document in a namespace below the module.
func (r *run) newDocument(kind php.Kind, name string, sub ...string) *php.Document {
	return php.New(kind, name, r.namespace(sub...)...)
}

// write renders doc to the PSR-4 location of its namespace.
func (r *run) write(doc *php.Document) error {
	text, err := doc.Render()
	if err != nil {
		return err
	}
	elem := append([]string{"src"}, doc.Namespace[2:]...)
	return r.writeText(r.module.File(append(elem, doc.Name+".php")...), text)
}

func (r *run) writeText(path, content string) error {
	if err := r.w.WriteText(path, content); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ensureDir creates a directory inside the module.
func (r *run) ensureDir(elem ...string) error {
	dir := r.module.File(elem...)
	if err := r.w.EnsureDir(dir); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}

// patch applies a hook patch. A file that cannot be patched becomes a
// warning; any other failure ends the run.
func (r *run) patch(req hook.Request) error {
	changed, err := r.patcher.Patch(req)
	if devutil.IsPatchError(err) {
		r.log.Warn("hook file left unchanged", "path", req.File, "hook", req.Hook, "error", err)
		r.result.Warnings = append(r.result.Warnings, err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("patch %s: %w", req.File, err)
	}
	if !changed {
		r.log.Debug("hook already up to date", "path", req.File, "hook", req.Hook)
	}
	return nil
}

// comment returns a doc comment with the author and date of the run.
func (r *run) comment(title string, annotations ...php.Annotation) *php.DocComment {
	return &php.DocComment{
		Title:       title,
		Author:      r.author,
		Date:        r.date,
		Annotations: annotations,
	}
}

// fileHeader returns the doc lines of a new procedural file.
func (r *run) fileHeader(title string) []string {
	lines := []string{"@file", title}
	if r.author != "" || r.date != "" {
		lines = append(lines, "")
	}
	if r.author != "" {
		lines = append(lines, "@author "+r.author)
	}
	if r.date != "" {
		lines = append(lines, "@date "+r.date)
	}
	return lines
}

// steps runs fn in order and stops at the first failure.
func (r *run) steps(steps ...step) error {
	for _, s := range steps {
		r.log.Debug("step", "step", s.name)
		if err := s.fn(); err != nil {
			r.log.Error("step failed", "step", s.name, "error", err)
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

type step struct {
	name string
	fn   func() error
}

// finish completes the result.
func (r *run) finish() *Result {
	r.result.Files = r.w.files
	r.result.Metrics = r.w.metrics
	r.log.Info("generation finished",
		"files", r.w.metrics.FilesGenerated,
		"bytes", r.w.metrics.TotalBytes,
		"warnings", len(r.result.Warnings),
	)
	return r.result
}
