package plan

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/attus74/devutil/compiler/filestore"
	"github.com/attus74/devutil/compiler/gen"
	"github.com/attus74/devutil/compiler/module"
)

// Runner executes plans with one generator per step kind.
type Runner struct {
	content *gen.EntityTypeGenerator
	config  *gen.ConfigEntityTypeGenerator
	bundle  *gen.BundleGenerator
	plugin  *gen.PluginKitGenerator
	log     *slog.Logger
}

// NewRunner creates the generators of a runner. All of them share fs,
// modules, types and opts.
func NewRunner(fs filestore.FileStore, modules module.Registry, types gen.EntityTypeRegistry, opts ...gen.Option) (*Runner, error) {
	cfg, err := gen.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	r := &Runner{log: cfg.Logger}
	if r.content, err = gen.NewEntityTypeGenerator(fs, modules, opts...); err != nil {
		return nil, err
	}
	if r.config, err = gen.NewConfigEntityTypeGenerator(fs, modules, opts...); err != nil {
		return nil, err
	}
	if r.bundle, err = gen.NewBundleGenerator(fs, modules, types, opts...); err != nil {
		return nil, err
	}
	if r.plugin, err = gen.NewPluginKitGenerator(fs, modules, opts...); err != nil {
		return nil, err
	}
	return r, nil
}

// Run executes the steps of p in order and stops at the first failing step.
// The results of the steps that completed are returned in both cases.
func (r *Runner) Run(ctx context.Context, p *Plan) ([]*gen.Result, error) {
	results := make([]*gen.Result, 0, len(p.Steps))
	for i, s := range p.Steps {
		if s.Author == "" {
			s.Author = p.Author
		}
		r.log.Info("plan step", "index", i+1, "step", s.String())
		res, err := r.step(ctx, s)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, s, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *Runner) step(ctx context.Context, s Step) (*gen.Result, error) {
	switch s.Kind {
	case KindContentEntity:
		return r.content.Generate(ctx, entitySpec(s))
	case KindConfigEntity:
		return r.config.Generate(ctx, entitySpec(s))
	case KindBundle:
		return r.bundle.Generate(ctx, gen.BundleSpec{
			EntityType: s.EntityType,
			BundleID:   s.Bundle,
			Label:      s.Label,
			Author:     s.Author,
		})
	case KindPlugin:
		return r.plugin.Generate(ctx, gen.PluginKitSpec{Name: s.Name, Module: s.Module, Author: s.Author})
	default:
		return nil, fmt.Errorf("%w: unknown step kind %q", ErrInvalidPlan, s.Kind)
	}
}

func entitySpec(s Step) gen.EntitySpec {
	return gen.EntitySpec{
		MachineName:      s.Name,
		Label:            s.Label,
		HasBundles:       s.Bundles,
		HasBundleClasses: s.BundleClasses,
		Module:           s.Module,
		Path:             s.Path,
		Author:           s.Author,
	}
}
