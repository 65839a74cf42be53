package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/attus74/devutil/compiler/gen"
	"github.com/attus74/devutil/compiler/plan"
)

func (a *app) contentEntityCmd() *cobra.Command {
	var spec gen.EntitySpec
	cmd := &cobra.Command{
		Use:     "content-entity <machine_name> <label>",
		Aliases: []string{"devu-nt-ent"},
		Short:   "Generate a content entity type",
		Example: `  devutil content-entity recipe Recipe
  devutil content-entity document Document --bundles --bundle-classes --module kitchen`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec.MachineName, spec.Label = args[0], args[1]
			fs, modules, _ := a.project()
			opts, err := a.options()
			if err != nil {
				return err
			}
			g, err := gen.NewEntityTypeGenerator(fs, modules, opts...)
			if err != nil {
				return err
			}
			res, err := g.Generate(cmd.Context(), spec)
			if err != nil {
				return err
			}
			a.report("Content entity type "+spec.MachineName, res)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&spec.Module, "module", "", "existing or new module receiving the entity type")
	f.StringVar(&spec.Path, "path", "", "parent directory of a new module")
	f.BoolVar(&spec.HasBundles, "bundles", false, "add a bundle config entity type")
	f.BoolVar(&spec.HasBundleClasses, "bundle-classes", false, "use a class per bundle (requires --bundles)")
	return cmd
}

func (a *app) configEntityCmd() *cobra.Command {
	var spec gen.EntitySpec
	cmd := &cobra.Command{
		Use:     "config-entity <machine_name> <label>",
		Aliases: []string{"devu-nf-ent"},
		Short:   "Generate a config entity type",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec.MachineName, spec.Label = args[0], args[1]
			fs, modules, _ := a.project()
			opts, err := a.options()
			if err != nil {
				return err
			}
			g, err := gen.NewConfigEntityTypeGenerator(fs, modules, opts...)
			if err != nil {
				return err
			}
			res, err := g.Generate(cmd.Context(), spec)
			if err != nil {
				return err
			}
			a.report("Config entity type "+spec.MachineName, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&spec.Module, "module", "", "existing or new module receiving the entity type")
	cmd.Flags().StringVar(&spec.Path, "path", "", "parent directory of a new module")
	return cmd
}

func (a *app) bundleCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "bundle <entity_type> <bundle> <label>",
		Aliases: []string{"devu-bundle"},
		Short:   "Add a bundle class to an entity type generated with bundle classes",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := gen.BundleSpec{EntityType: args[0], BundleID: args[1], Label: args[2]}
			fs, modules, types := a.project()
			opts, err := a.options()
			if err != nil {
				return err
			}
			g, err := gen.NewBundleGenerator(fs, modules, types, opts...)
			if err != nil {
				return err
			}
			res, err := g.Generate(cmd.Context(), spec)
			if err != nil {
				return err
			}
			a.report("Bundle "+spec.EntityType+"."+spec.BundleID, res)
			return nil
		},
	}
}

func (a *app) pluginCmd() *cobra.Command {
	var spec gen.PluginKitSpec
	cmd := &cobra.Command{
		Use:     "plugin <name>",
		Aliases: []string{"devu-plugin"},
		Short:   "Generate an annotation based plugin type",
		Example: `  devutil plugin "Image Source" --module media_kit`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec.Name = args[0]
			fs, modules, _ := a.project()
			opts, err := a.options()
			if err != nil {
				return err
			}
			g, err := gen.NewPluginKitGenerator(fs, modules, opts...)
			if err != nil {
				return err
			}
			res, err := g.Generate(cmd.Context(), spec)
			if err != nil {
				return err
			}
			a.report("Plugin type "+spec.Name, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&spec.Module, "module", "", "existing or new module receiving the plugin type")
	return cmd
}

func (a *app) applyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <plan.yml>",
		Short: "Run the generation steps of a plan file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, modules, types := a.project()
			p, err := plan.Load(fs, args[0])
			if err != nil {
				return err
			}
			opts, err := a.options()
			if err != nil {
				return err
			}
			r, err := plan.NewRunner(fs, modules, types, opts...)
			if err != nil {
				return err
			}
			results, err := r.Run(cmd.Context(), p)
			for i, res := range results {
				a.report(p.Steps[i].String(), res)
			}
			return err
		},
	}
}

func (a *app) modulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "List the modules generated code can be added to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, modules, _ := a.project()
			names, err := modules.List()
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(a.out, n)
			}
			return nil
		},
	}
}
