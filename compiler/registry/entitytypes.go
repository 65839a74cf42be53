package registry

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/attus74/devutil/compiler/filestore"
	"github.com/attus74/devutil/compiler/hook"
	"github.com/attus74/devutil/compiler/omap"
	"github.com/attus74/devutil/compiler/php"
	"github.com/attus74/devutil/compiler/table"
)

// ManifestFile is the default project manifest of generated entity types.
const ManifestFile = "devutil.entity_types.yml"

// ErrUnknownEntityType is returned for entity types missing from the manifest.
var ErrUnknownEntityType = errors.New("registry: unknown entity type")

// Definition describes a generated entity type.
type Definition struct {
	ID               string            `yaml:"-"`
	Class            string            `yaml:"class"`
	Label            string            `yaml:"label"`
	Module           string            `yaml:"module"`
	Path             string            `yaml:"path"`
	Config           bool              `yaml:"config,omitempty"`
	BundleKey        string            `yaml:"bundle_key,omitempty"`
	BundleEntityType string            `yaml:"bundle_entity_type,omitempty"`
	Bundles          map[string]Bundle `yaml:"bundles,omitempty"`
}

// Bundle is one bundle of an entity type.
type Bundle struct {
	Label string `yaml:"label"`
	Class string `yaml:"class,omitempty"`
}

// Entry returns the manifest value of d. Bundles are ordered by id.
func (d *Definition) Entry() omap.Map {
	m := omap.Of(
		"class", d.Class,
		"label", d.Label,
		"module", d.Module,
		"path", d.Path,
	)
	if d.Config {
		m = m.Set("config", true)
	}
	if d.BundleKey != "" {
		m = m.Set("bundle_key", d.BundleKey)
	}
	if d.BundleEntityType != "" {
		m = m.Set("bundle_entity_type", d.BundleEntityType)
	}
	if len(d.Bundles) > 0 {
		var bundles omap.Map
		for _, id := range sortedKeys(d.Bundles) {
			b := d.Bundles[id]
			entry := omap.Of("label", b.Label)
			if b.Class != "" {
				entry = entry.Set("class", b.Class)
			}
			bundles = bundles.Set(id, entry)
		}
		m = m.Set("bundles", bundles)
	}
	return m
}

// Lookup decodes the definition of id from a loaded manifest.
func Lookup(manifest *table.Table, id string) (*Definition, bool, error) {
	if !manifest.Has(id) {
		return nil, false, nil
	}
	d := &Definition{}
	if err := manifest.Decode(id, d); err != nil {
		return nil, false, err
	}
	d.ID = id
	return d, true, nil
}

// EntityTypes serves entity type definitions from the project manifest and
// bundle information from the manifest, the owning module's bundle info hook
// and its installed bundle configuration.
type EntityTypes struct {
	fs       filestore.FileStore
	manifest string
}

// NewEntityTypes returns a registry reading the manifest at path, or at
// ManifestFile when path is empty.
func NewEntityTypes(fs filestore.FileStore, path string) *EntityTypes {
	if path == "" {
		path = ManifestFile
	}
	return &EntityTypes{fs: fs, manifest: path}
}

// Definition returns the definition of an entity type.
func (r *EntityTypes) Definition(id string) (*Definition, error) {
	manifest, err := table.NewStore(r.fs).Load(r.manifest)
	if err != nil {
		return nil, fmt.Errorf("registry: load manifest: %w", err)
	}
	d, ok, err := Lookup(manifest, id)
	if err != nil {
		return nil, fmt.Errorf("registry: decode %s: %w", id, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntityType, id)
	}
	return d, nil
}

// BundleInfo returns the bundles of an entity type. An entity type without
// a bundle entity type has a single bundle named after itself.
func (r *EntityTypes) BundleInfo(id string) (map[string]Bundle, error) {
	d, err := r.Definition(id)
	if err != nil {
		return nil, err
	}
	if d.BundleEntityType == "" {
		return map[string]Bundle{id: {Label: d.Label}}, nil
	}
	info := make(map[string]Bundle, len(d.Bundles))
	for k, b := range d.Bundles {
		info[k] = b
	}
	if err := r.hookBundles(d, info); err != nil {
		return nil, err
	}
	if err := r.installedBundles(d, info); err != nil {
		return nil, err
	}
	return info, nil
}

// hookBundles adds the entries of <module>_entity_bundle_info().
func (r *EntityTypes) hookBundles(d *Definition, info map[string]Bundle) error {
	file := filepath.Join(d.Path, d.Module+".module")
	bundles, ok, err := hook.Read(r.fs, file, d.Module+"_entity_bundle_info", "bundles")
	if err != nil || !ok {
		return err
	}
	v, _ := bundles.Get(d.ID)
	owned, ok := v.(*php.Array)
	if !ok {
		return nil
	}
	for _, it := range owned.Items {
		k, ok := it.Key.(php.Str)
		if !ok {
			continue
		}
		b := info[string(k)]
		if attrs, ok := it.Value.(*php.Array); ok {
			if s, ok := stringValue(attrs, "label"); ok {
				b.Label = s
			}
			if s, ok := stringValue(attrs, "class"); ok {
				b.Class = s
			}
		}
		info[string(k)] = b
	}
	return nil
}

// installedBundles adds bundles shipped as config/install/<module>.<bundle
// entity type>.<bundle>.yml that are not known otherwise.
func (r *EntityTypes) installedBundles(d *Definition, info map[string]Bundle) error {
	l, ok := r.fs.(Lister)
	if !ok {
		return nil
	}
	dir := filepath.Join(d.Path, "config", "install")
	names, err := l.List(dir)
	if err != nil {
		return err
	}
	prefix := d.Module + "." + d.BundleEntityType + "."
	store := table.NewStore(r.fs)
	for _, n := range names {
		if !strings.HasPrefix(n, prefix) || !strings.HasSuffix(n, ".yml") {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(n, prefix), ".yml")
		if _, known := info[id]; known || id == "" {
			continue
		}
		cfg, err := store.Load(filepath.Join(dir, n))
		if err != nil {
			return fmt.Errorf("registry: bundle %s: %w", id, err)
		}
		var label string
		if cfg.Has("label") {
			if err := cfg.Decode("label", &label); err != nil {
				return fmt.Errorf("registry: bundle %s: %w", id, err)
			}
		}
		info[id] = Bundle{Label: label}
	}
	return nil
}

var (
	translated = regexp.MustCompile(`^t\('((?:[^'\\]|\\.)*)'\)$`)
	classConst = regexp.MustCompile(`^\\?([A-Za-z_][\w\\]*)::class$`)
)

// stringValue reads a string attribute. Besides plain literals it accepts
// t('...') labels and Foo::class references.
func stringValue(a *php.Array, key string) (string, bool) {
	v, ok := a.Get(key)
	if !ok {
		return "", false
	}
	switch v := v.(type) {
	case php.Str:
		return string(v), true
	case php.RawExpr:
		if m := translated.FindStringSubmatch(string(v)); m != nil {
			return strings.ReplaceAll(m[1], `\'`, `'`), true
		}
		if m := classConst.FindStringSubmatch(string(v)); m != nil {
			return m[1], true
		}
	}
	return "", false
}

func sortedKeys(m map[string]Bundle) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
