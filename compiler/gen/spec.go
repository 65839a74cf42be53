package gen

import (
	"github.com/attus74/devutil"
	"github.com/attus74/devutil/naming"
)

// EntitySpec describes a content or config entity type to generate.
type EntitySpec struct {
	MachineName string
	Label       string
	// HasBundles adds a bundle config entity type. Content entities only.
	HasBundles bool
	// HasBundleClasses gives every bundle its own class. Requires HasBundles.
	HasBundleClasses bool
	// Module receives the artifacts; defaults to MachineName.
	Module string
	// Path is the parent directory of a new module. Cannot be combined
	// with Module.
	Path   string
	Author string
}

// ModuleName returns the name of the target module.
func (s EntitySpec) ModuleName() string {
	if s.Module != "" {
		return s.Module
	}
	return s.MachineName
}

// Validate checks the static invariants of the request. All violations are
// reported together.
func (s EntitySpec) Validate() error {
	var errs []error
	if !naming.ValidMachineName(s.MachineName) {
		errs = append(errs, devutil.NewSpecError("MachineName", s.MachineName, "must start with a lowercase letter and contain only lowercase letters, digits and underscores"))
	}
	if s.Label == "" {
		errs = append(errs, devutil.NewSpecError("Label", s.Label, "label cannot be empty"))
	}
	if s.Module != "" && !naming.ValidMachineName(s.Module) {
		errs = append(errs, devutil.NewSpecError("Module", s.Module, "invalid module name"))
	}
	if s.Module != "" && s.Path != "" {
		errs = append(errs, devutil.NewSpecError("Path", s.Path, "path may only be used if a new module shall be created"))
	}
	if s.HasBundleClasses && !s.HasBundles {
		errs = append(errs, devutil.NewSpecError("HasBundleClasses", true, "bundle classes require bundles"))
	}
	return devutil.NewAggregateError(errs...)
}

// BundleSpec describes a bundle to add to an existing entity type.
type BundleSpec struct {
	EntityType string
	BundleID   string
	Label      string
	Author     string
}

// Validate checks the static invariants of the request.
func (s BundleSpec) Validate() error {
	var errs []error
	if !naming.ValidMachineName(s.EntityType) {
		errs = append(errs, devutil.NewSpecError("EntityType", s.EntityType, "invalid entity type id"))
	}
	if !naming.ValidMachineName(s.BundleID) {
		errs = append(errs, devutil.NewSpecError("BundleID", s.BundleID, "invalid bundle id"))
	}
	if s.Label == "" {
		errs = append(errs, devutil.NewSpecError("Label", s.Label, "label cannot be empty"))
	}
	return devutil.NewAggregateError(errs...)
}

// PluginKitSpec describes an annotation based plugin type.
type PluginKitSpec struct {
	// Name is either a machine name or a spaced label, e.g. "Image Source".
	Name   string
	Module string
	Author string
}

// Names returns the underscore, class and label forms of the plugin name.
func (s PluginKitSpec) Names() (underscore, class, label string) {
	underscore = naming.Underscore(s.Name)
	return underscore, naming.ClassName(underscore), naming.Label(underscore)
}

// ModuleName returns the name of the target module.
func (s PluginKitSpec) ModuleName() string {
	if s.Module != "" {
		return s.Module
	}
	u, _, _ := s.Names()
	return u
}

// Validate checks the static invariants of the request.
func (s PluginKitSpec) Validate() error {
	u, _, _ := s.Names()
	var errs []error
	if !naming.ValidMachineName(u) {
		errs = append(errs, devutil.NewSpecError("Name", s.Name, "plugin name must yield a machine name"))
	}
	if s.Module != "" && !naming.ValidMachineName(s.Module) {
		errs = append(errs, devutil.NewSpecError("Module", s.Module, "invalid module name"))
	}
	return devutil.NewAggregateError(errs...)
}
