// Package gen generates the artifacts of Drupal entity types, bundles and
// plugin types into a module.
//
// Every generator validates its spec and checks its preconditions before
// the first file system access, then runs a fixed sequence of steps through
// a single FileStore. PHP classes, forms and templates are overwritten on
// every run; YAML tables and the module's hook file are merged so that
// entries the generator does not own survive. Running a generator twice
// with the same spec and options produces identical files.
package gen
