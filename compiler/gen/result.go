package gen

import "github.com/attus74/devutil/compiler/module"

// Result reports a finished generation run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string
	// Module is the module that received the artifacts.
	Module *module.Module
	// Files lists every written path in write order.
	Files []string
	// Warnings holds the *devutil.PatchError of every hand-maintained file
	// that could not be patched. Those files were left untouched.
	Warnings []error
	Metrics  WriterMetrics
}

// HasWarnings reports whether some file was skipped.
func (r *Result) HasWarnings() bool { return len(r.Warnings) > 0 }
