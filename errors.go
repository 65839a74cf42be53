package devutil

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure classes of a generation run.
var (
	// ErrInvalidSpec is returned when a generation request is malformed.
	// Nothing has been written when it is reported.
	ErrInvalidSpec = errors.New("devutil: invalid spec")

	// ErrModuleCreation is returned when the target module could not be
	// resolved or created. The run aborts before any artifact is written.
	ErrModuleCreation = errors.New("devutil: module creation failed")

	// ErrPrecondition is returned when a generator refuses to run against the
	// current state of the project.
	ErrPrecondition = errors.New("devutil: precondition failed")

	// ErrPatchFailed is reported when an existing source file could not be
	// parsed for patching. The file is left untouched.
	ErrPatchFailed = errors.New("devutil: patch failed")

	// ErrMalformedDocument is returned when a document model cannot be rendered.
	ErrMalformedDocument = errors.New("devutil: malformed document")
)

// SpecError describes an invalid field of a generation request.
type SpecError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *SpecError) Error() string {
	if e.Value != nil && e.Value != "" {
		return fmt.Sprintf("devutil: invalid spec field %q (value: %v): %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("devutil: invalid spec field %q: %s", e.Field, e.Message)
}

// Is reports whether the target matches ErrInvalidSpec.
func (e *SpecError) Is(target error) bool {
	return target == ErrInvalidSpec
}

// NewSpecError creates a new SpecError.
func NewSpecError(field string, value any, message string) *SpecError {
	return &SpecError{Field: field, Value: value, Message: message}
}

// IsSpecError returns true if the error is a SpecError.
func IsSpecError(err error) bool {
	if err == nil {
		return false
	}
	var e *SpecError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidSpec)
}

// ModuleError describes a failure to resolve or create a module.
type ModuleError struct {
	Module  string
	Path    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ModuleError) Error() string {
	var b strings.Builder
	b.WriteString("devutil: module ")
	b.WriteString(e.Module)
	if e.Path != "" {
		fmt.Fprintf(&b, " (%s)", e.Path)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ModuleError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrModuleCreation.
func (e *ModuleError) Is(target error) bool {
	return target == ErrModuleCreation
}

// NewModuleError creates a new ModuleError.
func NewModuleError(module, path, message string, cause error) *ModuleError {
	return &ModuleError{Module: module, Path: path, Message: message, Cause: cause}
}

// IsModuleError returns true if the error is a ModuleError.
func IsModuleError(err error) bool {
	if err == nil {
		return false
	}
	var e *ModuleError
	return errors.As(err, &e) || errors.Is(err, ErrModuleCreation)
}

// PreconditionError describes a refused bundle or entity generation.
type PreconditionError struct {
	EntityType string
	Bundle     string
	Message    string
}

// Error implements the error interface.
func (e *PreconditionError) Error() string {
	var b strings.Builder
	b.WriteString("devutil: precondition failed")
	if e.EntityType != "" {
		b.WriteString(" for ")
		b.WriteString(e.EntityType)
		if e.Bundle != "" {
			b.WriteString(".")
			b.WriteString(e.Bundle)
		}
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

// Is reports whether the target matches ErrPrecondition.
func (e *PreconditionError) Is(target error) bool {
	return target == ErrPrecondition
}

// NewPreconditionError creates a new PreconditionError.
func NewPreconditionError(entityType, bundle, message string) *PreconditionError {
	return &PreconditionError{EntityType: entityType, Bundle: bundle, Message: message}
}

// IsPreconditionError returns true if the error is a PreconditionError.
func IsPreconditionError(err error) bool {
	if err == nil {
		return false
	}
	var e *PreconditionError
	return errors.As(err, &e) || errors.Is(err, ErrPrecondition)
}

// PatchError describes a source file that could not be patched.
type PatchError struct {
	File  string
	Hook  string
	Cause error
}

// Error implements the error interface.
func (e *PatchError) Error() string {
	msg := fmt.Sprintf("devutil: cannot patch %s in %s", e.Hook, e.File)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *PatchError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrPatchFailed.
func (e *PatchError) Is(target error) bool {
	return target == ErrPatchFailed
}

// NewPatchError creates a new PatchError.
func NewPatchError(file, hook string, cause error) *PatchError {
	return &PatchError{File: file, Hook: hook, Cause: cause}
}

// IsPatchError returns true if the error is a PatchError.
func IsPatchError(err error) bool {
	if err == nil {
		return false
	}
	var e *PatchError
	return errors.As(err, &e) || errors.Is(err, ErrPatchFailed)
}

// DocumentError describes a document model that cannot be rendered.
type DocumentError struct {
	Document string
	Message  string
}

// Error implements the error interface.
func (e *DocumentError) Error() string {
	if e.Document == "" {
		return "devutil: malformed document: " + e.Message
	}
	return fmt.Sprintf("devutil: malformed document %s: %s", e.Document, e.Message)
}

// Is reports whether the target matches ErrMalformedDocument.
func (e *DocumentError) Is(target error) bool {
	return target == ErrMalformedDocument
}

// NewDocumentError creates a new DocumentError.
func NewDocumentError(document, message string) *DocumentError {
	return &DocumentError{Document: document, Message: message}
}

// IsDocumentError returns true if the error is a DocumentError.
func IsDocumentError(err error) bool {
	if err == nil {
		return false
	}
	var e *DocumentError
	return errors.As(err, &e) || errors.Is(err, ErrMalformedDocument)
}

// AggregateError collects the errors of several generation runs.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "devutil: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("devutil: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the collected errors.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns a new AggregateError if there are errors,
// otherwise returns nil.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}
