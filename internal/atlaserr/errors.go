// Package atlaserr defines the single error taxonomy shared by every
// generation stage, so callers can branch on Kind instead of parsing
// messages.
package atlaserr

import (
	"errors"
	"fmt"
)

// Kind classifies the fault so a caller can decide whether to roll back,
// degrade, or abort.
type Kind string

const (
	// KindBackend covers storage I/O, geometry library, and raster read failures.
	KindBackend Kind = "backend"
	// KindSchema covers a missing field, wrong type, or invalid encoded value.
	KindSchema Kind = "schema"
	// KindMissingReference covers a dangling tile/lake/biome/culture id.
	KindMissingReference Kind = "missing_reference"
	// KindGeometry covers unclosed rings, empty polygons, and failed boolean ops.
	KindGeometry Kind = "geometry"
	// KindRecipe covers bad recipe JSON, unknown primitives, and invalid ranges.
	KindRecipe Kind = "recipe"
	// KindPrecondition covers logic preconditions such as min >= max elevation.
	KindPrecondition Kind = "precondition"
)

// Error is the concrete error type returned by every package in this module.
type Error struct {
	Kind    Kind
	Stage   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Stage != "" {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s: %s: %v", e.Stage, e.Kind, e.Message, e.Cause)
		}
		return fmt.Sprintf("%s: %s: %s", e.Stage, e.Kind, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func newf(kind Kind, stage, format string, args ...any) *Error {
	return &Error{Kind: kind, Stage: stage, Message: fmt.Sprintf(format, args...)}
}

func wrapf(kind Kind, stage string, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Stage: stage, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Backend wraps a storage/geometry-library/raster failure.
func Backend(stage string, cause error, format string, args ...any) *Error {
	return wrapf(KindBackend, stage, cause, format, args...)
}

// Schema reports an invalid or missing encoded field.
func Schema(stage, format string, args ...any) *Error {
	return newf(KindSchema, stage, format, args...)
}

// MissingReference reports a dangling id reference.
func MissingReference(stage, format string, args ...any) *Error {
	return newf(KindMissingReference, stage, format, args...)
}

// Geometry reports a geometry invariant violation.
func Geometry(stage, format string, args ...any) *Error {
	return newf(KindGeometry, stage, format, args...)
}

// Recipe reports a malformed recipe document or invalid primitive argument.
func Recipe(stage, format string, args ...any) *Error {
	return newf(KindRecipe, stage, format, args...)
}

// Precondition reports a violated logic precondition (e.g. min >= max).
func Precondition(stage, format string, args ...any) *Error {
	return newf(KindPrecondition, stage, format, args...)
}

// Is reports whether err (or anything it wraps) has the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
