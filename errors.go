// FILE: stratacfg/strata/errors.go
package strata

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for class matching with errors.Is. Every error returned
// by the resolution path wraps one of these; the structured types below
// carry the offending key and literal text for direct diagnosis.
var (
	ErrNotFound        = errors.New("key not found")
	ErrCoerce          = errors.New("cannot coerce value")
	ErrCycle           = errors.New("placeholder cycle")
	ErrUnresolved      = errors.New("placeholder unresolved")
	ErrSyntax          = errors.New("placeholder syntax error")
	ErrDuplicateSource = errors.New("duplicate source name")
	ErrRefresh         = errors.New("source refresh failed")
	ErrValidation      = errors.New("validation failed")
)

// NotFoundError reports a key absent from every registered source. An empty
// string resolves as absent for all targets except string.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("key not found: %s", e.Key)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// CoerceError reports a resolved value that could not be converted to the
// requested target type.
type CoerceError struct {
	Key    string // full key path of the failing value
	Target string // target shape, e.g. "int8", "bool", "duration"
	Raw    string // literal text that failed to parse
}

func (e *CoerceError) Error() string {
	return fmt.Sprintf("cannot coerce %q to %s for key %s", e.Raw, e.Target, e.Key)
}

func (e *CoerceError) Is(target error) bool { return target == ErrCoerce }

// CycleError reports a placeholder expansion that revisited a key already on
// the current expansion chain.
type CycleError struct {
	Chain []string // keys in expansion order, ending at the repeated key
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("placeholder cycle: %s", strings.Join(e.Chain, " -> "))
}

func (e *CycleError) Is(target error) bool { return target == ErrCycle }

// UnresolvedError reports a ${key} reference whose key is absent from every
// source and which has no default.
type UnresolvedError struct {
	Key string // the missing referenced key
	Raw string // the scalar text containing the reference
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("placeholder references undefined key %q in %q", e.Key, e.Raw)
}

func (e *UnresolvedError) Is(target error) bool { return target == ErrUnresolved }

// SyntaxError reports malformed placeholder syntax: an unmatched "${", a
// bare "}" or "$", or a trailing escape character.
type SyntaxError struct {
	Raw string // the full scalar text being scanned
	Pos int    // byte offset of the offending character
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("placeholder syntax error at offset %d in %q", e.Pos, e.Raw)
}

func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

// DuplicateSourceError reports a registration under a name already taken.
type DuplicateSourceError struct {
	Name string
}

func (e *DuplicateSourceError) Error() string {
	return fmt.Sprintf("duplicate source name: %s", e.Name)
}

func (e *DuplicateSourceError) Is(target error) bool { return target == ErrDuplicateSource }

// RefreshError reports a single source's refresh failure. Refresh aggregates
// them with errors.Join and returns the batch to its caller.
type RefreshError struct {
	Source string
	Err    error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("source %q refresh failed: %v", e.Source, e.Err)
}

func (e *RefreshError) Is(target error) bool { return target == ErrRefresh }

func (e *RefreshError) Unwrap() error { return e.Err }
