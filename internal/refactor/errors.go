package refactor

import "fmt"

// Kind names one failure class of the refactoring engine. Kinds are stable
// identifiers: callers match on them and may surface Reason verbatim.
type Kind string

const (
	KindFileNotFound        Kind = "file_not_found"
	KindSyntaxErrorInSource Kind = "syntax_error_in_source"
	KindSyntaxErrorInOutput Kind = "syntax_error_in_generated_output"
	KindTargetNotFound      Kind = "target_not_found"
	KindAlreadyExists       Kind = "already_exists"
	KindInvalidRange        Kind = "invalid_range"
	KindInvalidIdentifier   Kind = "invalid_identifier"
	KindNoDependenciesFound Kind = "no_dependencies_found"
	KindNoCallSites         Kind = "no_call_sites"
	KindUnsafeOperation     Kind = "unsafe_operation"
)

// Error is the typed failure every operation returns as data. The target
// file is guaranteed untouched whenever an Error comes back.
type Error struct {
	Kind   Kind
	Reason string // human-readable detail; for UnsafeOperation, the fixed sub-reason vocabulary
	Err    error  // underlying cause, if any
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func errKind(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

func errWrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}
