package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseValidate  Phase = "validate"  // settings decoding and validation
	PhaseLookup    Phase = "lookup"    // handle resolution
	PhaseConstruct Phase = "construct" // engine object construction
	PhaseBoundary  Phase = "boundary"  // host boundary encode/decode
	PhaseRuntime   Phase = "runtime"   // table and allocator operations
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidInput    Kind = "invalid_input"
	KindInvalidICEURL   Kind = "invalid_ice_url"
	KindNotFound        Kind = "not_found"
	KindKindMismatch    Kind = "kind_mismatch"
	KindEngine          Kind = "engine"
	KindDuplicateHandle Kind = "duplicate_handle"
	KindExhausted       Kind = "exhausted"
	KindClosed          Kind = "closed"
	KindCanceled        Kind = "canceled"
	KindInternal        Kind = "internal"
)

// Error is the structured error type used throughout the registry.
// Phase and Kind together form the stable categorization callers match on;
// Detail and Cause carry diagnostics and are not part of equality.
type Error struct {
	Cause    error
	Phase    Phase
	Kind     Kind
	Resource string // resource kind name, when the error concerns a handle
	Detail   string
	Handle   uint64
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Resource != "" {
		b.WriteString(": ")
		b.WriteString(e.Resource)
		if e.Handle != 0 {
			fmt.Fprintf(&b, " handle %d", e.Handle)
		}
	}

	if e.Detail != "" {
		if e.Resource != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Resource sets the resource kind name
func (b *Builder) Resource(name string) *Builder {
	b.err.Resource = name
	return b
}

// Handle sets the offending handle value
func (b *Builder) Handle(h uint64) *Builder {
	b.err.Handle = h
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidInput creates a validation error for malformed settings
func InvalidInput(detail string) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// InvalidICEURL creates a validation error for a bad ICE server URL
func InvalidICEURL(url string, cause error) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindInvalidICEURL,
		Detail: fmt.Sprintf("ice server url %q", url),
		Cause:  cause,
	}
}

// NotFound creates a dependency-not-found error for a handle that was never
// issued, was issued for a different kind, or has been retired.
func NotFound(resource string, handle uint64) *Error {
	return &Error{
		Phase:    PhaseLookup,
		Kind:     KindNotFound,
		Resource: resource,
		Handle:   handle,
	}
}

// KindMismatch creates a lookup error for a live handle of the wrong kind
func KindMismatch(want, got string, handle uint64) *Error {
	return &Error{
		Phase:    PhaseLookup,
		Kind:     KindKindMismatch,
		Resource: want,
		Handle:   handle,
		Detail:   fmt.Sprintf("handle refers to %s", got),
	}
}

// Engine wraps a failure reported by the underlying WebRTC engine
func Engine(resource string, cause error) *Error {
	return &Error{
		Phase:    PhaseConstruct,
		Kind:     KindEngine,
		Resource: resource,
		Cause:    cause,
	}
}

// DuplicateHandle creates an internal error for a handle collision on insert.
// Unreachable given the allocator's guarantee; never swallowed if it happens.
func DuplicateHandle(resource string, handle uint64) *Error {
	return &Error{
		Phase:    PhaseRuntime,
		Kind:     KindDuplicateHandle,
		Resource: resource,
		Handle:   handle,
	}
}

// Exhausted creates an internal error for handle-space exhaustion
func Exhausted() *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindExhausted,
		Detail: "handle space exhausted",
	}
}

// Closed creates an error for operations on a closed table
func Closed(detail string) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindClosed,
		Detail: detail,
	}
}

// Canceled creates an error for a caller that gave up while a construction
// was queued or in flight. The construction itself may still complete.
func Canceled(op string, cause error) *Error {
	return &Error{
		Phase:  PhaseBoundary,
		Kind:   KindCanceled,
		Detail: op,
		Cause:  cause,
	}
}

// Internal creates a generic internal error. Used by the boundary layer to
// report recovered faults without exposing internal representations.
func Internal(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindInternal,
		Detail: detail,
		Cause:  cause,
	}
}

// IsNotFound reports whether err categorizes as dependency-not-found
// (absent handle or kind mismatch).
func IsNotFound(err error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	return e.Kind == KindNotFound || e.Kind == KindKindMismatch
}
