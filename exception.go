package jsonlog

import (
	"fmt"
	"reflect"

	pkgerrors "github.com/pkg/errors"
)

// Fault is the capability an error may implement to control how it is
// reported. Any error works without it: the type name then comes from
// reflection and the stack from pkg/errors interop (see normalizeFault).
type Fault interface {
	error
	TypeName() string
	Backtrace() []string
}

// typeNamer and backtracer let an error satisfy the Fault capabilities
// piecemeal.
type typeNamer interface{ TypeName() string }

type backtracer interface{ Backtrace() []string }

// stackTracer is implemented by errors created or wrapped with pkg/errors.
type stackTracer interface{ StackTrace() pkgerrors.StackTrace }

// fault holds the normalized exception fields for one report.
type fault struct {
	typeName  string
	message   string
	backtrace []string
}

// exception is the rendered "<type-name>: <original-message>" field value.
func (f fault) exception() string {
	return f.typeName + ": " + f.message
}

// normalizeFault derives the reported type name, message, and backtrace
// from an arbitrary error. Capability methods win; otherwise the type name
// is the dereferenced reflect type and the backtrace is the deepest
// pkg/errors stack found in the unwrap chain, or nil when none exists.
func normalizeFault(err error) fault {
	f := fault{message: err.Error()}

	if tn, ok := err.(typeNamer); ok {
		f.typeName = tn.TypeName()
	} else {
		f.typeName = typeNameOf(err)
	}

	if bt, ok := err.(backtracer); ok {
		f.backtrace = bt.Backtrace()
	} else {
		f.backtrace = deepestStack(err)
	}
	return f
}

func typeNameOf(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return "nil"
	}
	return t.String()
}

// deepestStack walks the unwrap chain looking for the innermost pkg/errors
// stack, which is the one recorded closest to the failure site. The walk is
// guarded against excessive depth and repeated errors to avoid cycles.
func deepestStack(err error) []string {
	const maxDepth = 50
	var st stackTracer
	seen := map[error]bool{}

	for depth := 0; err != nil && depth < maxDepth; depth++ {
		if seen[err] {
			break
		}
		seen[err] = true
		if s, ok := err.(stackTracer); ok {
			st = s
		}
		err = pkgerrors.Unwrap(err)
	}
	if st == nil {
		return nil
	}
	return renderStack(st.StackTrace())
}

func renderStack(trace pkgerrors.StackTrace) []string {
	frames := make([]string, 0, len(trace))
	for _, fr := range trace {
		frames = append(frames, fmt.Sprintf("%+v", fr))
	}
	return frames
}

// Option configures an Exception call. When the same option repeats, the
// last occurrence wins.
type Option func(*exceptionArgs)

type exceptionArgs struct {
	message    string
	hasMessage bool
	data       any
	level      Severity
	hasLevel   bool
}

// WithMessage overrides the event message; the error's own message is still
// part of the exception field.
func WithMessage(msg string) Option {
	return func(a *exceptionArgs) {
		a.message = msg
		a.hasMessage = true
	}
}

// WithData attaches a data payload to the reported event.
func WithData(data any) Option {
	return func(a *exceptionArgs) { a.data = data }
}

// WithLevel overrides the severity of the reported event. An invalid
// severity falls back to ErrorLevel rather than failing.
func WithLevel(level Severity) Option {
	return func(a *exceptionArgs) {
		a.level = level
		a.hasLevel = true
	}
}

// severity resolves the effective severity for an exception report.
func (a exceptionArgs) severity() Severity {
	if a.hasLevel && a.level.valid() {
		return a.level
	}
	return ErrorLevel
}

// renderNonError produces the message for the fallback path taken when the
// reported value is not an error.
func renderNonError(v any, a exceptionArgs) string {
	msg := fmt.Sprintf("%T: %#v", v, v)
	if a.hasMessage && a.message != emptyString {
		msg += " " + a.message
	}
	return msg
}
