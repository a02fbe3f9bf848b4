package jsonlog

// Logger is the common logging surface implemented by both *Service and
// *Scope. Each method emits exactly one event (Exception may emit two for
// malformed input, see its documentation).
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Fatal(msg string)

	DebugWith(msg string, data any)
	InfoWith(msg string, data any)
	WarnWith(msg string, data any)
	ErrorWith(msg string, data any)
	FatalWith(msg string, data any)

	Exception(cause any, opts ...Option)

	// CurrentFields returns a filtered copy of the fields that would be
	// merged into the next event.
	CurrentFields() map[string]any
}

var (
	_ Logger = (*Service)(nil)
	_ Logger = (*Scope)(nil)
)
