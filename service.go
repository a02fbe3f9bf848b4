package jsonlog

import (
	"io"
	"time"

	"go.uber.org/atomic"
)

// Service is the logging facade. It owns the shared field store and the
// emitter; per-goroutine isolated fields live on Scopes created via Scope().
//
// A Service is safe for concurrent use. Individual log calls never
// serialize against each other beyond the shared store's internal locking.
type Service struct {
	shared      *fieldStore
	emitter     atomic.Pointer[emitter]
	initialized atomic.Bool
	fileSink    io.Closer

	// now is replaceable in tests.
	now func() time.Time
}

// New returns a Service writing to sink. A nil sink produces a detached
// logger: every emission is a silent no-op, field bookkeeping still works.
func New(sink io.Writer) *Service {
	s := &Service{
		shared: newFieldStore(),
		now:    time.Now,
	}
	s.emitter.Store(newEmitter(sink, nil))
	s.initialized.Store(true)
	return s
}

// Close detaches the Service and releases the file sink when the Service
// owns one (NewWithConfig). Logging after Close is a no-op. Safe to call
// multiple times.
func (s *Service) Close() error {
	if s == nil || !s.initialized.CompareAndSwap(true, false) {
		return nil
	}
	s.emitter.Store(nil)
	if s.fileSink != nil {
		return s.fileSink.Close()
	}
	return nil
}

// Debug emits a debug event.
func (s *Service) Debug(msg string) { s.logEvent(DebugLevel, msg, nil, nil) }

// Info emits an info event.
func (s *Service) Info(msg string) { s.logEvent(InfoLevel, msg, nil, nil) }

// Warn emits a warning event. The level key reads "warning".
func (s *Service) Warn(msg string) { s.logEvent(WarnLevel, msg, nil, nil) }

// Error emits an error event.
func (s *Service) Error(msg string) { s.logEvent(ErrorLevel, msg, nil, nil) }

// Fatal emits a fatal event. Fatal is a severity only; it does not
// terminate the process.
func (s *Service) Fatal(msg string) { s.logEvent(FatalLevel, msg, nil, nil) }

// DebugWith emits a debug event carrying a data payload. Empty payloads are
// omitted from the event.
func (s *Service) DebugWith(msg string, data any) { s.logEvent(DebugLevel, msg, data, nil) }

// InfoWith emits an info event carrying a data payload.
func (s *Service) InfoWith(msg string, data any) { s.logEvent(InfoLevel, msg, data, nil) }

// WarnWith emits a warning event carrying a data payload.
func (s *Service) WarnWith(msg string, data any) { s.logEvent(WarnLevel, msg, data, nil) }

// ErrorWith emits an error event carrying a data payload.
func (s *Service) ErrorWith(msg string, data any) { s.logEvent(ErrorLevel, msg, data, nil) }

// FatalWith emits a fatal event carrying a data payload.
func (s *Service) FatalWith(msg string, data any) { s.logEvent(FatalLevel, msg, data, nil) }

// Exception reports an error as a single normalized event; see
// Scope.Exception. The transient exception fields live in an ephemeral
// scope, so concurrent Service-level reports never see each other.
func (s *Service) Exception(cause any, opts ...Option) {
	sc := s.Scope()
	defer sc.End()
	sc.Exception(cause, opts...)
}

// AddFields merges fields into the shared store. Shared fields appear in
// every subsequent event from every goroutine until removed.
func (s *Service) AddFields(fields map[string]any) { s.shared.add(fields) }

// RemoveFields deletes shared fields. Absent keys are ignored.
func (s *Service) RemoveFields(keys ...string) { s.shared.remove(keys...) }

// CurrentFields returns a filtered copy of the shared fields.
func (s *Service) CurrentFields() map[string]any { return s.shared.snapshot() }

// Write serializes v directly to the sink, bypassing assembly. Used for
// full-custom lines; the encoder-failure fallback still applies.
func (s *Service) Write(v any) {
	if !s.initialized.Load() {
		return
	}
	if em := s.emitter.Load(); em != nil {
		em.emitRaw(v)
	}
}

// Scope returns a fresh per-execution-context handle with an empty isolated
// store. The caller owns the Scope; hand one to each goroutine or task and
// call End when the context finishes.
func (s *Service) Scope() *Scope {
	return &Scope{svc: s, isolated: make(map[string]any)}
}

// logEvent is the single assembly/emit path behind every entry point.
// isolated is the raw isolated store of the calling scope, nil for
// Service-level calls.
func (s *Service) logEvent(sev Severity, msg string, data any, isolated map[string]any) {
	if s == nil || !s.initialized.Load() {
		return
	}
	em := s.emitter.Load()
	if em == nil {
		return
	}
	merged := mergeFields(s.shared.snapshot(), filterFields(isolated))
	em.emit(assemble(s.now(), sev, msg, merged, data))
}
