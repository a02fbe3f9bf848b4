package jsonlog

// Scope is a per-execution-context logging handle. It carries its own
// isolated field store on top of the parent Service's shared store;
// isolated values win when key names collide.
//
// A Scope belongs to exactly one goroutine or task and therefore needs no
// locking of its own. Mutating one Scope never affects events logged
// through the Service or through any other Scope. Call End when the context
// finishes; a freshly created Scope always starts empty.
type Scope struct {
	svc      *Service
	isolated map[string]any
}

// End discards the isolated store. Logging through an ended Scope still
// works, with shared fields only; field mutation becomes a no-op.
func (sc *Scope) End() { sc.isolated = nil }

// AddFields merges fields into the isolated store.
func (sc *Scope) AddFields(fields map[string]any) {
	if sc.isolated == nil {
		return
	}
	for k, v := range fields {
		sc.isolated[k] = v
	}
}

// RemoveFields deletes isolated fields. Absent keys are ignored.
func (sc *Scope) RemoveFields(keys ...string) {
	for _, k := range keys {
		delete(sc.isolated, k)
	}
}

// CurrentFields returns the filtered shared+isolated merge this Scope would
// attach to its next event.
func (sc *Scope) CurrentFields() map[string]any {
	return mergeFields(sc.svc.shared.snapshot(), filterFields(sc.isolated))
}

// Debug emits a debug event with this Scope's fields.
func (sc *Scope) Debug(msg string) { sc.svc.logEvent(DebugLevel, msg, nil, sc.isolated) }

// Info emits an info event with this Scope's fields.
func (sc *Scope) Info(msg string) { sc.svc.logEvent(InfoLevel, msg, nil, sc.isolated) }

// Warn emits a warning event with this Scope's fields.
func (sc *Scope) Warn(msg string) { sc.svc.logEvent(WarnLevel, msg, nil, sc.isolated) }

// Error emits an error event with this Scope's fields.
func (sc *Scope) Error(msg string) { sc.svc.logEvent(ErrorLevel, msg, nil, sc.isolated) }

// Fatal emits a fatal event with this Scope's fields. No process exit.
func (sc *Scope) Fatal(msg string) { sc.svc.logEvent(FatalLevel, msg, nil, sc.isolated) }

// DebugWith emits a debug event carrying a data payload.
func (sc *Scope) DebugWith(msg string, data any) { sc.svc.logEvent(DebugLevel, msg, data, sc.isolated) }

// InfoWith emits an info event carrying a data payload.
func (sc *Scope) InfoWith(msg string, data any) { sc.svc.logEvent(InfoLevel, msg, data, sc.isolated) }

// WarnWith emits a warning event carrying a data payload.
func (sc *Scope) WarnWith(msg string, data any) { sc.svc.logEvent(WarnLevel, msg, data, sc.isolated) }

// ErrorWith emits an error event carrying a data payload.
func (sc *Scope) ErrorWith(msg string, data any) { sc.svc.logEvent(ErrorLevel, msg, data, sc.isolated) }

// FatalWith emits a fatal event carrying a data payload.
func (sc *Scope) FatalWith(msg string, data any) { sc.svc.logEvent(FatalLevel, msg, data, sc.isolated) }

// Exception reports cause as one normalized event. For an error value the
// event carries exception ("<type>: <message>"), the override message (or
// the error's own), and stack when a backtrace is available. The severity
// is WithLevel when valid, ErrorLevel otherwise.
//
// The exception and stack entries transit the isolated store so they merge
// like any other field, and are removed again on every exit path, including
// a panic raised below the delegated emit. A later unrelated call through
// this Scope never inherits them.
//
// A cause that is not an error is a defined fallback, not a failure: two
// events are emitted, a warning diagnostic followed by an event at the
// resolved severity whose message is a string rendering of cause with the
// optional override appended.
func (sc *Scope) Exception(cause any, opts ...Option) {
	var args exceptionArgs
	for _, opt := range opts {
		if opt != nil {
			opt(&args)
		}
	}
	sev := args.severity()

	err, ok := cause.(error)
	if !ok || err == nil {
		sc.svc.logEvent(WarnLevel, msgMalformedException, nil, sc.isolated)
		sc.svc.logEvent(sev, renderNonError(cause, args), args.data, sc.isolated)
		return
	}

	f := normalizeFault(err)
	msg := f.message
	if args.hasMessage {
		msg = args.message
	}

	if sc.isolated == nil {
		sc.isolated = make(map[string]any)
	}
	sc.isolated[keyException] = f.exception()
	sc.isolated[keyStack] = f.backtrace
	defer func() {
		delete(sc.isolated, keyException)
		delete(sc.isolated, keyStack)
	}()

	sc.svc.logEvent(sev, msg, args.data, sc.isolated)
}
