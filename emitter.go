package jsonlog

import (
	"io"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// marshalFunc is the serialization capability: value to JSON text. It may
// fail on values the encoder cannot represent (channels, functions,
// non-finite floats); the emitter converts such failures into a synthetic
// fallback line instead of propagating them.
type marshalFunc func(v any) ([]byte, error)

// emitter serializes assembled events and hands them to the sink. A nil
// sink makes every emission a silent no-op (the detached logger).
//
// zerolog does the line framing: one event buffer, keys appended in call
// order, newline-terminated on Send. Each value is pre-encoded with
// goccy/go-json so that an encoding failure can abort the whole line before
// any byte reaches the sink.
type emitter struct {
	sink    io.Writer
	log     *zerolog.Logger
	marshal marshalFunc
}

func newEmitter(sink io.Writer, marshal marshalFunc) *emitter {
	em := &emitter{sink: sink, marshal: marshal}
	if em.marshal == nil {
		em.marshal = json.Marshal
	}
	if sink != nil {
		l := zerolog.New(sink)
		em.log = &l
	}
	return em
}

// emit writes ev as one JSON line. Pair order is preserved exactly. If any
// value fails to encode, the event is replaced by the fallback line; emit
// never returns or raises an encoding failure.
func (em *emitter) emit(ev *event) {
	if em.log == nil {
		return
	}
	le := em.log.Log()
	for _, f := range ev.fields {
		b, err := em.marshal(f.value)
		if err != nil {
			le.Discard()
			em.fallback(err)
			return
		}
		le = le.RawJSON(f.key, b)
	}
	le.Send()
}

// emitRaw writes an arbitrary value directly, bypassing assembly. The same
// fallback contract applies.
func (em *emitter) emitRaw(v any) {
	if em.sink == nil {
		return
	}
	b, err := em.marshal(v)
	if err != nil {
		em.fallback(err)
		return
	}
	_, _ = em.sink.Write(append(b, '\n'))
}

// fallback emits the synthetic single-field error line. Built from a plain
// string so it cannot itself fail to encode.
func (em *emitter) fallback(cause error) {
	em.log.Log().Str(keyMessage, msgEncodingFailed+cause.Error()).Send()
}
