package jsonlog

import (
	"reflect"
	"sync"
)

// fieldStore is the shared key-value container attached to a Service. It is
// mutated from arbitrary goroutines, so every access goes through the mutex.
// Isolated per-scope fields are plain maps owned by one Scope and never need
// this (see scope.go).
type fieldStore struct {
	mu     sync.RWMutex
	fields map[string]any
}

func newFieldStore() *fieldStore {
	return &fieldStore{fields: make(map[string]any)}
}

// add merges the given pairs into the store, overwriting colliding keys and
// leaving everything else untouched.
func (fs *fieldStore) add(fields map[string]any) {
	if len(fields) == 0 {
		return
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for k, v := range fields {
		fs.fields[k] = v
	}
}

// remove deletes the named keys. Removing an absent key is a no-op.
func (fs *fieldStore) remove(keys ...string) {
	if len(keys) == 0 {
		return
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for _, k := range keys {
		delete(fs.fields, k)
	}
}

// snapshot returns a filtered copy of the store. The store may hold nil or
// empty values internally; they never surface in a snapshot.
func (fs *fieldStore) snapshot() map[string]any {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return filterFields(fs.fields)
}

// filterFields copies src, dropping entries whose value is nil or an empty
// composite. The copy keeps later merges from aliasing store internals.
func filterFields(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		if isEmptyValue(v) {
			continue
		}
		out[k] = v
	}
	return out
}

// isEmptyValue reports whether v is nil, a nil pointer or interface, an
// empty string, or an empty map, slice, or array.
func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Interface || rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return true
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.String, reflect.Map, reflect.Slice, reflect.Array:
		return rv.Len() == 0
	default:
		return false
	}
}
