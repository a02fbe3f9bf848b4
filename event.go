package jsonlog

import (
	"sort"
	"time"
)

// field is one key-value pair of an assembled event.
type field struct {
	key   string
	value any
}

// event is an assembled log event: an ordered list of key-value pairs. The
// reserved triple timestamp, message, level always occupies the first three
// slots; merged store fields follow in sorted key order, then the optional
// data payload. Ordering is a serialization contract, which is why this is
// a slice and not a map.
type event struct {
	fields []field
}

func (ev *event) append(key string, value any) {
	ev.fields = append(ev.fields, field{key: key, value: value})
}

// reservedKey reports whether k would collide with the leading triple. A
// stored field with a reserved name is dropped during assembly so the
// reserved keys always win.
func reservedKey(k string) bool {
	return k == keyTimestamp || k == keyMessage || k == keyLevel
}

// assemble builds the ordered event for one log call. merged is the
// combined shared+isolated snapshot; data is appended only when present and
// non-empty.
func assemble(now time.Time, sev Severity, msg string, merged map[string]any, data any) *event {
	ev := &event{fields: make([]field, 0, 4+len(merged))}
	ev.append(keyTimestamp, now.UTC().Format(timestampLayout))
	ev.append(keyMessage, msg)
	ev.append(keyLevel, sev.DisplayName())

	hasData := !isEmptyValue(data)

	keys := make([]string, 0, len(merged))
	for k := range merged {
		if reservedKey(k) {
			continue
		}
		// A caller-supplied payload takes precedence over a stored field
		// named data; emitting both would duplicate the key.
		if k == keyData && hasData {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ev.append(k, merged[k])
	}

	if hasData {
		ev.append(keyData, data)
	}
	return ev
}

// mergeFields overlays isolated on top of shared; isolated wins on key
// collision. Both inputs are already filtered snapshots.
func mergeFields(shared, isolated map[string]any) map[string]any {
	if len(isolated) == 0 {
		return shared
	}
	out := make(map[string]any, len(shared)+len(isolated))
	for k, v := range shared {
		out[k] = v
	}
	for k, v := range isolated {
		out[k] = v
	}
	return out
}
