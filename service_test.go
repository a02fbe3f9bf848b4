package jsonlog

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lockedBuffer is a concurrency-safe capture sink for tests.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := strings.TrimRight(b.buf.String(), "\n")
	if s == emptyString {
		return nil
	}
	return strings.Split(s, "\n")
}

// newTestService returns a Service with a captured sink and a fixed clock.
func newTestService(t testing.TB) (*Service, *lockedBuffer) {
	t.Helper()
	sink := &lockedBuffer{}
	s := New(sink)
	s.now = func() time.Time { return testClock }
	t.Cleanup(func() { _ = s.Close() })
	return s, sink
}

func decodeLine(t testing.TB, line string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &m))
	return m
}

func TestPlainEntryPointsKeyOrderAndLevel(t *testing.T) {
	cases := []struct {
		display string
		log     func(Logger, string)
	}{
		{"debug", func(l Logger, m string) { l.Debug(m) }},
		{"info", func(l Logger, m string) { l.Info(m) }},
		{"warning", func(l Logger, m string) { l.Warn(m) }},
		{"error", func(l Logger, m string) { l.Error(m) }},
		{"fatal", func(l Logger, m string) { l.Fatal(m) }},
	}

	for _, tc := range cases {
		t.Run(tc.display, func(t *testing.T) {
			s, sink := newTestService(t)
			tc.log(s, "hello")

			lines := sink.Lines()
			require.Len(t, lines, 1)
			assert.True(t, strings.HasPrefix(lines[0],
				`{"timestamp":"2026-08-27T12:30:45.123456Z","message":"hello","level":"`+tc.display+`"`))

			decoded := decodeLine(t, lines[0])
			assert.Equal(t, tc.display, decoded["level"])
		})
	}
}

func TestSharedFieldScenario(t *testing.T) {
	s, sink := newTestService(t)
	s.AddFields(map[string]any{"planet": "hyperion"})
	s.Error("problem")

	lines := sink.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t,
		`{"timestamp":"2026-08-27T12:30:45.123456Z","message":"problem","level":"error","planet":"hyperion"}`,
		lines[0])
}

func TestSharedFieldsFilteredInOutput(t *testing.T) {
	s, sink := newTestService(t)
	s.AddFields(map[string]any{
		"kept":   "v",
		"nil":    nil,
		"empty":  "",
		"novals": []string{},
		"zero":   0,
	})
	s.Info("m")

	decoded := decodeLine(t, sink.Lines()[0])
	assert.Equal(t, "v", decoded["kept"])
	assert.Equal(t, float64(0), decoded["zero"])
	assert.NotContains(t, decoded, "nil")
	assert.NotContains(t, decoded, "empty")
	assert.NotContains(t, decoded, "novals")
}

func TestRemoveFields(t *testing.T) {
	s, sink := newTestService(t)
	s.AddFields(map[string]any{"a": 1, "b": 2})
	s.RemoveFields("a", "missing")
	s.Info("m")

	decoded := decodeLine(t, sink.Lines()[0])
	assert.NotContains(t, decoded, "a")
	assert.Equal(t, float64(2), decoded["b"])
}

func TestWithDataVariants(t *testing.T) {
	t.Run("payload appended as data", func(t *testing.T) {
		s, sink := newTestService(t)
		s.InfoWith("m", map[string]any{"count": 5})

		decoded := decodeLine(t, sink.Lines()[0])
		require.Contains(t, decoded, "data")
		data := decoded["data"].(map[string]any)
		assert.Equal(t, float64(5), data["count"])
	})

	t.Run("empty payload omitted", func(t *testing.T) {
		s, sink := newTestService(t)
		s.ErrorWith("m", map[string]any{})

		decoded := decodeLine(t, sink.Lines()[0])
		assert.NotContains(t, decoded, "data")
	})

	t.Run("payload wins over a stored data field", func(t *testing.T) {
		s, sink := newTestService(t)
		s.AddFields(map[string]any{"data": "field"})
		s.WarnWith("m", "payload")

		line := sink.Lines()[0]
		assert.Equal(t, 1, strings.Count(line, `"data":`))
		assert.Equal(t, "payload", decodeLine(t, line)["data"])
	})

	t.Run("stored data field passes through without payload", func(t *testing.T) {
		s, sink := newTestService(t)
		s.AddFields(map[string]any{"data": "field"})
		s.Warn("m")

		assert.Equal(t, "field", decodeLine(t, sink.Lines()[0])["data"])
	})
}

func TestScopeIsolation(t *testing.T) {
	s, sink := newTestService(t)
	s.AddFields(map[string]any{"app": "core"})

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		sc := s.Scope()
		defer sc.End()
		<-start
		sc.AddFields(map[string]any{"who": "b", "noise": true})
		sc.Info("from b")
	}()

	go func() {
		defer wg.Done()
		sc := s.Scope()
		defer sc.End()
		<-start
		sc.Info("from a")
	}()

	close(start)
	wg.Wait()

	lines := sink.Lines()
	require.Len(t, lines, 2)
	for _, line := range lines {
		decoded := decodeLine(t, line)
		assert.Equal(t, "core", decoded["app"])
		if decoded["message"] == "from a" {
			assert.NotContains(t, decoded, "who")
			assert.NotContains(t, decoded, "noise")
		} else {
			assert.Equal(t, "b", decoded["who"])
		}
	}
}

func TestScopeFieldsOverrideShared(t *testing.T) {
	s, sink := newTestService(t)
	s.AddFields(map[string]any{"env": "prod", "app": "core"})

	sc := s.Scope()
	defer sc.End()
	sc.AddFields(map[string]any{"env": "test"})
	sc.Info("m")

	decoded := decodeLine(t, sink.Lines()[0])
	assert.Equal(t, "test", decoded["env"])
	assert.Equal(t, "core", decoded["app"])
}

func TestScopeEndDiscardsIsolatedFields(t *testing.T) {
	s, sink := newTestService(t)
	sc := s.Scope()
	sc.AddFields(map[string]any{"req": "r-1"})
	sc.End()

	sc.AddFields(map[string]any{"req": "r-2"}) // no-op after End
	sc.Info("m")

	decoded := decodeLine(t, sink.Lines()[0])
	assert.NotContains(t, decoded, "req")

	fresh := s.Scope()
	defer fresh.End()
	assert.Empty(t, fresh.CurrentFields())
}

func TestCurrentFields(t *testing.T) {
	s, _ := newTestService(t)
	s.AddFields(map[string]any{"a": 1, "drop": nil})

	sc := s.Scope()
	defer sc.End()
	sc.AddFields(map[string]any{"b": 2, "a": "isolated"})

	assert.Equal(t, map[string]any{"a": 1}, s.CurrentFields())
	assert.Equal(t, map[string]any{"a": "isolated", "b": 2}, sc.CurrentFields())

	// Returned snapshot is a copy.
	got := sc.CurrentFields()
	got["b"] = 99
	assert.Equal(t, 2, sc.CurrentFields()["b"])
}

func TestWriteRawBypass(t *testing.T) {
	s, sink := newTestService(t)
	s.Write(map[string]any{"custom": true})

	lines := sink.Lines()
	require.Len(t, lines, 1)
	decoded := decodeLine(t, lines[0])
	assert.Equal(t, true, decoded["custom"])
	assert.NotContains(t, decoded, "timestamp")
	assert.NotContains(t, decoded, "level")
}

func TestDetachedService(t *testing.T) {
	s := New(nil)
	defer func() { _ = s.Close() }()

	s.AddFields(map[string]any{"k": "v"})
	s.Debug("m")
	s.InfoWith("m", 1)
	s.Exception(assertableError{"boom"})
	s.Write("raw")

	// Field bookkeeping still works while emission is suppressed.
	assert.Equal(t, map[string]any{"k": "v"}, s.CurrentFields())
}

func TestServiceClose(t *testing.T) {
	s, sink := newTestService(t)
	s.Info("before")
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	s.Info("after")
	s.Write("after")

	require.Len(t, sink.Lines(), 1)
}

func TestConcurrentLogging(t *testing.T) {
	s, sink := newTestService(t)
	s.AddFields(map[string]any{"app": "core"})

	const goroutines = 8
	const perGoroutine = 50

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sc := s.Scope()
			defer sc.End()
			sc.AddFields(map[string]any{"worker": true})
			for j := 0; j < perGoroutine; j++ {
				sc.Info("tick")
				s.AddFields(map[string]any{"turn": j})
			}
		}()
	}
	wg.Wait()

	lines := sink.Lines()
	require.Len(t, lines, goroutines*perGoroutine)
	for _, line := range lines {
		decoded := decodeLine(t, line)
		assert.Equal(t, "tick", decoded["message"])
		assert.Equal(t, "core", decoded["app"])
	}
}

// assertableError is a minimal error for tests that only need an error value.
type assertableError struct{ msg string }

func (e assertableError) Error() string { return e.msg }
