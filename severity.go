package jsonlog

import "fmt"

// Severity identifies a log level. The zero value is DebugLevel.
type Severity int8

const (
	DebugLevel Severity = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// displayNames maps each severity to its canonical display name. The warn
// severity displays as "warning"; all others display as their identifier.
var displayNames = [...]string{
	DebugLevel: "debug",
	InfoLevel:  "info",
	WarnLevel:  "warning",
	ErrorLevel: "error",
	FatalLevel: "fatal",
}

// severityNames accepts both identifiers and display names, so "warn" and
// "warning" resolve to the same severity.
var severityNames = map[string]Severity{
	"debug":   DebugLevel,
	"info":    InfoLevel,
	"warn":    WarnLevel,
	"warning": WarnLevel,
	"error":   ErrorLevel,
	"fatal":   FatalLevel,
}

// DisplayName returns the canonical display name used in the level key of
// emitted events. Invalid severities display as the error display name.
func (s Severity) DisplayName() string {
	if !s.valid() {
		return displayNames[ErrorLevel]
	}
	return displayNames[s]
}

func (s Severity) String() string { return s.DisplayName() }

func (s Severity) valid() bool {
	return s >= DebugLevel && s <= FatalLevel
}

// ParseSeverity resolves a severity identifier or display name.
func ParseSeverity(name string) (Severity, error) {
	if s, ok := severityNames[name]; ok {
		return s, nil
	}
	return ErrorLevel, fmt.Errorf("%s: %q", errMsgUnknownSeverity, name)
}
