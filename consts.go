package jsonlog

const (
	// Reserved event keys. They are written first, in this order, and a
	// stored field with one of these names never displaces them.
	keyTimestamp = "timestamp"
	keyMessage   = "message"
	keyLevel     = "level"
	keyData      = "data"
	keyException = "exception"
	keyStack     = "stack"

	// timestampLayout renders UTC instants with microsecond precision and a
	// literal trailing Z. Timestamps are forced to UTC before formatting.
	timestampLayout = "2006-01-02T15:04:05.000000Z"

	emptyString = ""
)

const (
	msgEncodingFailed     = "json encoding failed: "
	msgMalformedException = "Exception was called without an error value."
	errMsgNilConfig       = "Logging config is nil."
	errMsgConfigInvalid   = "Logging configuration is invalid."
	errMsgNoSinksEnabled  = "no logging sinks enabled"
	errMsgUnknownSeverity = "unknown severity"
)
