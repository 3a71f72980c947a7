package apperror

// Code represents a unique error code for the application
type Code string

// Taxonomy of the connector's error handling design. Each code maps to a
// distinct recovery policy enforced by its caller, not by this package.
const (
	// CodeDecode covers any inbound parsing failure: bus payload or socket
	// frame. Policy: log+warn, drop the message, continue.
	CodeDecode Code = "DECODE"

	// CodeInvalidTopic is raised by subject parsing when a stream subject
	// has too few dot-separated parts. Policy: log+warn, drop.
	CodeInvalidTopic Code = "INVALID_TOPIC"

	// CodeSequenceMissed is raised by the trades/book continuity check.
	// Policy: the owning worker exits; a later venue snapshot resets it.
	CodeSequenceMissed Code = "SEQUENCE_MISSED"

	// CodeSend / CodePublishError cover bus publish failures. Policy: the
	// worker exits with error; the session keeps running.
	CodeSend         Code = "SEND"
	CodePublishError Code = "PUBLISH_ERROR"

	// CodeConnectionRefused is raised by a subscribe/request call to the
	// bus. Policy: propagate as ErrorMessage{code=ConnectionRefused} on the
	// reply subject if one exists.
	CodeConnectionRefused Code = "CONNECTION_REFUSED"

	// CodeTransport covers REST or socket transport failures. Policy: the
	// session auto-reconnects; the REST path emits a generic ErrorMessage.
	CodeTransport Code = "TRANSPORT"

	// CodeInvalidRequest is raised when an inbound request carries no
	// reply subject. Policy: drop.
	CodeInvalidRequest Code = "INVALID_REQUEST"

	// CodeFatalInit covers configuration, bind, or initial bus-connect
	// failures at process start. Policy: process exits non-zero.
	CodeFatalInit Code = "FATAL_INIT"

	// CodeUnknown is the fallback code surfaced to downstream consumers
	// for REST failures whose cause isn't otherwise classified.
	CodeUnknown Code = "UNKNOWN_CODE"

	// CodeUnavailable is surfaced by the admin healthcheck when any
	// registered component reports itself disabled.
	CodeUnavailable Code = "UNAVAILABLE"

	// CodeNotFound covers unmatched admin HTTP routes.
	CodeNotFound Code = "NOT_FOUND"
)
