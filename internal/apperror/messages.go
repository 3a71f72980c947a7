package apperror

// messages maps error codes to human-readable default messages.
var messages = map[Code]string{
	CodeDecode:            "Failed to decode message",
	CodeInvalidTopic:      "Invalid subject topic",
	CodeSequenceMissed:    "Sequence id missed",
	CodeSend:              "Failed to send message",
	CodePublishError:      "Failed to publish message",
	CodeConnectionRefused: "Connection refused",
	CodeTransport:         "Error during request!",
	CodeInvalidRequest:    "Invalid request",
	CodeFatalInit:         "Fatal initialization error",
	CodeUnknown:           "Error during request!",
	CodeUnavailable:       "One of the services is unavailable!",
	CodeNotFound:          "Page not found",
}
