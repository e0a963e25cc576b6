package agent

import "fmt"

// Kind classifies a task failure by the stage that produced it. The values
// are wire strings: they appear verbatim in serialized results.
type Kind string

const (
	// KindElementInteraction covers every page-driver failure. The driver's
	// own taxonomy (ElementNotFound, InvalidSelector, ...) is preserved
	// inside the message.
	KindElementInteraction Kind = "ElementInteractionFailure"

	// KindLanguageModelCall covers transport, auth, and availability
	// failures of the model client.
	KindLanguageModelCall Kind = "LanguageModelCallFailure"

	// KindInvalidModelResponse marks model output that is JSON-shaped but
	// wrong, or looks structured yet does not parse.
	KindInvalidModelResponse Kind = "InvalidModelResponse"

	// KindCommandValidation marks a well-formed proposed command with an
	// unknown verb or a missing required field.
	KindCommandValidation Kind = "CommandValidationFailure"

	// KindResultSerialization marks an internal failure producing the wire
	// format for a batch result.
	KindResultSerialization Kind = "ResultSerializationFailure"
)

// Error is a classified task failure. Every failure surfaced to a caller is
// one of these; raw errors never escape the run loop.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}
