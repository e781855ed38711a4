package summary

import "errors"

var (
	// ErrNoContent is returned when neither frames nor audio are available to summarize
	ErrNoContent = errors.New("no frames or audio to summarize")

	// ErrEmptyInstruction is returned when a request has no instruction text
	ErrEmptyInstruction = errors.New("instruction is required")

	// ErrEmptyResponse is returned when the model answers without any text
	ErrEmptyResponse = errors.New("model returned no text")

	// ErrRejected marks model errors that repeating the same request cannot fix
	ErrRejected = errors.New("request rejected by model")
)
