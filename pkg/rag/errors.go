package rag

import "errors"

var (
	// ErrMissingVariable indicates a prompt template variable had no value
	// in the incoming bundle. This is a pipeline wiring bug, not a runtime
	// condition.
	ErrMissingVariable = errors.New("missing prompt variable")

	// ErrMalformedResponse indicates the generator's response could not be
	// parsed into an answer.
	ErrMalformedResponse = errors.New("malformed generation response")
)
