package llm

import "errors"

// Sentinel errors shared by the judge providers.
var (
	// ErrEmptyAPIKey indicates a provider was configured without
	// credentials.
	ErrEmptyAPIKey = errors.New("judge API key cannot be empty")

	// ErrEmptyResponse indicates the provider returned a well-formed
	// reply with no text content.
	ErrEmptyResponse = errors.New("empty response from judge provider")
)
