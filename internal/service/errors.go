package service

import (
	"errors"
	"fmt"
)

// ErrListingNotFound is returned when the target listing id does not
// resolve to an existing row of the requested kind.
var ErrListingNotFound = errors.New("listing not found")

// AIUnavailableError signals a rate-limited (429) or quota-exhausted (402)
// AI endpoint. Unlike other AI failures it is surfaced to the caller instead
// of being absorbed by the deterministic fallback, so callers can retry
// later rather than accept a lower-quality result.
type AIUnavailableError struct {
	StatusCode int
	Message    string
}

func (e *AIUnavailableError) Error() string {
	return fmt.Sprintf("AI endpoint temporarily unavailable (status %d): %s", e.StatusCode, e.Message)
}

// AIMalformedResponseError signals that the AI call succeeded at the
// transport level but the payload could not be parsed or validated. It is
// handled internally by the deterministic fallback and kept as a distinct
// type for logging and tests.
type AIMalformedResponseError struct {
	Reason  string
	Content string
}

func (e *AIMalformedResponseError) Error() string {
	return fmt.Sprintf("malformed AI response: %s", e.Reason)
}
