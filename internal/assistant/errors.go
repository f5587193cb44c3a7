package assistant

import "errors"

// Error kinds surfaced by the AI layer. Callers distinguish them with
// errors.Is and translate them into HTTP statuses: InvalidInput and NoContent
// are the caller's fault (4xx), the rest are upstream or model failures (5xx).
var (
	// ErrInvalidInput means the caller omitted required data. Detected
	// before any model call is made.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoContent means context assembly produced nothing usable and no
	// fallback applies.
	ErrNoContent = errors.New("no content")

	// ErrProvider means the model call itself failed (network, auth, quota).
	ErrProvider = errors.New("model provider error")

	// ErrMalformedResponse means the model returned text that could not be
	// parsed under the feature's expected syntax.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrInvalidModelOutput means the response parsed but is missing or has
	// invalid required fields.
	ErrInvalidModelOutput = errors.New("invalid model output")
)
