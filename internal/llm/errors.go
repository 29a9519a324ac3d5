package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the model returned content that does not
// conform to the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrRejected indicates the provider refused the request itself (bad key,
// unknown model, malformed input). Repeating the call cannot succeed.
type ErrRejected struct {
	Status int
	Err    error
}

func (e *ErrRejected) Error() string {
	return fmt.Sprintf("request rejected (HTTP %d): %v", e.Status, e.Err)
}

func (e *ErrRejected) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response hit the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// ErrGeneration is raised by a module when a generation call it issued
// failed for any provider-side reason: network, quota, timeout or output the
// provider itself rejected.
type ErrGeneration struct {
	Purpose string
	Err     error
}

func (e *ErrGeneration) Error() string {
	return fmt.Sprintf("generation %q failed: %v", e.Purpose, e.Err)
}

func (e *ErrGeneration) Unwrap() error { return e.Err }

// ErrParse indicates structured output decoded from a successful call did
// not have the expected shape.
type ErrParse struct {
	Purpose string
	Content json.RawMessage
	Err     error
}

func (e *ErrParse) Error() string {
	return fmt.Sprintf("parse %q output: %v", e.Purpose, e.Err)
}

func (e *ErrParse) Unwrap() error { return e.Err }

// IsGenerationError reports whether err is a recoverable generation failure.
// Caller cancellation is not: a cancelled request must not fall back.
func IsGenerationError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var gen *ErrGeneration
	var parse *ErrParse
	return errors.As(err, &gen) || errors.As(err, &parse) ||
		errors.Is(err, context.DeadlineExceeded)
}
