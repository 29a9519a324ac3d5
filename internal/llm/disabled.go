package llm

import "context"

// Disabled is the Provider used when no vendor is configured. Every call
// fails, so callers answer from their fallback tiers.
type Disabled struct{}

func (Disabled) Generate(context.Context, Request) (*Response, error) {
	return nil, &ErrProviderUnavailable{}
}

func (Disabled) ModelID() string { return "disabled" }
