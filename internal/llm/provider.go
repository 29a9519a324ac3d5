package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Provider is the text-generation capability every tutoring module depends on.
// Implementations talk to a vendor API; decorators add timeouts, retries and
// audit logging around them.
type Provider interface {
	// Generate sends a prompt to the model. When req.Schema is set the
	// response Content is JSON that has been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes a single generation call.
type Request struct {
	// System is the system instruction.
	System string

	// Messages is the conversation. Most callers send one user message.
	Messages []Message

	// Schema, when set, asks the provider for JSON matching the schema.
	// When nil, Content holds the raw text reply.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the vendor default.
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies the schema, kebab-case (e.g. "lesson-artifact").
	// Also used as the compiled-schema cache key.
	Name string

	Description string

	// Definition is the JSON Schema document.
	Definition map[string]any
}

// Response holds the model output.
type Response struct {
	// Content is validated JSON when the request carried a Schema,
	// otherwise the raw reply text.
	Content json.RawMessage

	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage tracks token consumption for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Options tunes a plain-text generation call.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// GenerateText is the plain prompt-in, text-out form of the capability:
// generate(prompt, system_instruction?, options?) -> string.
// Failures are returned as *ErrGeneration tagged with the context purpose.
func GenerateText(ctx context.Context, p Provider, prompt, system string, opts Options) (string, error) {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 1024
	}
	resp, err := p.Generate(ctx, Request{
		System:      system,
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return "", &ErrGeneration{Purpose: PurposeFrom(ctx), Err: err}
	}
	if len(resp.Content) == 0 {
		return "", &ErrGeneration{Purpose: PurposeFrom(ctx), Err: fmt.Errorf("empty response")}
	}
	return string(resp.Content), nil
}

// GenerateJSON runs a schema-constrained call and decodes the result into out.
// Provider failures become *ErrGeneration; decode failures become *ErrParse.
func GenerateJSON(ctx context.Context, p Provider, req Request, out any) error {
	resp, err := p.Generate(ctx, req)
	if err != nil {
		return &ErrGeneration{Purpose: PurposeFrom(ctx), Err: err}
	}
	if err := json.Unmarshal(resp.Content, out); err != nil {
		return &ErrParse{Purpose: PurposeFrom(ctx), Content: resp.Content, Err: err}
	}
	return nil
}
