package llm

import (
	"encoding/json"
	"errors"
	"strings"
)

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// completion is a vendor reply reduced to what Response needs.
type completion struct {
	text  string
	usage Usage
	model string
	stop  string
}

// finish checks a completion against the request that produced it. A
// structured reply loses any markdown fence, must not be truncated and must
// match the schema. A plain reply only has to be non-empty.
func finish(req Request, c completion) (*Response, error) {
	if c.usage.TotalTokens == 0 {
		c.usage.TotalTokens = c.usage.InputTokens + c.usage.OutputTokens
	}
	resp := &Response{Usage: c.usage, Model: c.model, StopReason: c.stop}

	if req.Schema == nil {
		text := strings.TrimSpace(c.text)
		if text == "" {
			return nil, &ErrInvalidResponse{Err: errors.New("empty reply")}
		}
		resp.Content = json.RawMessage(text)
		return resp, nil
	}

	content := json.RawMessage(unfence(c.text))
	if c.stop == StopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := ValidateJSON(req.Schema, content); err != nil {
		return nil, err
	}
	resp.Content = content
	return resp, nil
}

// unfence strips a ```json ... ``` wrapper some models put around JSON even
// in structured mode.
func unfence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	body := strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	}
	body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	return strings.TrimSpace(body)
}
