package llm

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openaiCompletion(message map[string]any, finish string) map[string]any {
	message["role"] = "assistant"
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o-mini-2024-07-18",
		"choices": []map[string]any{{"index": 0, "message": message, "finish_reason": finish}},
		"usage":   map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func openaiErrorBody(kind, message string) map[string]any {
	return map[string]any{"error": map[string]any{"type": kind, "message": message}}
}

func newTestOpenAIProvider(url string) *OpenAIProvider {
	return newOpenAICompatible(OpenAIConfig{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: url + "/v1"}, nil)
}

func TestOpenAIProvider_PlainText(t *testing.T) {
	var sent map[string]any
	srv := vendorServer(t, http.StatusOK, nil,
		openaiCompletion(map[string]any{"content": "Split a task into steps."}, "stop"),
		func(_ *http.Request, req map[string]any) { sent = req })

	resp, err := newTestOpenAIProvider(srv.URL).Generate(t.Context(), userRequest("Explain prompt chaining."))
	require.NoError(t, err)

	assert.Equal(t, "Split a task into steps.", string(resp.Content))
	assert.Equal(t, Usage{InputTokens: 40, OutputTokens: 25, TotalTokens: 65}, resp.Usage)
	assert.Equal(t, StopEnd, resp.StopReason)
	assert.Equal(t, "gpt-4o-mini-2024-07-18", resp.Model)

	messages := sent["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Nil(t, sent["response_format"])
}

func TestOpenAIProvider_StructuredRequest(t *testing.T) {
	var sent map[string]any
	srv := vendorServer(t, http.StatusOK, nil,
		openaiCompletion(map[string]any{"content": `{"title":"Prompt chaining"}`}, "stop"),
		func(_ *http.Request, req map[string]any) { sent = req })

	req := userRequest("Give me a topic.")
	req.Schema = topicSchema
	resp, err := newTestOpenAIProvider(srv.URL).Generate(t.Context(), req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Prompt chaining"}`, string(resp.Content))

	format := sent["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
	assert.Equal(t, true, format["json_schema"].(map[string]any)["strict"])
}

func TestOpenAIProvider_BadReplies(t *testing.T) {
	t.Run("refusal", func(t *testing.T) {
		srv := vendorServer(t, http.StatusOK, nil,
			openaiCompletion(map[string]any{"content": "", "refusal": "I can't help with that."}, "stop"), nil)
		_, err := newTestOpenAIProvider(srv.URL).Generate(t.Context(), userRequest("test"))

		var invalid *ErrInvalidResponse
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("truncated JSON", func(t *testing.T) {
		srv := vendorServer(t, http.StatusOK, nil,
			openaiCompletion(map[string]any{"content": `{"title":"Pro`}, "length"), nil)
		req := userRequest("test")
		req.Schema = topicSchema
		_, err := newTestOpenAIProvider(srv.URL).Generate(t.Context(), req)

		var maxTok *ErrMaxTokensExceeded
		assert.ErrorAs(t, err, &maxTok)
	})

	t.Run("empty text", func(t *testing.T) {
		srv := vendorServer(t, http.StatusOK, nil,
			openaiCompletion(map[string]any{"content": "  "}, "stop"), nil)
		_, err := newTestOpenAIProvider(srv.URL).Generate(t.Context(), userRequest("test"))

		var invalid *ErrInvalidResponse
		assert.ErrorAs(t, err, &invalid)
	})
}

func TestOpenAIProvider_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{"rate limit", http.StatusTooManyRequests, func(t *testing.T, err error) {
			var rl *ErrRateLimit
			assert.ErrorAs(t, err, &rl)
		}},
		{"bad request", http.StatusBadRequest, func(t *testing.T, err error) {
			var rejected *ErrRejected
			assert.ErrorAs(t, err, &rejected)
		}},
		{"server error", http.StatusInternalServerError, func(t *testing.T, err error) {
			var unavail *ErrProviderUnavailable
			assert.ErrorAs(t, err, &unavail)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := vendorServer(t, tt.status, nil, openaiErrorBody("error", tt.name), nil)
			_, err := newTestOpenAIProvider(srv.URL).Generate(t.Context(), userRequest("test"))
			tt.check(t, err)
		})
	}
}

func TestNewOpenAIProvider(t *testing.T) {
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-4o", BaseURL: "https://proxy.example/v1"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", p.ModelID())

	_, err = NewOpenAIProvider(OpenAIConfig{Model: "gpt-4o"})
	assert.Error(t, err)
}
