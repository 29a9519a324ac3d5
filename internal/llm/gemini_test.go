package llm

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func newTestGeminiProvider(t *testing.T, url string) *GeminiProvider {
	t.Helper()
	p, err := NewGeminiProvider(t.Context(), GeminiConfig{APIKey: "test-key", Model: "gemini-flash", BaseURL: url + "/"})
	require.NoError(t, err)
	return p
}

func TestGeminiProvider_PlainText(t *testing.T) {
	var path string
	srv := vendorServer(t, http.StatusOK, nil, map[string]any{
		"candidates": []map[string]any{{
			"content":      map[string]any{"role": "model", "parts": []map[string]any{{"text": "Split a task into steps."}}},
			"finishReason": "STOP",
		}},
		"usageMetadata": map[string]any{"promptTokenCount": 12, "candidatesTokenCount": 6, "totalTokenCount": 18},
		"modelVersion":  "gemini-2.0-flash-001",
	}, func(r *http.Request, _ map[string]any) { path = r.URL.Path })

	resp, err := newTestGeminiProvider(t, srv.URL).Generate(t.Context(), userRequest("Explain prompt chaining."))
	require.NoError(t, err)

	assert.Equal(t, "Split a task into steps.", string(resp.Content))
	assert.Equal(t, "gemini-2.0-flash-001", resp.Model)
	assert.Equal(t, 18, resp.Usage.TotalTokens)
	assert.True(t, strings.HasSuffix(path, "models/gemini-2.0-flash:generateContent"), path)
}

func TestGeminiProvider_BlockedPrompt(t *testing.T) {
	srv := vendorServer(t, http.StatusOK, nil, map[string]any{
		"promptFeedback": map[string]any{"blockReason": "SAFETY"},
	}, nil)

	_, err := newTestGeminiProvider(t, srv.URL).Generate(t.Context(), userRequest("test"))
	var invalid *ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)
}

func TestGeminiProvider_RateLimit(t *testing.T) {
	srv := vendorServer(t, http.StatusTooManyRequests, nil, map[string]any{
		"error": map[string]any{"code": 429, "message": "Resource exhausted", "status": "RESOURCE_EXHAUSTED"},
	}, nil)

	_, err := newTestGeminiProvider(t, srv.URL).Generate(t.Context(), userRequest("test"))
	var rl *ErrRateLimit
	assert.ErrorAs(t, err, &rl)
}

func TestGeminiModelMapping(t *testing.T) {
	assert.Equal(t, "gemini-2.0-flash", resolveModel("gemini-flash", geminiModels))
	assert.Equal(t, "gemini-2.0-pro", resolveModel("gemini-pro", geminiModels))
	assert.Equal(t, "gemini-2.5-flash", resolveModel("gemini-2.5-flash", geminiModels))
}

func TestGeminiSchema(t *testing.T) {
	schema := geminiSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic": map[string]any{"type": "string", "description": "What the lesson covers"},
			"level": map[string]any{"type": "string", "enum": []any{"beginner", "intermediate", "advanced"}},
			"score": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			"options": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 2,
			},
		},
		"required":             []string{"topic", "score"},
		"additionalProperties": false,
	})

	assert.Equal(t, genai.TypeObject, schema.Type)
	require.Len(t, schema.Properties, 4)
	assert.Equal(t, []string{"topic", "score"}, schema.Required)

	assert.Equal(t, "What the lesson covers", schema.Properties["topic"].Description)
	assert.Len(t, schema.Properties["level"].Enum, 3)

	score := schema.Properties["score"]
	assert.Equal(t, genai.TypeNumber, score.Type)
	require.NotNil(t, score.Minimum)
	require.NotNil(t, score.Maximum)
	assert.Equal(t, 1.0, *score.Maximum)

	options := schema.Properties["options"]
	assert.Equal(t, genai.TypeArray, options.Type)
	assert.Equal(t, genai.TypeString, options.Items.Type)
	require.NotNil(t, options.MinItems)
	assert.Equal(t, int64(2), *options.MinItems)
}
