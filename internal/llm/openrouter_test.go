package llm

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenRouterProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     OpenRouterConfig
		wantErr bool
	}{
		{"default base URL", OpenRouterConfig{APIKey: "sk-or-test", Model: "google/gemini-2.0-flash-exp"}, false},
		{"custom base URL", OpenRouterConfig{APIKey: "sk-or-test", Model: "meta-llama/llama-3-8b", BaseURL: "https://custom.example/v1"}, false},
		{"empty API key", OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewOpenRouterProvider(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			// Vendor-prefixed IDs pass through without friendly-name mapping.
			assert.Equal(t, tt.cfg.Model, p.ModelID())
		})
	}
}

func TestOpenRouterProvider_SendsAttribution(t *testing.T) {
	var title, referer string
	srv := vendorServer(t, http.StatusOK, nil,
		openaiCompletion(map[string]any{"content": "Hello."}, "stop"),
		func(r *http.Request, _ map[string]any) {
			title, referer = r.Header.Get("X-Title"), r.Header.Get("HTTP-Referer")
		})

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "openai/gpt-4o-mini", BaseURL: srv.URL})
	require.NoError(t, err)

	resp, err := p.Generate(t.Context(), userRequest("Say hello."))
	require.NoError(t, err)
	assert.Equal(t, "Hello.", string(resp.Content))
	assert.Equal(t, openRouterTitle, title)
	assert.Equal(t, openRouterReferer, referer)
}
