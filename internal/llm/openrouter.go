package llm

import (
	"errors"
	"net/http"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// App attribution headers shown on openrouter.ai rankings.
const (
	openRouterReferer = "https://github.com/abhisek/tutorly"
	openRouterTitle   = "tutorly"
)

// OpenRouterProvider reuses the OpenAI client against OpenRouter's
// compatible API, adding its attribution headers.
type OpenRouterProvider struct {
	*OpenAIProvider
}

func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	client := &http.Client{Transport: attribution{base: http.DefaultTransport}}
	return &OpenRouterProvider{
		OpenAIProvider: newOpenAICompatible(OpenAIConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: baseURL,
		}, client),
	}, nil
}

type attribution struct {
	base http.RoundTripper
}

func (a attribution) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("HTTP-Referer", openRouterReferer)
	r.Header.Set("X-Title", openRouterTitle)
	return a.base.RoundTrip(r)
}
