package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds provider selection, credentials and call policy.
type Config struct {
	// Provider is one of "anthropic", "openai", "gemini", "openrouter", "mock".
	Provider string `yaml:"provider"`

	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Retry      RetryConfig      `yaml:"retry"`

	// Timeout bounds a single generation call including its retries.
	Timeout time.Duration `yaml:"-"`
}

type AnthropicConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"` // default "claude-haiku"
	BaseURL string `yaml:"base_url"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"` // default "gpt-4o-mini"
	BaseURL string `yaml:"base_url"`
}

type GeminiConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"` // default "gemini-flash"
	BaseURL string `yaml:"base_url"`
}

type OpenRouterConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"` // default https://openrouter.ai/api/v1
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"-"`
	MaxWait     time.Duration `yaml:"-"`
	Multiplier  float64       `yaml:"multiplier"`
}

// DefaultTimeout is the per-call generation bound.
const DefaultTimeout = 15 * time.Second

// DefaultConfig returns a Config with the stock models and a 15s call bound.
func DefaultConfig() Config {
	return Config{
		Provider:   "anthropic",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 2,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     4 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: DefaultTimeout,
	}
}

// ApplyEnv overlays TUTORLY_* environment variables onto cfg.
func ApplyEnv(cfg *Config) {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&cfg.Provider, "TUTORLY_LLM_PROVIDER")
	set(&cfg.Anthropic.APIKey, "TUTORLY_ANTHROPIC_API_KEY")
	set(&cfg.Anthropic.Model, "TUTORLY_ANTHROPIC_MODEL")
	set(&cfg.Anthropic.BaseURL, "TUTORLY_ANTHROPIC_BASE_URL")
	set(&cfg.OpenAI.APIKey, "TUTORLY_OPENAI_API_KEY")
	set(&cfg.OpenAI.Model, "TUTORLY_OPENAI_MODEL")
	set(&cfg.OpenAI.BaseURL, "TUTORLY_OPENAI_BASE_URL")
	set(&cfg.Gemini.APIKey, "TUTORLY_GEMINI_API_KEY")
	set(&cfg.Gemini.Model, "TUTORLY_GEMINI_MODEL")
	set(&cfg.OpenRouter.APIKey, "TUTORLY_OPENROUTER_API_KEY")
	set(&cfg.OpenRouter.Model, "TUTORLY_OPENROUTER_MODEL")

	if v := os.Getenv("TUTORLY_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
}

// Discover fills in a provider from the vendor API key variables when the
// configured provider has no key. Priority: Gemini, OpenAI, Anthropic,
// OpenRouter. Returns false if nothing usable was found.
func Discover(cfg *Config) bool {
	if cfg.Validate() == nil {
		return true
	}
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider, cfg.Gemini.APIKey = "gemini", k
		return true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider, cfg.OpenAI.APIKey = "openai", k
		return true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider, cfg.Anthropic.APIKey = "anthropic", k
		return true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider, cfg.OpenRouter.APIKey = "openrouter", k
		return true
	}
	return false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case "anthropic":
		key, env = c.Anthropic.APIKey, "TUTORLY_ANTHROPIC_API_KEY"
	case "openai":
		key, env = c.OpenAI.APIKey, "TUTORLY_OPENAI_API_KEY"
	case "gemini":
		key, env = c.Gemini.APIKey, "TUTORLY_GEMINI_API_KEY"
	case "openrouter":
		key, env = c.OpenRouter.APIKey, "TUTORLY_OPENROUTER_API_KEY"
	case "mock":
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}
