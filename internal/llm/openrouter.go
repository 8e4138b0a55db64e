package llm

import "fmt"

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// Short names accepted for OpenRouter. Full "vendor/model" IDs pass through.
var openrouterModels = map[string]string{
	"claude-sonnet": "anthropic/claude-sonnet-4",
	"claude-haiku":  "anthropic/claude-haiku-4.5",
	"gpt-4o-mini":   "openai/gpt-4o-mini",
	"gpt-4.1-mini":  "openai/gpt-4.1-mini",
	"gemini-flash":  "google/gemini-2.0-flash-001",
}

// OpenRouterProvider talks to OpenRouter through its OpenAI-compatible API.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}

	inner, err := newOpenAIProviderRaw(OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   resolveModel(cfg.Model, openrouterModels),
		BaseURL: baseURL,
	}, false)
	if err != nil {
		return nil, err
	}
	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}
