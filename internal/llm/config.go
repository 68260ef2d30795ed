// Package llm provides centralized LLM configuration and the completion gateway clients.
// Model tiers decouple call sites from concrete model names so providers can be swapped by configuration.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for single-item prompts and short extractions
	TierLite ModelTier = "lite"
	// TierStandard is for structured output: question lists, evaluations
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long-context summaries such as final feedback
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini uses the github.com/google/generative-ai-go SDK
	ProviderGemini Provider = "gemini"
	// ProviderGenAI uses the google.golang.org/genai SDK against the Gemini API
	ProviderGenAI Provider = "genai"
	// ProviderVertex uses the google.golang.org/genai SDK against Vertex AI
	ProviderVertex Provider = "vertex"
	// ProviderOffline never reaches a model; every call fails so callers fall back to static content
	ProviderOffline Provider = "offline"
)

// DefaultTemperature keeps structured output stable across retries
const DefaultTemperature float32 = 0.1

// DefaultMaxOutputTokens is used when a request does not set its own budget
const DefaultMaxOutputTokens int32 = 2048

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32
	// Project and Location are only used by ProviderVertex
	Project  string
	Location string
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider:    ProviderGemini,
		Temperature: DefaultTemperature,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := *c
	newConfig.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return &newConfig
}

// WithProvider returns a copy of the config using another provider
func (c *Config) WithProvider(p Provider) *Config {
	newConfig := *c
	newConfig.Models = make(map[ModelTier]string, len(c.Models))
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Provider = p
	return &newConfig
}
