package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/jonathan/interview-coach/internal/logger"
)

// Request is one completion call
type Request struct {
	Prompt          string
	Tier            ModelTier
	MaxOutputTokens int32
	// JSON asks the provider for an application/json response when it supports it
	JSON bool
}

// Client is an abstraction over LLM providers.
// Implementations may return malformed, truncated or empty text; callers must parse defensively.
type Client interface {
	// Complete sends one prompt and returns the model's text
	Complete(ctx context.Context, req Request) (string, error)
	// GetModel returns the underlying provider model for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string, log *zap.Logger) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGenAI, ProviderVertex:
		return NewGenAIClient(ctx, config, apiKey, log)
	case ProviderOffline:
		return NewOfflineClient(config), nil
	default:
		return NewGeminiClient(ctx, config, apiKey, log)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
	log    *zap.Logger
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string, log *zap.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
		log:    logger.OrNop(log),
	}, nil
}

// Complete generates content using the model configured for the request tier
func (c *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	modelName := c.config.GetModel(req.Tier)
	if modelName == "" {
		return "", newGatewayFailure(ProviderGemini, "", fmt.Sprintf("no model configured for tier %s", req.Tier), nil)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(temperature(c.config))
	model.SetMaxOutputTokens(maxTokens(req))
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}

	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", newGatewayFailure(ProviderGemini, modelName, "failed to generate content", err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", newGatewayFailure(ProviderGemini, modelName, "unusable response", err)
	}

	logger.WithCommonFields(c.log, string(ProviderGemini), modelName).Debug("completion",
		zap.Duration("duration", time.Since(start)),
		zap.String("response_preview", logger.TruncateForLog(text, logger.DefaultMaxLogLength)),
	)
	return text, nil
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	text := strings.TrimSpace(strings.Join(parts, ""))
	if text == "" {
		return "", fmt.Errorf("no text parts in response")
	}

	return text, nil
}

func temperature(c *Config) float32 {
	if c.Temperature > 0 {
		return c.Temperature
	}
	return DefaultTemperature
}

func maxTokens(req Request) int32 {
	if req.MaxOutputTokens > 0 {
		return req.MaxOutputTokens
	}
	return DefaultMaxOutputTokens
}
