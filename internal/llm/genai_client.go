package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/jonathan/interview-coach/internal/logger"
)

// GenAIClient implements Client on the google.golang.org/genai SDK,
// against either the Gemini API or Vertex AI.
type GenAIClient struct {
	client   *genai.Client
	config   *Config
	provider Provider
	log      *zap.Logger
}

// NewGenAIClient creates a client for ProviderGenAI (API key) or ProviderVertex (project + location)
func NewGenAIClient(ctx context.Context, config *Config, apiKey string, log *zap.Logger) (*GenAIClient, error) {
	cc := &genai.ClientConfig{}

	switch config.Provider {
	case ProviderVertex:
		if strings.TrimSpace(config.Project) == "" {
			return nil, errors.New("vertex project is required")
		}
		cc.Backend = genai.BackendVertexAI
		cc.Project = config.Project
		cc.Location = config.Location
	default:
		apiKey = strings.TrimSpace(apiKey)
		if apiKey == "" {
			return nil, errors.New("API key is required")
		}
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = apiKey
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	provider := config.Provider
	if provider != ProviderVertex {
		provider = ProviderGenAI
	}

	return &GenAIClient{client: client, config: config, provider: provider, log: logger.OrNop(log)}, nil
}

// Complete generates content using the model configured for the request tier
func (c *GenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	modelName := c.config.GetModel(req.Tier)
	if modelName == "" {
		return "", newGatewayFailure(c.provider, "", fmt.Sprintf("no model configured for tier %s", req.Tier), nil)
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(temperature(c.config)),
		MaxOutputTokens: maxTokens(req),
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, modelName, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", newGatewayFailure(c.provider, modelName, "generate content", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			builder.WriteString(part.Text)
		}
		// first candidate with content wins
		if builder.Len() > 0 {
			break
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", newGatewayFailure(c.provider, modelName, "empty response", nil)
	}

	logger.WithCommonFields(c.log, string(c.provider), modelName).Debug("completion",
		zap.Duration("duration", time.Since(start)),
		zap.String("response_preview", logger.TruncateForLog(output, logger.DefaultMaxLogLength)),
	)
	return output, nil
}

// GetModel returns the model name for a tier
func (c *GenAIClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the genai SDK holds no closable resources
func (c *GenAIClient) Close() error {
	return nil
}
