package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ashureev/sproc-lineage/internal/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var errMissingModelConfig = errors.New("azure openai endpoint, key, api version and deployment are required")

// AzureClient invokes an Azure OpenAI chat deployment.
type AzureClient struct {
	llm         llms.Model
	deployment  string
	temperature float64
	logger      *slog.Logger
}

// NewAzureClient creates a client for the configured deployment. Extra
// options are appended after the Azure settings.
func NewAzureClient(cfg config.ModelConfig, logger *slog.Logger, opts ...openai.Option) (*AzureClient, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Endpoint == "" || cfg.APIKey == "" || cfg.APIVersion == "" || cfg.Deployment == "" {
		return nil, errMissingModelConfig
	}

	options := append([]openai.Option{
		openai.WithAPIType(openai.APITypeAzure),
		openai.WithBaseURL(cfg.Endpoint),
		openai.WithToken(cfg.APIKey),
		openai.WithAPIVersion(cfg.APIVersion),
		openai.WithModel(cfg.Deployment),
	}, opts...)

	llm, err := openai.New(options...)
	if err != nil {
		return nil, fmt.Errorf("create azure openai client for %s: %w", cfg.Deployment, err)
	}

	return &AzureClient{
		llm:         llm,
		deployment:  cfg.Deployment,
		temperature: cfg.Temperature,
		logger:      logger,
	}, nil
}

// Invoke sends prompt as a single user message and returns the reply text.
func (c *AzureClient) Invoke(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	out, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt, llms.WithTemperature(c.temperature))
	if err != nil {
		c.logger.Warn("model invocation failed", "deployment", c.deployment, "error", err)
		return "", fmt.Errorf("azure openai %s: %w", c.deployment, err)
	}
	c.logger.Info("model invocation complete",
		"deployment", c.deployment,
		"duration_ms", time.Since(start).Milliseconds(),
		"response_bytes", len(out))
	return out, nil
}
