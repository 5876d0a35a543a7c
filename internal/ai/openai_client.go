package ai

import (
	"context"
	"errors"
	"math"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	log     *zap.Logger
}

// NewOpenAIClient builds the client. An empty apiKey is allowed: the
// client constructs fine and every Complete call fails with
// ErrNotConfigured, so the rest of the service can boot and degrade.
// baseURL is optional (OpenRouter or any OpenAI-compatible endpoint).
func NewOpenAIClient(apiKey, model, baseURL string, timeout time.Duration, log *zap.Logger) *OpenAIClient {
	c := &OpenAIClient{
		model:   model,
		timeout: timeout,
		log:     log,
	}
	if apiKey == "" {
		log.Warn("OPENAI_API_KEY not set, completion calls will fail as not configured")
		return c
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	c.client = openai.NewClientWithConfig(cfg)
	return c
}

func (c *OpenAIClient) Configured() bool { return c.client != nil }

func (c *OpenAIClient) Complete(
	ctx context.Context,
	systemPrompt string,
	userPrompt string,
	temperature float32,
	maxTokens int,
) (string, error) {
	if c.client == nil {
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// go-openai omits a zero temperature from the request body, which
	// makes the API fall back to its default of 1.0. Substitute the
	// smallest representable value to keep temperature-0 calls
	// effectively deterministic.
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		c.log.Warn("openai completion error", zap.Error(err))
		return "", &ServiceError{Op: "chat completion", Err: err}
	}

	if len(resp.Choices) == 0 {
		c.log.Warn("openai returned empty choices")
		return "", &ServiceError{Op: "chat completion", Err: errors.New("no choices in response")}
	}

	text := resp.Choices[0].Message.Content
	c.log.Debug("openai completion ok",
		zap.Int("chars", len(text)),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)
	return text, nil
}
