package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"moodrec/internal/domain"
	"moodrec/internal/port"
)

const (
	// GeminiBaseURL is Gemini's OpenAI-compatible endpoint.
	GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	OpenAIBaseURL = "https://api.openai.com/v1"

	DefaultGeminiModel = "gemini-2.0-flash"
)

// ChatLLM generates text through an OpenAI-compatible chat completions API.
// It makes exactly one attempt per call.
type ChatLLM struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

// NewChatLLM returns domain.ErrNotConfigured when apiKey is empty.
// A zero timeout leaves the call bounded only by ctx.
func NewChatLLM(apiKey, model, baseURL string, timeout time.Duration) (*ChatLLM, error) {
	if apiKey == "" {
		return nil, domain.ErrNotConfigured
	}
	if baseURL == "" {
		baseURL = GeminiBaseURL
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	return &ChatLLM{
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(baseURL),
			option.WithMaxRetries(0),
		),
		model:   model,
		timeout: timeout,
	}, nil
}

func (c *ChatLLM) Generate(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%s API returned status %d: %w", c.model, apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("%s API call failed: %w", c.model, err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	return completion.Choices[0].Message.Content, nil
}

func (c *ChatLLM) ModelName() string {
	return c.model
}

var _ port.LLM = (*ChatLLM)(nil)
