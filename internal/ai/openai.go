package ai

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"TradeMind/internal/logging"
)

// OpenAICompleter calls any OpenAI-compatible chat endpoint, including Gemini's.
type OpenAICompleter struct {
	client *openai.Client
	model  string
	logger zerolog.Logger
}

// NewOpenAICompleter creates a completer. An empty baseURL uses OpenAI itself.
func NewOpenAICompleter(apiKey, baseURL, model string) *OpenAICompleter {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAICompleter{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logging.Component("openai_client"),
	}
}

func (c *OpenAICompleter) Complete(ctx context.Context, prompt string, wantJSON bool) (string, error) {
	c.logger.Debug().Str("model", c.model).Bool("json", wantJSON).Msg("sending prompt")

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if wantJSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from AI")
	}
	return resp.Choices[0].Message.Content, nil
}
