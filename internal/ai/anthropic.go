package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"

	"TradeMind/internal/logging"
)

const anthropicMaxTokens = 2048

// AnthropicCompleter calls the Anthropic Messages API.
type AnthropicCompleter struct {
	client anthropic.Client
	model  string
	logger zerolog.Logger
}

func NewAnthropicCompleter(apiKey, model string) *AnthropicCompleter {
	return &AnthropicCompleter{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		logger: logging.Component("anthropic_client"),
	}
}

// Complete has no JSON mode to switch on; the prompt itself asks for JSON.
func (c *AnthropicCompleter) Complete(ctx context.Context, prompt string, wantJSON bool) (string, error) {
	c.logger.Debug().Str("model", c.model).Bool("json", wantJSON).Msg("sending prompt")

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("empty response from AI")
	}
	return sb.String(), nil
}
