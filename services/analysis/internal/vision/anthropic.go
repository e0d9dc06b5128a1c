package vision

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const DefaultAnthropicModel = "claude-sonnet-4-20250514"

type anthropicProvider struct {
	client    anthropic.Client
	modelName string
}

func newAnthropicProvider(apiKey, model string) *anthropicProvider {
	if model == "" {
		model = DefaultAnthropicModel
	}
	return &anthropicProvider{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		modelName: model,
	}
}

func (c *anthropicProvider) name() string     { return ProviderAnthropic }
func (c *anthropicProvider) model() string    { return c.modelName }
func (c *anthropicProvider) needsBytes() bool { return true }

func (c *anthropicProvider) generate(ctx context.Context, img *imagePayload, prompt string) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.modelName),
		MaxTokens: 1024,
		System:    []anthropic.TextBlockParam{{Text: systemInstruction}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(img.MIMEType, base64.StdEncoding.EncodeToString(img.Data)),
				anthropic.NewTextBlock(prompt),
			),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call Claude API: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("Claude returned empty response")
}
