package vision

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const DefaultOpenAIModel = "gpt-4o-mini"

type openAIProvider struct {
	client    openai.Client
	modelName string
}

func newOpenAIProvider(apiKey, model string) *openAIProvider {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &openAIProvider{
		client:    openai.NewClient(option.WithAPIKey(apiKey)),
		modelName: model,
	}
}

func (o *openAIProvider) name() string  { return ProviderOpenAI }
func (o *openAIProvider) model() string { return o.modelName }

// OpenAI fetches remote images itself.
func (o *openAIProvider) needsBytes() bool { return false }

func (o *openAIProvider) generate(ctx context.Context, img *imagePayload, prompt string) (string, error) {
	imageURL := img.URL
	if imageURL == "" {
		imageURL = img.dataURI()
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemInstruction),
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(prompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: imageURL}),
			}),
		},
		MaxCompletionTokens: openai.Int(1024),
		Temperature:         openai.Float(0.2),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI response")
	}
	return resp.Choices[0].Message.Content, nil
}
