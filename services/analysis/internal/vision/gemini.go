package vision

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

type geminiProvider struct {
	client    *genai.Client
	modelName string
}

func newGeminiProvider(ctx context.Context, apiKey, model string) (*geminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &geminiProvider{client: client, modelName: model}, nil
}

func (g *geminiProvider) name() string     { return ProviderGemini }
func (g *geminiProvider) model() string    { return g.modelName }
func (g *geminiProvider) needsBytes() bool { return true }

func (g *geminiProvider) generate(ctx context.Context, img *imagePayload, prompt string) (string, error) {
	temperature := float32(0.2)
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{InlineData: &genai.Blob{Data: img.Data, MIMEType: img.MIMEType}},
				{Text: prompt},
			},
		},
	}, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
		Temperature:       &temperature,
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return "", err
	}

	text := geminiText(resp)
	if text == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return text, nil
}

func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	var texts []string
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}
	return strings.Join(texts, "")
}
