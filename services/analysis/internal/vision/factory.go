package vision

import (
	"context"
	"fmt"
	"time"

	"event-swipe/pkg/config"
	"event-swipe/pkg/logger"
)

const (
	ProviderHTTP      = "http"
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// NewAnalyzer builds the Analyzer selected by VISION_PROVIDER.
func NewAnalyzer(ctx context.Context, cfg *config.Config, log *logger.Logger) (Analyzer, error) {
	timeout := time.Duration(cfg.VisionTimeoutSeconds) * time.Second

	switch cfg.VisionProvider {
	case ProviderHTTP, "":
		return NewHTTPAnalyzer(cfg.VisionServiceURL, timeout), nil

	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini vision provider")
		}
		provider, err := newGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.VisionModel)
		if err != nil {
			return nil, err
		}
		return newModelAnalyzer(provider, timeout, log), nil

	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai vision provider")
		}
		return newModelAnalyzer(newOpenAIProvider(cfg.OpenAIAPIKey, cfg.VisionModel), timeout, log), nil

	case ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic vision provider")
		}
		return newModelAnalyzer(newAnthropicProvider(cfg.AnthropicAPIKey, cfg.VisionModel), timeout, log), nil

	default:
		return nil, fmt.Errorf("unknown vision provider %q", cfg.VisionProvider)
	}
}
