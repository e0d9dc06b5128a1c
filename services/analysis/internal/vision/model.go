package vision

import (
	"context"
	"fmt"
	"time"

	"event-swipe/pkg/logger"
	"event-swipe/services/analysis/internal/entity"

	"go.uber.org/zap"
)

// modelProvider is one hosted multimodal model.
type modelProvider interface {
	name() string
	model() string
	// needsBytes reports whether remote images must be downloaded first.
	needsBytes() bool
	generate(ctx context.Context, img *imagePayload, prompt string) (string, error)
}

// ModelAnalyzer runs the analysis prompt against a hosted model and reshapes
// the reply into an AnalysisResult.
type ModelAnalyzer struct {
	provider modelProvider
	loader   *imageLoader
	timeout  time.Duration
	log      *logger.Logger
	now      func() time.Time
}

func newModelAnalyzer(provider modelProvider, timeout time.Duration, log *logger.Logger) *ModelAnalyzer {
	return &ModelAnalyzer{
		provider: provider,
		loader:   newImageLoader(nil),
		timeout:  timeout,
		log:      log,
		now:      time.Now,
	}
}

func (a *ModelAnalyzer) Analyze(ctx context.Context, imageRef, titleHint string) (*entity.AnalysisResult, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	img, err := a.loader.load(ctx, imageRef, a.provider.needsBytes())
	if err != nil {
		return nil, err
	}

	started := a.now()
	text, err := a.provider.generate(ctx, img, buildPrompt(titleHint))
	if err != nil {
		a.log.Zap().Error("Vision model call failed",
			zap.String("provider", a.provider.name()),
			zap.String("model", a.provider.model()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%s analysis failed: %w", a.provider.name(), err)
	}

	analysis, err := parseModelJSON(text)
	if err != nil {
		return nil, err
	}

	elapsed := a.now().Sub(started)
	a.log.Zap().Debug("Vision model response received",
		zap.String("provider", a.provider.name()),
		zap.Int("length", len(text)),
		zap.Duration("elapsed", elapsed),
	)

	return &entity.AnalysisResult{
		Analysis: analysis,
		Metadata: map[string]interface{}{
			"provider":      a.provider.name(),
			"model":         a.provider.model(),
			"title_hint":    titleHint,
			"processed_at":  a.now().UTC().Format(time.RFC3339),
			"processing_ms": elapsed.Milliseconds(),
		},
	}, nil
}
