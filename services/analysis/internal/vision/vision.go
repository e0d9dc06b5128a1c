// Package vision wraps the image analysis collaborator. The core only relies on
// Analyzer; which backend sits behind it is a deployment choice.
package vision

import (
	"context"

	"event-swipe/services/analysis/internal/entity"
)

type Analyzer interface {
	// Analyze inspects imageRef (an http(s) URL, data URI or raw base64) and
	// returns the collaborator's payload unchanged.
	Analyze(ctx context.Context, imageRef, titleHint string) (*entity.AnalysisResult, error)
}
