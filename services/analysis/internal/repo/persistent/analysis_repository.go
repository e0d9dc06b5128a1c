package persistent

import (
	"context"

	"event-swipe/services/analysis/internal/entity"
)

// AnalysisRepository stores finished analyses. Records are written once and
// never updated.
type AnalysisRepository interface {
	SaveImageAnalysis(ctx context.Context, record *entity.ImageAnalysisRecord) error
	SaveURLAnalysis(ctx context.Context, record *entity.URLAnalysisRecord) error
}
