package persistent

import (
	"context"

	"event-swipe/services/analysis/internal/entity"

	"gorm.io/gorm"
)

type postgresRepository struct {
	db *gorm.DB
}

func NewPostgresRepository(db *gorm.DB) AnalysisRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) SaveImageAnalysis(ctx context.Context, record *entity.ImageAnalysisRecord) error {
	return r.db.WithContext(ctx).Create(ToEventAnalysisModel(record)).Error
}

func (r *postgresRepository) SaveURLAnalysis(ctx context.Context, record *entity.URLAnalysisRecord) error {
	return r.db.WithContext(ctx).Create(ToURLAnalysisModel(record)).Error
}
