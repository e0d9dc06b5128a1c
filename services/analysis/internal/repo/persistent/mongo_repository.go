package persistent

import (
	"context"
	"fmt"

	"event-swipe/services/analysis/internal/entity"

	"go.mongodb.org/mongo-driver/mongo"
)

type mongoRepository struct {
	db *mongo.Database
}

func NewMongoRepository(db *mongo.Database) AnalysisRepository {
	return &mongoRepository{db: db}
}

func (r *mongoRepository) SaveImageAnalysis(ctx context.Context, record *entity.ImageAnalysisRecord) error {
	if _, err := r.db.Collection(string(entity.CollectionEventAnalyses)).InsertOne(ctx, toImageAnalysisDocument(record)); err != nil {
		return fmt.Errorf("mongo insert into %s: %w", entity.CollectionEventAnalyses, err)
	}
	return nil
}

func (r *mongoRepository) SaveURLAnalysis(ctx context.Context, record *entity.URLAnalysisRecord) error {
	if _, err := r.db.Collection(string(entity.CollectionURLAnalyses)).InsertOne(ctx, toURLAnalysisDocument(record)); err != nil {
		return fmt.Errorf("mongo insert into %s: %w", entity.CollectionURLAnalyses, err)
	}
	return nil
}
