package persistent

import (
	"context"
	"encoding/json"
	"fmt"

	"event-swipe/services/analysis/internal/entity"
)

// ObjectWriter is satisfied by *s3.Client.
type ObjectWriter interface {
	PutJSON(ctx context.Context, key string, body []byte) (string, error)
}

type s3Repository struct {
	objects ObjectWriter
}

// NewS3Repository writes each record as a JSON object under
// analyses/<collection>/<yyyy-mm-dd>/<id>.json.
func NewS3Repository(objects ObjectWriter) AnalysisRepository {
	return &s3Repository{objects: objects}
}

func (r *s3Repository) SaveImageAnalysis(ctx context.Context, record *entity.ImageAnalysisRecord) error {
	return r.put(ctx, entity.CollectionEventAnalyses, record.ID, record.CreatedAt.UTC().Format("2006-01-02"), toImageAnalysisDocument(record))
}

func (r *s3Repository) SaveURLAnalysis(ctx context.Context, record *entity.URLAnalysisRecord) error {
	return r.put(ctx, entity.CollectionURLAnalyses, record.ID, record.CreatedAt.UTC().Format("2006-01-02"), toURLAnalysisDocument(record))
}

func (r *s3Repository) put(ctx context.Context, collection entity.Collection, id, day string, doc interface{}) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s document: %w", collection, err)
	}
	_, err = r.objects.PutJSON(ctx, objectKey(collection, day, id), body)
	return err
}

func objectKey(collection entity.Collection, day, id string) string {
	return fmt.Sprintf("analyses/%s/%s/%s.json", collection, day, id)
}
