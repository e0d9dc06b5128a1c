package persistent

import (
	"time"

	"event-swipe/services/analysis/internal/entity"
	"event-swipe/services/analysis/internal/model"
)

func ToEventAnalysisModel(r *entity.ImageAnalysisRecord) *model.EventAnalysisModel {
	if r == nil {
		return nil
	}
	return &model.EventAnalysisModel{
		ID:        r.ID,
		ImageURL:  r.ImageURL,
		Analysis:  model.JSONMap(r.Analysis),
		Metadata:  model.JSONMap(r.Metadata),
		CreatedAt: r.CreatedAt,
	}
}

func ToImageAnalysisRecord(m *model.EventAnalysisModel) *entity.ImageAnalysisRecord {
	if m == nil {
		return nil
	}
	return &entity.ImageAnalysisRecord{
		ID:        m.ID,
		ImageURL:  m.ImageURL,
		Analysis:  map[string]interface{}(m.Analysis),
		Metadata:  map[string]interface{}(m.Metadata),
		CreatedAt: m.CreatedAt,
	}
}

func ToURLAnalysisModel(r *entity.URLAnalysisRecord) *model.URLAnalysisModel {
	if r == nil {
		return nil
	}
	return &model.URLAnalysisModel{
		ID:                r.ID,
		SourceURL:         r.SourceURL,
		Platform:          r.Platform,
		PostID:            r.PostID,
		ExtractedImageURL: r.ExtractedImageURL,
		Author:            r.PostMetadata.Author,
		Caption:           r.PostMetadata.Caption,
		Analysis:          model.JSONMap(r.Analysis),
		Metadata:          model.JSONMap(r.Metadata),
		CreatedAt:         r.CreatedAt,
	}
}

func ToURLAnalysisRecord(m *model.URLAnalysisModel) *entity.URLAnalysisRecord {
	if m == nil {
		return nil
	}
	return &entity.URLAnalysisRecord{
		ID:                m.ID,
		SourceURL:         m.SourceURL,
		Platform:          m.Platform,
		PostID:            m.PostID,
		ExtractedImageURL: m.ExtractedImageURL,
		PostMetadata: entity.PostMetadata{
			Author:  m.Author,
			Caption: m.Caption,
		},
		Analysis:  map[string]interface{}(m.Analysis),
		Metadata:  map[string]interface{}(m.Metadata),
		CreatedAt: m.CreatedAt,
	}
}

// imageAnalysisDocument is the stored shape for document backends (mongo, s3).
type imageAnalysisDocument struct {
	ID        string                 `bson:"_id" json:"id"`
	ImageURL  string                 `bson:"image_url" json:"image_url"`
	Analysis  map[string]interface{} `bson:"analysis" json:"analysis"`
	Metadata  map[string]interface{} `bson:"metadata" json:"metadata"`
	CreatedAt time.Time              `bson:"created_at" json:"created_at"`
}

type postMetadataDocument struct {
	Author  string `bson:"author" json:"author"`
	Caption string `bson:"caption" json:"caption"`
}

type urlAnalysisDocument struct {
	ID                string                 `bson:"_id" json:"id"`
	SourceURL         string                 `bson:"source_url" json:"source_url"`
	Platform          string                 `bson:"platform" json:"platform"`
	PostID            string                 `bson:"post_id" json:"post_id"`
	ExtractedImageURL string                 `bson:"extracted_image_url" json:"extracted_image_url"`
	PostMetadata      postMetadataDocument   `bson:"post_metadata" json:"post_metadata"`
	Analysis          map[string]interface{} `bson:"analysis" json:"analysis"`
	Metadata          map[string]interface{} `bson:"metadata" json:"metadata"`
	CreatedAt         time.Time              `bson:"created_at" json:"created_at"`
}

func toImageAnalysisDocument(r *entity.ImageAnalysisRecord) *imageAnalysisDocument {
	return &imageAnalysisDocument{
		ID:        r.ID,
		ImageURL:  r.ImageURL,
		Analysis:  r.Analysis,
		Metadata:  r.Metadata,
		CreatedAt: r.CreatedAt,
	}
}

func toURLAnalysisDocument(r *entity.URLAnalysisRecord) *urlAnalysisDocument {
	return &urlAnalysisDocument{
		ID:                r.ID,
		SourceURL:         r.SourceURL,
		Platform:          r.Platform,
		PostID:            r.PostID,
		ExtractedImageURL: r.ExtractedImageURL,
		PostMetadata: postMetadataDocument{
			Author:  r.PostMetadata.Author,
			Caption: r.PostMetadata.Caption,
		},
		Analysis:  r.Analysis,
		Metadata:  r.Metadata,
		CreatedAt: r.CreatedAt,
	}
}
