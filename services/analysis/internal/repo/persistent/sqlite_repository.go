package persistent

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"event-swipe/services/analysis/internal/entity"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS event_analyses (
	id         TEXT PRIMARY KEY,
	image_url  TEXT NOT NULL,
	analysis   TEXT NOT NULL,
	metadata   TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS url_analyses (
	id                  TEXT PRIMARY KEY,
	source_url          TEXT NOT NULL,
	platform            TEXT NOT NULL,
	post_id             TEXT,
	extracted_image_url TEXT NOT NULL,
	author              TEXT,
	caption             TEXT,
	analysis            TEXT NOT NULL,
	metadata            TEXT NOT NULL,
	created_at          TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_url_analyses_source_url ON url_analyses(source_url);
`

type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates the tables if needed.
func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to create sqlite schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) SaveImageAnalysis(ctx context.Context, record *entity.ImageAnalysisRecord) error {
	analysis, metadata, err := encodePayload(record.Analysis, record.Metadata)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO event_analyses (id, image_url, analysis, metadata, created_at) VALUES (?, ?, ?, ?, ?)`,
		record.ID, record.ImageURL, analysis, metadata, record.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

func (r *SQLiteRepository) SaveURLAnalysis(ctx context.Context, record *entity.URLAnalysisRecord) error {
	analysis, metadata, err := encodePayload(record.Analysis, record.Metadata)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO url_analyses (id, source_url, platform, post_id, extracted_image_url, author, caption, analysis, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.SourceURL, record.Platform, record.PostID, record.ExtractedImageURL,
		record.PostMetadata.Author, record.PostMetadata.Caption,
		analysis, metadata, record.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

func (r *SQLiteRepository) GetImageAnalysis(ctx context.Context, id string) (*entity.ImageAnalysisRecord, error) {
	var (
		record             entity.ImageAnalysisRecord
		analysis, metadata string
		createdAt          string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, image_url, analysis, metadata, created_at FROM event_analyses WHERE id = ?`, id,
	).Scan(&record.ID, &record.ImageURL, &analysis, &metadata, &createdAt)
	if err != nil {
		return nil, err
	}

	if record.Analysis, record.Metadata, err = decodePayload(analysis, metadata); err != nil {
		return nil, err
	}
	if record.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *SQLiteRepository) GetURLAnalysis(ctx context.Context, id string) (*entity.URLAnalysisRecord, error) {
	var (
		record             entity.URLAnalysisRecord
		postID, author     sql.NullString
		caption            sql.NullString
		analysis, metadata string
		createdAt          string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, source_url, platform, post_id, extracted_image_url, author, caption, analysis, metadata, created_at
		 FROM url_analyses WHERE id = ?`, id,
	).Scan(&record.ID, &record.SourceURL, &record.Platform, &postID, &record.ExtractedImageURL,
		&author, &caption, &analysis, &metadata, &createdAt)
	if err != nil {
		return nil, err
	}

	record.PostID = postID.String
	record.PostMetadata = entity.PostMetadata{Author: author.String, Caption: caption.String}
	if record.Analysis, record.Metadata, err = decodePayload(analysis, metadata); err != nil {
		return nil, err
	}
	if record.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, err
	}
	return &record, nil
}

func encodePayload(analysis, metadata map[string]interface{}) (string, string, error) {
	a, err := json.Marshal(analysis)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode analysis: %w", err)
	}
	m, err := json.Marshal(metadata)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode metadata: %w", err)
	}
	return string(a), string(m), nil
}

func decodePayload(analysis, metadata string) (map[string]interface{}, map[string]interface{}, error) {
	var a, m map[string]interface{}
	if err := json.Unmarshal([]byte(analysis), &a); err != nil {
		return nil, nil, fmt.Errorf("failed to decode analysis: %w", err)
	}
	if err := json.Unmarshal([]byte(metadata), &m); err != nil {
		return nil, nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	return a, m, nil
}
