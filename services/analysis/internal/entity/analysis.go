package entity

import "time"

const (
	PlatformInstagram = "instagram"

	// Base64ImageMarker replaces inline image payloads in stored records.
	Base64ImageMarker = "base64_data"

	DefaultCaption = "No caption available"
	DefaultAuthor  = "Unknown"
)

type Collection string

const (
	CollectionEventAnalyses Collection = "event_analyses"
	CollectionURLAnalyses   Collection = "url_analyses"
)

type MediaItem struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// ExtractedPost is a social post resolved to its media.
type ExtractedPost struct {
	ImageURL  string
	Caption   string
	Author    string
	PostID    string
	SourceURL string
	AllMedia  []MediaItem
}

// AnalysisResult is passed through from the vision collaborator untouched.
type AnalysisResult struct {
	Analysis map[string]interface{} `json:"analysis"`
	Metadata map[string]interface{} `json:"metadata"`
}

// URLAnalysis is the outcome of the URL flow.
type URLAnalysis struct {
	Post   *ExtractedPost
	Result *AnalysisResult
}

type ImageAnalysisRecord struct {
	ID        string
	ImageURL  string
	Analysis  map[string]interface{}
	Metadata  map[string]interface{}
	CreatedAt time.Time
}

type PostMetadata struct {
	Author  string `json:"author"`
	Caption string `json:"caption"`
}

type URLAnalysisRecord struct {
	ID                string
	SourceURL         string
	Platform          string
	PostID            string
	ExtractedImageURL string
	PostMetadata      PostMetadata
	Analysis          map[string]interface{}
	Metadata          map[string]interface{}
	CreatedAt         time.Time
}

// AnalysisEvent is published once a record has been handed to persistence.
type AnalysisEvent struct {
	RecordID   string     `json:"record_id"`
	Collection Collection `json:"collection"`
	ImageURL   string     `json:"image_url"`
	SourceURL  string     `json:"source_url,omitempty"`
	Persisted  bool       `json:"persisted"`
	CreatedAt  time.Time  `json:"created_at"`
}
