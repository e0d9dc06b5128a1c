package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JSONMap stores a free-form object in a jsonb column.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*m = JSONMap{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONMap", value)
	}

	out := JSONMap{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return err
		}
	}
	*m = out
	return nil
}

type EventAnalysisModel struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	ImageURL  string    `gorm:"type:text;not null" json:"image_url"`
	Analysis  JSONMap   `gorm:"type:jsonb;not null" json:"analysis"`
	Metadata  JSONMap   `gorm:"type:jsonb;not null" json:"metadata"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (EventAnalysisModel) TableName() string {
	return "event_analyses"
}

func (e *EventAnalysisModel) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

type URLAnalysisModel struct {
	ID                string    `gorm:"type:uuid;primary_key" json:"id"`
	SourceURL         string    `gorm:"type:text;not null;index" json:"source_url"`
	Platform          string    `gorm:"type:varchar(32);not null" json:"platform"`
	PostID            string    `gorm:"type:varchar(128);index" json:"post_id"`
	ExtractedImageURL string    `gorm:"type:text;not null" json:"extracted_image_url"`
	Author            string    `gorm:"type:varchar(255)" json:"author"`
	Caption           string    `gorm:"type:text" json:"caption"`
	Analysis          JSONMap   `gorm:"type:jsonb;not null" json:"analysis"`
	Metadata          JSONMap   `gorm:"type:jsonb;not null" json:"metadata"`
	CreatedAt         time.Time `gorm:"index" json:"created_at"`
}

func (URLAnalysisModel) TableName() string {
	return "url_analyses"
}

func (u *URLAnalysisModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
