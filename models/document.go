package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document status lifecycle.
const (
	DocumentUploaded   = "uploaded"
	DocumentExtracting = "extracting"
	DocumentExtracted  = "extracted"
	DocumentFailed     = "failed"
)

type Document struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User          User       `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	OriginalName  string     `gorm:"size:255;not null" json:"original_name"`
	FilePath      string     `gorm:"type:text;not null" json:"file_path"` // public storage URL
	FileType      string     `gorm:"size:50" json:"file_type"`
	FileSize      int64      `json:"file_size"` // bytes
	ExtractedText string     `gorm:"type:text" json:"extracted_text"`
	WhisperHash   string     `gorm:"size:255" json:"-"` // OCR job handle, empty for local extraction
	Status        string     `gorm:"size:30;default:'uploaded'" json:"status"`
	ProcessedAt   *time.Time `json:"processed_at"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
