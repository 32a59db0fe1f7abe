package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Deck struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Topics      []string  `gorm:"serializer:json" json:"topics"`

	// Cached count of flashcards, reconciled lazily on read paths.
	CardCount int `gorm:"not null;default:0" json:"card_count"`

	FolderID *uuid.UUID `gorm:"type:uuid;index" json:"folder_id"`
	UserID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User     User       `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	StudyProgress int        `gorm:"not null;default:0" json:"study_progress"` // 0-100
	Accuracy      *int       `json:"accuracy"`                                 // nil until a session completes
	LastStudied   *time.Time `json:"last_studied"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Flashcards []Flashcard `gorm:"constraint:OnDelete:CASCADE;" json:"flashcards,omitempty"`
}

func (d *Deck) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// DeckSummary is the listing shape of a deck: aggregate fields only, no
// flashcards. Folder listings use it so callers cannot reach for cards that
// were never loaded.
type DeckSummary struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Topics        []string   `json:"topics"`
	CardCount     int        `json:"card_count"`
	FolderID      *uuid.UUID `json:"folder_id"`
	UserID        uuid.UUID  `json:"user_id"`
	StudyProgress int        `json:"study_progress"`
	Accuracy      *int       `json:"accuracy"`
	LastStudied   *time.Time `json:"last_studied"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (d Deck) Summary() DeckSummary {
	return DeckSummary{
		ID:            d.ID,
		Title:         d.Title,
		Description:   d.Description,
		Topics:        d.Topics,
		CardCount:     d.CardCount,
		FolderID:      d.FolderID,
		UserID:        d.UserID,
		StudyProgress: d.StudyProgress,
		Accuracy:      d.Accuracy,
		LastStudied:   d.LastStudied,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}
