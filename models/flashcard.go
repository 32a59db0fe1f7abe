package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Flashcard struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DeckID     uuid.UUID `gorm:"type:uuid;not null;index" json:"deck_id"`
	Term       string    `gorm:"type:text;not null" json:"term"`       // the answer
	Definition string    `gorm:"type:text;not null" json:"definition"` // the prompt
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (f *Flashcard) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
