package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hmnguyen/flashdeck-backend/models"
)

// FolderEntry is the payload for creating a folder.
type FolderEntry struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// FolderUpdate is a partial update; nil fields are left untouched.
type FolderUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

type FolderService struct {
	db *gorm.DB
}

func NewFolderService(db *gorm.DB) *FolderService {
	return &FolderService{db: db}
}

// GetFolders returns the user's folders with their decks (no flashcards).
func (s *FolderService) GetFolders(userID uuid.UUID) ([]models.Folder, error) {
	var folders []models.Folder
	if err := s.db.
		Preload("Decks").
		Where("user_id = ?", userID).
		Find(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}

// GetFolderByID is the deep fetch: decks and their flashcards included.
// Returns (nil, nil) when the folder does not exist.
func (s *FolderService) GetFolderByID(folderID uuid.UUID) (*models.Folder, error) {
	var folder models.Folder
	err := s.db.
		Preload("Decks.Flashcards").
		First(&folder, "id = ?", folderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

func (s *FolderService) CreateFolder(userID uuid.UUID, entry FolderEntry) (*models.Folder, error) {
	color := entry.Color
	if color == "" {
		color = models.DefaultFolderColor
	}

	folder := models.Folder{
		Name:        entry.Name,
		Description: entry.Description,
		Color:       color,
		UserID:      userID,
	}
	if err := s.db.Create(&folder).Error; err != nil {
		return nil, err
	}
	return &folder, nil
}

func (s *FolderService) UpdateFolder(folderID uuid.UUID, update FolderUpdate) (*models.Folder, error) {
	var folder models.Folder
	if err := s.db.First(&folder, "id = ?", folderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	fields := map[string]interface{}{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if update.Color != nil {
		fields["color"] = *update.Color
	}

	if len(fields) > 0 {
		if err := s.db.Model(&folder).Updates(fields).Error; err != nil {
			return nil, err
		}
	}

	if err := s.db.Preload("Decks").First(&folder, "id = ?", folderID).Error; err != nil {
		return nil, err
	}
	return &folder, nil
}

// DeleteFolder deletes the folder row. Decks inside it are not deleted; they
// are unlinked first so they survive with a nil folder reference.
func (s *FolderService) DeleteFolder(folderID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Deck{}).
			Where("folder_id = ?", folderID).
			Update("folder_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Folder{}, "id = ?", folderID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// AddDecksToFolder assigns a batch of decks to a folder the caller owns.
// Decks in the list that belong to other users are silently skipped: only the
// caller's own decks move, even when extraneous ids are supplied. The check
// and the bulk update are not wrapped in one transaction, matching the
// observed behavior.
func (s *FolderService) AddDecksToFolder(folderID uuid.UUID, deckIDs []uuid.UUID, userID uuid.UUID) error {
	var folder models.Folder
	err := s.db.First(&folder, "id = ? AND user_id = ?", folderID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	return s.db.Model(&models.Deck{}).
		Where("id IN ? AND user_id = ?", deckIDs, userID).
		Update("folder_id", folderID).Error
}
