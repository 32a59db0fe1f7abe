package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hmnguyen/flashdeck-backend/models"
)

// FlashcardEntry is a term/definition pair supplied by a caller.
type FlashcardEntry struct {
	Term       string `json:"term" binding:"required"`
	Definition string `json:"definition" binding:"required"`
}

// DeckEntry is the payload for creating a deck. There is deliberately no
// card-count field: the stored count is always derived from the flashcards.
type DeckEntry struct {
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	Topics      []string         `json:"topics"`
	Flashcards  []FlashcardEntry `json:"flashcards"`
	FolderID    *uuid.UUID       `json:"folder_id"`
}

// DeckUpdate is the payload for editing a deck's content. Flashcards carry
// their ids so existing cards can be updated in place; cards missing from the
// list are removed, cards with a nil id are created.
type DeckUpdate struct {
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description"`
	Topics      []string          `json:"topics"`
	Flashcards  []FlashcardUpdate `json:"flashcards"`
}

type FlashcardUpdate struct {
	ID         uuid.UUID `json:"id"`
	Term       string    `json:"term" binding:"required"`
	Definition string    `json:"definition" binding:"required"`
}

type DeckService struct {
	db *gorm.DB
}

func NewDeckService(db *gorm.DB) *DeckService {
	return &DeckService{db: db}
}

// reconcileCardCount corrects a stale cached card_count against the loaded
// flashcards. Best-effort read-repair: the update is issued outside any
// transaction with the triggering read.
func (s *DeckService) reconcileCardCount(deck *models.Deck) error {
	actual := len(deck.Flashcards)
	if deck.CardCount == actual {
		return nil
	}
	if err := s.db.Model(&models.Deck{}).
		Where("id = ?", deck.ID).
		Update("card_count", actual).Error; err != nil {
		return err
	}
	deck.CardCount = actual
	return nil
}

// GetDecks returns every deck owned by userID with flashcards loaded,
// repairing stale card counts along the way.
func (s *DeckService) GetDecks(userID uuid.UUID) ([]models.Deck, error) {
	var decks []models.Deck
	if err := s.db.
		Preload("Flashcards").
		Where("user_id = ?", userID).
		Find(&decks).Error; err != nil {
		return nil, err
	}

	for i := range decks {
		if err := s.reconcileCardCount(&decks[i]); err != nil {
			return nil, err
		}
	}
	return decks, nil
}

// GetDeckByID returns the deck with its flashcards, or (nil, nil) when no
// such deck exists. Absence is not an error here.
func (s *DeckService) GetDeckByID(deckID uuid.UUID) (*models.Deck, error) {
	var deck models.Deck
	err := s.db.Preload("Flashcards").First(&deck, "id = ?", deckID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.reconcileCardCount(&deck); err != nil {
		return nil, err
	}
	return &deck, nil
}

// GetDecksNotInFolder returns the caller's decks that are unassigned or
// assigned to a different folder. Used to populate "add existing deck" pickers.
func (s *DeckService) GetDecksNotInFolder(userID, excludeFolderID uuid.UUID) ([]models.Deck, error) {
	var decks []models.Deck
	if err := s.db.
		Preload("Flashcards").
		Where("user_id = ? AND (folder_id IS NULL OR folder_id <> ?)", userID, excludeFolderID).
		Find(&decks).Error; err != nil {
		return nil, err
	}

	for i := range decks {
		if err := s.reconcileCardCount(&decks[i]); err != nil {
			return nil, err
		}
	}
	return decks, nil
}

// CreateDeck creates the deck and all of its flashcards in one create. The
// stored card count is derived from the flashcards, never taken from input.
func (s *DeckService) CreateDeck(userID uuid.UUID, entry DeckEntry) (*models.Deck, error) {
	topics := entry.Topics
	if topics == nil {
		topics = []string{}
	}

	deck := models.Deck{
		Title:       entry.Title,
		Description: entry.Description,
		Topics:      topics,
		CardCount:   len(entry.Flashcards),
		FolderID:    entry.FolderID,
		UserID:      userID,
	}
	for _, f := range entry.Flashcards {
		deck.Flashcards = append(deck.Flashcards, models.Flashcard{
			Term:       f.Term,
			Definition: f.Definition,
		})
	}

	if err := s.db.Create(&deck).Error; err != nil {
		return nil, err
	}
	return &deck, nil
}

// UpdateDeck edits a deck's content: title, description, topics and the full
// flashcard list. Cards keeping their id are updated, cards absent from the
// new list are deleted, cards without an id are created. The cached count is
// re-derived from the submitted list.
func (s *DeckService) UpdateDeck(deckID uuid.UUID, update DeckUpdate) (*models.Deck, error) {
	var deck models.Deck
	if err := s.db.First(&deck, "id = ?", deckID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	topics := update.Topics
	if topics == nil {
		topics = []string{}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&deck).Updates(map[string]interface{}{
			"title":       update.Title,
			"description": update.Description,
			"topics":      topics,
			"card_count":  len(update.Flashcards),
		}).Error; err != nil {
			return err
		}

		var existing []models.Flashcard
		if err := tx.Where("deck_id = ?", deckID).Find(&existing).Error; err != nil {
			return err
		}

		submitted := make(map[uuid.UUID]FlashcardUpdate, len(update.Flashcards))
		for _, f := range update.Flashcards {
			if f.ID != uuid.Nil {
				submitted[f.ID] = f
			}
		}

		for _, card := range existing {
			if f, ok := submitted[card.ID]; ok {
				if err := tx.Model(&models.Flashcard{}).
					Where("id = ?", card.ID).
					Updates(map[string]interface{}{
						"term":       f.Term,
						"definition": f.Definition,
					}).Error; err != nil {
					return err
				}
			} else {
				// Edited out of the deck's card list.
				if err := tx.Delete(&models.Flashcard{}, "id = ?", card.ID).Error; err != nil {
					return err
				}
			}
		}

		existingIDs := make(map[uuid.UUID]bool, len(existing))
		for _, card := range existing {
			existingIDs[card.ID] = true
		}
		for _, f := range update.Flashcards {
			if f.ID != uuid.Nil && existingIDs[f.ID] {
				continue
			}
			card := models.Flashcard{
				ID:         f.ID,
				DeckID:     deckID,
				Term:       f.Term,
				Definition: f.Definition,
			}
			if err := tx.Create(&card).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetDeckByID(deckID)
}

// RecordProgressTick stores an in-session progress value and stamps the
// study time. Accuracy is left untouched.
func (s *DeckService) RecordProgressTick(deckID uuid.UUID, progress int) (*models.Deck, error) {
	return s.updateStudyFields(deckID, map[string]interface{}{
		"study_progress": progress,
		"last_studied":   time.Now(),
	})
}

// RecordSessionCompletion stores the final session accuracy. Completion
// always forces progress to 100.
func (s *DeckService) RecordSessionCompletion(deckID uuid.UUID, accuracy int) (*models.Deck, error) {
	return s.updateStudyFields(deckID, map[string]interface{}{
		"accuracy":       accuracy,
		"study_progress": 100,
		"last_studied":   time.Now(),
	})
}

func (s *DeckService) updateStudyFields(deckID uuid.UUID, fields map[string]interface{}) (*models.Deck, error) {
	var deck models.Deck
	if err := s.db.First(&deck, "id = ?", deckID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.db.Model(&deck).Updates(fields).Error; err != nil {
		return nil, err
	}
	return &deck, nil
}

// DeleteDeck removes the deck and its flashcards. The flashcards are deleted
// explicitly so the cascade does not depend on driver-level FK enforcement.
func (s *DeckService) DeleteDeck(deckID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("deck_id = ?", deckID).Delete(&models.Flashcard{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Deck{}, "id = ?", deckID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// MoveDeckToFolder sets the deck's folder reference; a nil folderID detaches
// it. Ownership of the target folder is not verified at this layer; the API
// boundary is responsible for it.
func (s *DeckService) MoveDeckToFolder(deckID uuid.UUID, folderID *uuid.UUID) (*models.Deck, error) {
	var deck models.Deck
	if err := s.db.First(&deck, "id = ?", deckID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.db.Model(&deck).Update("folder_id", folderID).Error; err != nil {
		return nil, err
	}
	return s.GetDeckByID(deckID)
}

// RemoveDeckFromFolder detaches the deck from whatever folder holds it.
func (s *DeckService) RemoveDeckFromFolder(deckID uuid.UUID) (*models.Deck, error) {
	return s.MoveDeckToFolder(deckID, nil)
}

// BulkMoveDecks moves a batch of decks into a folder (or out of any folder
// when folderID is nil). Unlike AddDecksToFolder, the whole batch is rejected
// with ErrForbidden when any deck is missing or owned by someone else.
func (s *DeckService) BulkMoveDecks(userID uuid.UUID, deckIDs []uuid.UUID, folderID *uuid.UUID) (int64, error) {
	var owned int64
	if err := s.db.Model(&models.Deck{}).
		Where("id IN ? AND user_id = ?", deckIDs, userID).
		Count(&owned).Error; err != nil {
		return 0, err
	}
	if owned != int64(len(deckIDs)) {
		return 0, ErrForbidden
	}

	res := s.db.Model(&models.Deck{}).
		Where("id IN ? AND user_id = ?", deckIDs, userID).
		Update("folder_id", folderID)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
