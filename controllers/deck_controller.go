package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hmnguyen/flashdeck-backend/models"
	"github.com/hmnguyen/flashdeck-backend/services"
)

type DeckController struct {
	decks     *services.DeckService
	documents *services.DocumentService
}

func NewDeckController(decks *services.DeckService, documents *services.DocumentService) *DeckController {
	return &DeckController{decks: decks, documents: documents}
}

// GET /api/decks
// With ?excludeFolderId= the result is the picker query: decks outside that
// folder. Without it, all of the caller's decks.
func (ctl *DeckController) GetDecks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var (
		decks []models.Deck
		err   error
	)
	if raw := c.Query("excludeFolderId"); raw != "" {
		excludeID, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid excludeFolderId"})
			return
		}
		decks, err = ctl.decks.GetDecksNotInFolder(userID, excludeID)
	} else {
		decks, err = ctl.decks.GetDecks(userID)
	}
	if err != nil {
		log.Println("error fetching decks:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch decks"})
		return
	}

	c.JSON(http.StatusOK, decks)
}

// GET /api/decks/:id
func (ctl *DeckController) GetDeckDetail(c *gin.Context) {
	deckID, ok := pathID(c)
	if !ok {
		return
	}

	deck, err := ctl.decks.GetDeckByID(deckID)
	if err != nil {
		log.Println("error fetching deck:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch deck"})
		return
	}
	if deck == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "deck not found"})
		return
	}

	c.JSON(http.StatusOK, deck)
}

// POST /api/decks
func (ctl *DeckController) CreateDeck(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var entry services.DeckEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deck, err := ctl.decks.CreateDeck(userID, entry)
	if err != nil {
		log.Println("error creating deck:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create deck"})
		return
	}

	c.JSON(http.StatusCreated, deck)
}

type GenerateDeckInput struct {
	Text       string     `json:"text"`
	DocumentID *uuid.UUID `json:"document_id"`
	FolderID   *uuid.UUID `json:"folder_id"`
}

// POST /api/decks/generate
// Turns raw text, or the extracted text of an uploaded document, into a new
// deck via the LLM.
func (ctl *DeckController) GenerateDeck(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input GenerateDeckInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text := input.Text
	if text == "" && input.DocumentID != nil {
		doc, err := ctl.documents.GetDocument(*input.DocumentID, userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
			return
		}
		text = doc.ExtractedText
	}
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing text or document_id"})
		return
	}

	generated, err := services.GenerateFlashcardDeck(text)
	if err != nil {
		log.Println("flashcard generation failed:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate flashcards"})
		return
	}

	entry := services.DeckEntry{
		Title:    generated.Title,
		FolderID: input.FolderID,
	}
	for _, card := range generated.Flashcards {
		entry.Flashcards = append(entry.Flashcards, services.FlashcardEntry{
			Term:       card.Term,
			Definition: card.Definition,
		})
	}

	deck, err := ctl.decks.CreateDeck(userID, entry)
	if err != nil {
		log.Println("error saving generated deck:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save deck"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "flashcards generated",
		"deck":    deck,
	})
}

type UpdateProgressInput struct {
	Accuracy *int `json:"accuracy"`
	Progress *int `json:"progress"`
}

// PUT /api/decks/:id
// One endpoint, two semantic events: a body carrying "accuracy" marks session
// completion (progress forced to 100); without it the tick just stores
// "progress". Kept body-compatible with the original client.
func (ctl *DeckController) UpdateDeckProgress(c *gin.Context) {
	deckID, ok := pathID(c)
	if !ok {
		return
	}

	var input UpdateProgressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Accuracy != nil && (*input.Accuracy < 0 || *input.Accuracy > 100) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid accuracy value"})
		return
	}
	if input.Progress != nil && (*input.Progress < 0 || *input.Progress > 100) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid progress value"})
		return
	}

	var (
		deck *models.Deck
		err  error
	)
	if input.Accuracy != nil {
		deck, err = ctl.decks.RecordSessionCompletion(deckID, *input.Accuracy)
	} else {
		progress := 0
		if input.Progress != nil {
			progress = *input.Progress
		}
		deck, err = ctl.decks.RecordProgressTick(deckID, progress)
	}
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "deck not found"})
			return
		}
		log.Println("error updating deck progress:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update deck progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "deck": deck})
}

// PATCH /api/decks/:id
func (ctl *DeckController) EditDeck(c *gin.Context) {
	deckID, ok := pathID(c)
	if !ok {
		return
	}

	var update services.DeckUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deck, err := ctl.decks.UpdateDeck(deckID, update)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "deck not found"})
			return
		}
		log.Println("error editing deck:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to edit deck"})
		return
	}

	c.JSON(http.StatusOK, deck)
}

// DELETE /api/decks/:id
func (ctl *DeckController) DeleteDeck(c *gin.Context) {
	deckID, ok := pathID(c)
	if !ok {
		return
	}

	if err := ctl.decks.DeleteDeck(deckID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "deck not found"})
			return
		}
		log.Println("error deleting deck:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete deck"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type MoveDeckInput struct {
	FolderID *uuid.UUID `json:"folder_id"` // null detaches
}

// PATCH /api/decks/:id/move-to-folder
func (ctl *DeckController) MoveDeckToFolder(c *gin.Context) {
	deckID, ok := pathID(c)
	if !ok {
		return
	}

	var input MoveDeckInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deck, err := ctl.decks.MoveDeckToFolder(deckID, input.FolderID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "deck not found"})
			return
		}
		log.Println("error moving deck:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to move deck"})
		return
	}

	c.JSON(http.StatusOK, deck)
}

// POST /api/decks/:id/remove-from-folder
func (ctl *DeckController) RemoveDeckFromFolder(c *gin.Context) {
	deckID, ok := pathID(c)
	if !ok {
		return
	}

	if _, err := ctl.decks.RemoveDeckFromFolder(deckID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "deck not found"})
			return
		}
		log.Println("error removing deck from folder:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove deck from folder"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deck removed from folder"})
}

type BulkMoveInput struct {
	DeckIDs  []uuid.UUID `json:"deck_ids" binding:"required,min=1"`
	FolderID *uuid.UUID  `json:"folder_id"` // null moves out of any folder
}

// POST /api/decks/bulk-move-to-folder
// Every deck in the batch must belong to the caller; otherwise the whole
// request is rejected.
func (ctl *DeckController) BulkMoveDecks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input BulkMoveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deck_ids provided"})
		return
	}

	count, err := ctl.decks.BulkMoveDecks(userID, input.DeckIDs, input.FolderID)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "one or more decks not found or not owned by the user"})
			return
		}
		log.Println("error bulk-moving decks:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to move decks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "decks moved", "count": count})
}
