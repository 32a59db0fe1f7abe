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

type FolderController struct {
	folders *services.FolderService
}

func NewFolderController(folders *services.FolderService) *FolderController {
	return &FolderController{folders: folders}
}

// folderResponse serializes a folder with its decks in summary shape (no
// flashcards).
type folderResponse struct {
	models.Folder
	Decks []models.DeckSummary `json:"decks"`
}

func toFolderResponse(folder models.Folder) folderResponse {
	summaries := make([]models.DeckSummary, 0, len(folder.Decks))
	for _, deck := range folder.Decks {
		summaries = append(summaries, deck.Summary())
	}
	folder.Decks = nil
	return folderResponse{Folder: folder, Decks: summaries}
}

// GET /api/folders
func (ctl *FolderController) GetFolders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	folders, err := ctl.folders.GetFolders(userID)
	if err != nil {
		log.Println("error fetching folders:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch folders"})
		return
	}

	out := make([]folderResponse, 0, len(folders))
	for _, folder := range folders {
		out = append(out, toFolderResponse(folder))
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/folders/:id
// Deep fetch: decks with their flashcards.
func (ctl *FolderController) GetFolderDetail(c *gin.Context) {
	folderID, ok := pathID(c)
	if !ok {
		return
	}

	folder, err := ctl.folders.GetFolderByID(folderID)
	if err != nil {
		log.Println("error fetching folder:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch folder"})
		return
	}
	if folder == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "folder not found"})
		return
	}

	c.JSON(http.StatusOK, folder)
}

// POST /api/folders
func (ctl *FolderController) CreateFolder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var entry services.FolderEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	folder, err := ctl.folders.CreateFolder(userID, entry)
	if err != nil {
		log.Println("error creating folder:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create folder"})
		return
	}

	c.JSON(http.StatusCreated, folder)
}

// PATCH /api/folders/:id
func (ctl *FolderController) UpdateFolder(c *gin.Context) {
	folderID, ok := pathID(c)
	if !ok {
		return
	}

	var update services.FolderUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if update.Name != nil && *update.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
		return
	}

	folder, err := ctl.folders.UpdateFolder(folderID, update)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "folder not found"})
			return
		}
		log.Println("error updating folder:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update folder"})
		return
	}

	c.JSON(http.StatusOK, toFolderResponse(*folder))
}

// DELETE /api/folders/:id
// Decks inside the folder survive; only the folder row goes away.
func (ctl *FolderController) DeleteFolder(c *gin.Context) {
	folderID, ok := pathID(c)
	if !ok {
		return
	}

	if err := ctl.folders.DeleteFolder(folderID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "folder not found"})
			return
		}
		log.Println("error deleting folder:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete folder"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type AddDecksInput struct {
	FolderID uuid.UUID   `json:"folder_id" binding:"required"`
	DeckIDs  []uuid.UUID `json:"deck_ids" binding:"required,min=1"`
}

// POST /api/folders/add-decks
// Moves the caller's decks into a folder the caller owns. Deck ids belonging
// to other users are skipped without an error.
func (ctl *FolderController) AddDecksToFolder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input AddDecksInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing folder_id or deck_ids"})
		return
	}

	if err := ctl.folders.AddDecksToFolder(input.FolderID, input.DeckIDs, userID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "folder not found or you do not have permission to access it"})
			return
		}
		log.Println("error adding decks to folder:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add decks to folder"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
