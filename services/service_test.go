package services

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hmnguyen/flashdeck-backend/models"
)

// setupTestDB opens a throwaway sqlite database and migrates the schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Folder{},
		&models.Deck{},
		&models.Flashcard{},
		&models.Document{},
	)
	require.NoError(t, err)

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()

	user := models.User{Name: "Test User", Email: email}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTestFolder(t *testing.T, db *gorm.DB, userID uuid.UUID) models.Folder {
	t.Helper()

	folder := models.Folder{
		Name:   "Test Folder",
		Color:  models.DefaultFolderColor,
		UserID: userID,
	}
	require.NoError(t, db.Create(&folder).Error)
	return folder
}

func createTestDeck(t *testing.T, db *gorm.DB, userID uuid.UUID, title string, terms ...string) models.Deck {
	t.Helper()

	deck := models.Deck{
		Title:     title,
		Topics:    []string{},
		CardCount: len(terms),
		UserID:    userID,
	}
	for _, term := range terms {
		deck.Flashcards = append(deck.Flashcards, models.Flashcard{
			Term:       term,
			Definition: "definition of " + term,
		})
	}
	require.NoError(t, db.Create(&deck).Error)
	return deck
}
