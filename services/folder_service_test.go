package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmnguyen/flashdeck-backend/models"
)

func TestCreateFolderDefaultColor(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFolderService(db)
	user := createTestUser(t, db, "folders@example.com")

	folder, err := svc.CreateFolder(user.ID, FolderEntry{Name: "Biology"})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultFolderColor, folder.Color)

	custom, err := svc.CreateFolder(user.ID, FolderEntry{Name: "Chemistry", Color: "#FF0000"})
	require.NoError(t, err)
	assert.Equal(t, "#FF0000", custom.Color)
}

func TestGetFolderByIDAbsent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFolderService(db)

	folder, err := svc.GetFolderByID(uuid.New())
	require.NoError(t, err)
	assert.Nil(t, folder)
}

func TestGetFolderByIDLoadsDecksDeep(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFolderService(db)
	user := createTestUser(t, db, "deep@example.com")
	folder := createTestFolder(t, db, user.ID)

	deck := createTestDeck(t, db, user.ID, "Capitals", "Paris", "Berlin")
	require.NoError(t, db.Model(&models.Deck{}).Where("id = ?", deck.ID).Update("folder_id", folder.ID).Error)

	got, err := svc.GetFolderByID(folder.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Decks, 1)
	assert.Len(t, got.Decks[0].Flashcards, 2)
}

func TestUpdateFolderPartial(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFolderService(db)
	user := createTestUser(t, db, "partial@example.com")
	folder := createTestFolder(t, db, user.ID)

	color := "#00FF00"
	updated, err := svc.UpdateFolder(folder.ID, FolderUpdate{Color: &color})
	require.NoError(t, err)

	assert.Equal(t, "#00FF00", updated.Color)
	assert.Equal(t, folder.Name, updated.Name)
}

func TestUpdateFolderMissing(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFolderService(db)

	name := "Nope"
	_, err := svc.UpdateFolder(uuid.New(), FolderUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteFolderUnlinksDecks(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFolderService(db)
	user := createTestUser(t, db, "unlink@example.com")
	folder := createTestFolder(t, db, user.ID)

	deck := createTestDeck(t, db, user.ID, "Capitals", "Paris")
	require.NoError(t, db.Model(&models.Deck{}).Where("id = ?", deck.ID).Update("folder_id", folder.ID).Error)

	require.NoError(t, svc.DeleteFolder(folder.ID))

	var stored models.Deck
	require.NoError(t, db.First(&stored, "id = ?", deck.ID).Error)
	assert.Nil(t, stored.FolderID)

	assert.ErrorIs(t, svc.DeleteFolder(folder.ID), ErrNotFound)
}

func TestAddDecksToFolderOwnershipGate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFolderService(db)
	owner := createTestUser(t, db, "folderowner@example.com")
	intruder := createTestUser(t, db, "intruder@example.com")
	folder := createTestFolder(t, db, owner.ID)

	deck := createTestDeck(t, db, intruder.ID, "Theirs", "a")

	err := svc.AddDecksToFolder(folder.ID, []uuid.UUID{deck.ID}, intruder.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddDecksToFolderSkipsForeignDecks(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFolderService(db)
	owner := createTestUser(t, db, "skipowner@example.com")
	other := createTestUser(t, db, "skipother@example.com")
	folder := createTestFolder(t, db, owner.ID)

	mine := createTestDeck(t, db, owner.ID, "Mine", "a")
	theirs := createTestDeck(t, db, other.ID, "Theirs", "b")

	err := svc.AddDecksToFolder(folder.ID, []uuid.UUID{mine.ID, theirs.ID}, owner.ID)
	require.NoError(t, err)

	var movedMine, movedTheirs models.Deck
	require.NoError(t, db.First(&movedMine, "id = ?", mine.ID).Error)
	require.NoError(t, db.First(&movedTheirs, "id = ?", theirs.ID).Error)

	require.NotNil(t, movedMine.FolderID)
	assert.Equal(t, folder.ID, *movedMine.FolderID)
	assert.Nil(t, movedTheirs.FolderID)
}
