package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmnguyen/flashdeck-backend/models"
)

func createTestDocument(t *testing.T, svc *DocumentService, userID uuid.UUID) models.Document {
	t.Helper()

	doc := models.Document{
		UserID:       userID,
		OriginalName: "notes.pdf",
		FilePath:     "https://storage.example.com/documents/notes.pdf",
		FileType:     "pdf",
		FileSize:     1024,
		Status:       models.DocumentUploaded,
	}
	require.NoError(t, svc.CreateDocument(&doc))
	return doc
}

func TestGetDocumentScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDocumentService(db)
	owner := createTestUser(t, db, "docowner@example.com")
	other := createTestUser(t, db, "docother@example.com")
	doc := createTestDocument(t, svc, owner.ID)

	got, err := svc.GetDocument(doc.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)

	_, err = svc.GetDocument(doc.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetDocument(uuid.New(), owner.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkExtracted(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDocumentService(db)
	user := createTestUser(t, db, "extract@example.com")
	doc := createTestDocument(t, svc, user.ID)

	require.NoError(t, svc.SetWhisperHash(doc.ID, "hash-1"))
	require.NoError(t, svc.MarkExtracted(doc.ID, "Paris is the capital of France."))

	got, err := svc.GetDocument(doc.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentExtracted, got.Status)
	assert.Equal(t, "Paris is the capital of France.", got.ExtractedText)
	assert.Equal(t, "hash-1", got.WhisperHash)
	assert.NotNil(t, got.ProcessedAt)
}

func TestDeleteDocumentScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDocumentService(db)
	owner := createTestUser(t, db, "delowner@example.com")
	other := createTestUser(t, db, "delother@example.com")
	doc := createTestDocument(t, svc, owner.ID)

	assert.ErrorIs(t, svc.DeleteDocument(doc.ID, other.ID), ErrNotFound)
	require.NoError(t, svc.DeleteDocument(doc.ID, owner.ID))
	assert.ErrorIs(t, svc.DeleteDocument(doc.ID, owner.ID), ErrNotFound)
}

func TestListDocumentsNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDocumentService(db)
	user := createTestUser(t, db, "list@example.com")

	createTestDocument(t, svc, user.ID)
	createTestDocument(t, svc, user.ID)

	docs, err := svc.ListDocuments(user.ID)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}
