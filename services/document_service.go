package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hmnguyen/flashdeck-backend/models"
)

type DocumentService struct {
	db *gorm.DB
}

func NewDocumentService(db *gorm.DB) *DocumentService {
	return &DocumentService{db: db}
}

func (s *DocumentService) CreateDocument(doc *models.Document) error {
	return s.db.Create(doc).Error
}

func (s *DocumentService) ListDocuments(userID uuid.UUID) ([]models.Document, error) {
	var docs []models.Document
	if err := s.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// GetDocument fetches a document the user owns; foreign or absent rows both
// come back as ErrNotFound.
func (s *DocumentService) GetDocument(docID, userID uuid.UUID) (*models.Document, error) {
	var doc models.Document
	err := s.db.First(&doc, "id = ? AND user_id = ?", docID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *DocumentService) UpdateStatus(docID uuid.UUID, status string) error {
	return s.db.Model(&models.Document{}).
		Where("id = ?", docID).
		Update("status", status).Error
}

// MarkExtracted stores the extracted text and stamps completion.
func (s *DocumentService) MarkExtracted(docID uuid.UUID, text string) error {
	now := time.Now()
	return s.db.Model(&models.Document{}).
		Where("id = ?", docID).
		Updates(map[string]interface{}{
			"extracted_text": text,
			"status":         models.DocumentExtracted,
			"processed_at":   &now,
		}).Error
}

func (s *DocumentService) SetWhisperHash(docID uuid.UUID, hash string) error {
	return s.db.Model(&models.Document{}).
		Where("id = ?", docID).
		Updates(map[string]interface{}{
			"whisper_hash": hash,
			"status":       models.DocumentExtracting,
		}).Error
}

func (s *DocumentService) DeleteDocument(docID, userID uuid.UUID) error {
	res := s.db.Delete(&models.Document{}, "id = ? AND user_id = ?", docID, userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
