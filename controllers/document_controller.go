package controllers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hmnguyen/flashdeck-backend/models"
	"github.com/hmnguyen/flashdeck-backend/services"
	"github.com/hmnguyen/flashdeck-backend/utils"
	"github.com/hmnguyen/flashdeck-backend/ws"
)

const maxUploadSize = 20 * 1024 * 1024 // 20MB

type DocumentController struct {
	documents *services.DocumentService
	hub       *ws.Hub
}

func NewDocumentController(documents *services.DocumentService, hub *ws.Hub) *DocumentController {
	return &DocumentController{documents: documents, hub: hub}
}

func (ctl *DocumentController) broadcast(docID uuid.UUID, status string, errMsg string) {
	ctl.hub.BroadcastDocumentStatus(ws.DocumentStatusUpdate{
		DocumentID: docID.String(),
		Status:     status,
		Error:      errMsg,
	})
}

// POST /api/documents
// Accepts a PDF or TXT upload, stores the file, then kicks off text
// extraction: through the OCR service when configured (job handle polled via
// the status endpoint), locally otherwise.
func (ctl *DocumentController) UploadDocument(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file attached"})
		return
	}
	if file.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file exceeds 20MB"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" && ext != ".txt" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type"})
		return
	}
	fileType := strings.TrimPrefix(ext, ".")

	docID := uuid.New()

	publicURL, err := utils.UploadDocumentToStorage(file, docID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage upload failed", "details": err.Error()})
		return
	}

	doc := models.Document{
		ID:           docID,
		UserID:       userID,
		OriginalName: file.Filename,
		FilePath:     publicURL,
		FileType:     fileType,
		FileSize:     file.Size,
		Status:       models.DocumentUploaded,
	}
	if err := ctl.documents.CreateDocument(&doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot save document"})
		return
	}
	ctl.broadcast(docID, models.DocumentUploaded, "")

	// PDF + configured OCR key: hand off to the OCR service and let the
	// status endpoint complete the extraction.
	if fileType == "pdf" && services.WhisperConfigured() {
		src, err := file.Open()
		if err != nil {
			ctl.failDocument(&doc, "cannot reopen upload")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot read upload"})
			return
		}
		defer src.Close()

		raw, err := io.ReadAll(src)
		if err != nil {
			ctl.failDocument(&doc, "cannot read upload")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot read upload"})
			return
		}

		hash, err := services.SubmitWhisperJob(raw)
		if err != nil {
			log.Println("whisper submit failed:", err)
			ctl.failDocument(&doc, "OCR submission failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "OCR submission failed"})
			return
		}

		if err := ctl.documents.SetWhisperHash(docID, hash); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot update document"})
			return
		}
		doc.Status = models.DocumentExtracting
		ctl.broadcast(docID, models.DocumentExtracting, "")
		c.JSON(http.StatusCreated, gin.H{"message": "document uploaded, extraction in progress", "document": doc})
		return
	}

	// Local extraction fallback.
	if err := ctl.documents.UpdateStatus(docID, models.DocumentExtracting); err == nil {
		ctl.broadcast(docID, models.DocumentExtracting, "")
	}

	text, err := services.ExtractTextLocal(file, fileType)
	if err != nil {
		log.Println("local extraction failed:", err)
		ctl.failDocument(&doc, "extraction failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot extract document text"})
		return
	}

	if err := ctl.documents.MarkExtracted(docID, text); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot save extracted text"})
		return
	}
	doc.Status = models.DocumentExtracted
	doc.ExtractedText = text
	ctl.broadcast(docID, models.DocumentExtracted, "")

	c.JSON(http.StatusCreated, gin.H{"message": "document uploaded and extracted", "document": doc})
}

func (ctl *DocumentController) failDocument(doc *models.Document, reason string) {
	if err := ctl.documents.UpdateStatus(doc.ID, models.DocumentFailed); err != nil {
		log.Println("cannot mark document failed:", err)
	}
	ctl.broadcast(doc.ID, models.DocumentFailed, reason)
}

// GET /api/documents
func (ctl *DocumentController) GetDocuments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	docs, err := ctl.documents.ListDocuments(userID)
	if err != nil {
		log.Println("error listing documents:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch documents"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": docs, "count": len(docs)})
}

// GET /api/documents/:id
func (ctl *DocumentController) GetDocumentDetail(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	docID, ok := pathID(c)
	if !ok {
		return
	}

	doc, err := ctl.documents.GetDocument(docID, userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
			return
		}
		log.Println("error fetching document:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch document"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// GET /api/documents/:id/status
// For documents in OCR flight this polls the job once: still processing
// returns the current status; a processed job gets its text retrieved and
// stored before answering.
func (ctl *DocumentController) GetDocumentStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	docID, ok := pathID(c)
	if !ok {
		return
	}

	doc, err := ctl.documents.GetDocument(docID, userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
			return
		}
		log.Println("error fetching document:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch document"})
		return
	}

	if doc.Status == models.DocumentExtracting && doc.WhisperHash != "" {
		status, err := services.GetWhisperStatus(doc.WhisperHash)
		if err != nil {
			log.Println("whisper status failed:", err)
			c.JSON(http.StatusOK, gin.H{"status": doc.Status})
			return
		}

		switch status {
		case "processed":
			text, err := services.RetrieveWhisperText(doc.WhisperHash)
			if err != nil {
				log.Println("whisper retrieve failed:", err)
				c.JSON(http.StatusOK, gin.H{"status": doc.Status})
				return
			}
			if err := ctl.documents.MarkExtracted(doc.ID, text); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot save extracted text"})
				return
			}
			doc.Status = models.DocumentExtracted
			doc.ExtractedText = text
			ctl.broadcast(doc.ID, models.DocumentExtracted, "")
		case "failed":
			ctl.failDocument(doc, "OCR processing failed")
			doc.Status = models.DocumentFailed
		}
	}

	resp := gin.H{"status": doc.Status}
	if doc.Status == models.DocumentExtracted {
		resp["extracted_text"] = doc.ExtractedText
	}
	c.JSON(http.StatusOK, resp)
}

// DELETE /api/documents/:id
func (ctl *DocumentController) DeleteDocument(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	docID, ok := pathID(c)
	if !ok {
		return
	}

	doc, err := ctl.documents.GetDocument(docID, userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
			return
		}
		log.Println("error fetching document:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch document"})
		return
	}

	if err := utils.DeleteFileFromStorage(doc.FilePath); err != nil {
		// The row still goes away; orphaned objects are cleaned up out of band.
		log.Println("cannot delete storage object:", err)
	}

	if err := ctl.documents.DeleteDocument(docID, userID); err != nil {
		log.Println("error deleting document:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete document"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
