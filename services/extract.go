package services

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/ledongthuc/pdf"
)

// ExtractTextFromPDF parses the PDF locally and concatenates the plain text
// of every page. Used as the fallback when no OCR service is configured.
func ExtractTextFromPDF(file multipart.File) (string, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(file); err != nil {
		return "", fmt.Errorf("cannot read PDF: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		return "", fmt.Errorf("cannot open PDF reader: %w", err)
	}

	var text bytes.Buffer
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text.WriteString(content)
	}

	return text.String(), nil
}

// ExtractTextFromTXT reads a plain-text upload as-is.
func ExtractTextFromTXT(fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(file); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ExtractTextLocal dispatches local extraction by file type.
func ExtractTextLocal(fileHeader *multipart.FileHeader, fileType string) (string, error) {
	switch fileType {
	case "pdf":
		f, err := fileHeader.Open()
		if err != nil {
			return "", err
		}
		defer f.Close()
		return ExtractTextFromPDF(f)
	case "txt":
		return ExtractTextFromTXT(fileHeader)
	default:
		return "", errors.New("unsupported file type: " + fileType)
	}
}
