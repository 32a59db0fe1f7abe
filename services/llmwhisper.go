package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
)

// Client for the LLMWhisperer v2 OCR API. A submitted document returns a job
// handle (whisper_hash); a separate status endpoint reports
// processing|processed|failed, and the retrieve endpoint returns the text
// once processed.

const defaultWhisperBaseURL = "https://llmwhisperer-api.us-central.unstract.com/api/v2"

func whisperBaseURL() string {
	if base := os.Getenv("LLMWHISPER_BASE_URL"); base != "" {
		return base
	}
	return defaultWhisperBaseURL
}

// WhisperConfigured reports whether the OCR service can be used.
func WhisperConfigured() bool {
	return os.Getenv("LLMWHISPER_API_KEY") != ""
}

func whisperRequest(method, rawURL string, body io.Reader) ([]byte, int, error) {
	req, err := http.NewRequest(method, rawURL, body)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("unstract-key", os.Getenv("LLMWHISPER_API_KEY"))
	if body != nil {
		req.Header.Set("Content-Type", "application/octet-stream")
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return data, resp.StatusCode, nil
}

// SubmitWhisperJob sends the raw document bytes and returns the job handle.
func SubmitWhisperJob(document []byte) (string, error) {
	data, status, err := whisperRequest(http.MethodPost, whisperBaseURL()+"/whisper", bytes.NewReader(document))
	if err != nil {
		return "", err
	}
	// The API answers 202 on accepted jobs.
	if status != http.StatusOK && status != http.StatusAccepted {
		return "", fmt.Errorf("whisper submit failed: status=%d body=%s", status, string(data))
	}

	var result struct {
		WhisperHash string `json:"whisper_hash"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("cannot parse whisper response: %w", err)
	}
	if result.WhisperHash == "" {
		return "", fmt.Errorf("whisper response missing whisper_hash: %s", string(data))
	}
	return result.WhisperHash, nil
}

// GetWhisperStatus returns the job status: processing, processed or failed.
func GetWhisperStatus(whisperHash string) (string, error) {
	endpoint := fmt.Sprintf("%s/whisper-status?whisper_hash=%s", whisperBaseURL(), url.QueryEscape(whisperHash))
	data, status, err := whisperRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("whisper status failed: status=%d body=%s", status, string(data))
	}

	var result struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("cannot parse whisper status: %w", err)
	}
	return result.Status, nil
}

// RetrieveWhisperText fetches the extracted text of a processed job.
func RetrieveWhisperText(whisperHash string) (string, error) {
	endpoint := fmt.Sprintf("%s/whisper-retrieve?whisper_hash=%s", whisperBaseURL(), url.QueryEscape(whisperHash))
	data, status, err := whisperRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("whisper retrieve failed: status=%d body=%s", status, string(data))
	}

	var result struct {
		ResultText string `json:"result_text"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("cannot parse whisper text: %w", err)
	}
	return result.ResultText, nil
}
