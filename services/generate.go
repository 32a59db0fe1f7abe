package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeneratedCard is one term/definition pair returned by the model.
type GeneratedCard struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// GeneratedDeck is the structured output of flashcard generation.
type GeneratedDeck struct {
	Title      string          `json:"title"`
	Flashcards []GeneratedCard `json:"flashcards"`
}

const generatePrompt = `You are a study assistant. Generate JSON data strictly in this format:

{
  "title": string,
  "flashcards": [
    {"term": string, "definition": string}
  ]
}

Strictly follow these instructions:
1. Set "title" to a concise summary or main topic of the given text.
2. Build "flashcards" by extracting key terms and their definitions from the text.
3. Each flashcard has exactly two fields: "term" and "definition".
4. Use the original text as much as possible; you may lightly rephrase ambiguous content into clear term-definition pairs.
5. If the text contains multiple key concepts, generate one flashcard per concept.
6. Return valid JSON only, with no commentary or markdown outside the structure.
7. If a value is undefined, use an empty string.

Text:
%s`

// geminiGenerateText sends one prompt to Gemini and returns the raw reply.
func geminiGenerateText(prompt string) (string, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, option.WithAPIKey(os.Getenv("GEMINI_API_KEY")))
	if err != nil {
		return "", fmt.Errorf("cannot create Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash")
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini returned no usable candidates")
	}
	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}

// SplitTextIntoChunks breaks long text into rune chunks so a single request
// stays under the model's token limit.
func SplitTextIntoChunks(text string, maxLen int) []string {
	var chunks []string
	runes := []rune(text)
	for i := 0; i < len(runes); i += maxLen {
		end := i + maxLen
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

// stripCodeFences removes a markdown ```json wrapper the model sometimes adds.
func stripCodeFences(raw string) string {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

// GenerateFlashcardDeck turns extracted text into a titled deck of flashcards.
// Long text is chunked; each chunk gets up to 3 attempts. The title comes from
// the first chunk that parses; chunks that keep failing are skipped rather
// than failing the whole generation.
func GenerateFlashcardDeck(text string) (*GeneratedDeck, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, errors.New("no text to generate from")
	}

	chunks := SplitTextIntoChunks(trimmed, 3000)
	result := &GeneratedDeck{}

	for idx, chunk := range chunks {
		prompt := fmt.Sprintf(generatePrompt, chunk)

		var raw string
		var err error
		for try := 0; try < 3; try++ {
			raw, err = geminiGenerateText(prompt)
			if err == nil {
				break
			}
			time.Sleep(time.Duration(try+1) * time.Second)
		}
		if err != nil {
			log.Printf("gemini failed on chunk %d: %v", idx+1, err)
			continue
		}

		var parsed GeneratedDeck
		if err := json.Unmarshal([]byte(stripCodeFences(raw)), &parsed); err != nil {
			log.Printf("cannot parse gemini JSON on chunk %d: %v", idx+1, err)
			continue
		}

		if result.Title == "" {
			result.Title = parsed.Title
		}
		for _, card := range parsed.Flashcards {
			if card.Term == "" || card.Definition == "" {
				continue
			}
			result.Flashcards = append(result.Flashcards, card)
		}
	}

	if len(result.Flashcards) == 0 {
		return nil, errors.New("no flashcards could be generated")
	}
	if result.Title == "" {
		result.Title = "Untitled deck"
	}
	return result, nil
}
