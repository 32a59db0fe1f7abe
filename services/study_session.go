package services

import (
	"errors"
	"math"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/hmnguyen/flashdeck-backend/models"
)

// SessionState is the phase a study session is in.
type SessionState int

const (
	StateNotStarted SessionState = iota
	StateInProgress              // current card shown, awaiting an answer
	StateAnswerRevealed
	StateCompleted
)

var (
	ErrEmptyDeck   = errors.New("deck has no flashcards")
	ErrBlankAnswer = errors.New("answer is blank")
	ErrBadState    = errors.New("operation not valid in current state")
)

// ProgressRecorder receives study progress as a session advances.
// *DeckService satisfies it.
type ProgressRecorder interface {
	RecordProgressTick(deckID uuid.UUID, progress int) (*models.Deck, error)
	RecordSessionCompletion(deckID uuid.UUID, accuracy int) (*models.Deck, error)
}

// StudySession drives one linear pass over a deck's flashcards. Answers are
// graded by case-insensitive exact match against the card term. Not safe for
// concurrent use; one session belongs to one user.
type StudySession struct {
	deckID   uuid.UUID
	original []models.Flashcard
	cards    []models.Flashcard
	recorder ProgressRecorder

	state       SessionState
	index       int
	correct     int
	answered    map[uuid.UUID]bool
	lastCorrect bool
	finalScore  int
}

// NewStudySession builds a session over the deck's flashcards. A deck with no
// cards short-circuits to ErrEmptyDeck before any state is set up.
func NewStudySession(deck *models.Deck, recorder ProgressRecorder) (*StudySession, error) {
	if deck == nil || len(deck.Flashcards) == 0 {
		return nil, ErrEmptyDeck
	}

	original := make([]models.Flashcard, len(deck.Flashcards))
	copy(original, deck.Flashcards)
	cards := make([]models.Flashcard, len(original))
	copy(cards, original)

	return &StudySession{
		deckID:   deck.ID,
		original: original,
		cards:    cards,
		recorder: recorder,
		state:    StateNotStarted,
		answered: map[uuid.UUID]bool{},
	}, nil
}

// Start moves the session onto the first card.
func (s *StudySession) Start() error {
	if s.state != StateNotStarted {
		return ErrBadState
	}
	s.state = StateInProgress
	return nil
}

// Current returns the card being studied.
func (s *StudySession) Current() *models.Flashcard {
	return &s.cards[s.index]
}

// Submit grades the answer against the current card without advancing.
// The answer is trimmed and compared case-insensitively against the term as
// stored; no fuzzy matching, no partial credit.
func (s *StudySession) Submit(answer string) (bool, error) {
	if s.state != StateInProgress {
		return false, ErrBadState
	}
	trimmed := strings.TrimSpace(answer)
	if trimmed == "" {
		return false, ErrBlankAnswer
	}

	s.lastCorrect = strings.EqualFold(trimmed, s.Current().Term)
	s.state = StateAnswerRevealed
	return s.lastCorrect, nil
}

// Next records the revealed card's result and advances. Mid-deck it pushes a
// progress-only tick; on the last card it pushes the completion update with
// the final accuracy instead, and the session ends. Recorder failures are
// returned but the session state has already advanced, mirroring a client
// that keeps studying when a progress write fails.
func (s *StudySession) Next() error {
	if s.state != StateAnswerRevealed {
		return ErrBadState
	}

	// Cards lacking an id cannot be keyed into the answered map; grading
	// still counts them toward the score.
	cardsAnswered := len(s.answered) + 1
	if id := s.Current().ID; id != uuid.Nil {
		s.answered[id] = s.lastCorrect
	}
	if s.lastCorrect {
		s.correct++
	}

	total := len(s.cards)
	if s.index < total-1 {
		s.index++
		s.state = StateInProgress
		progress := int(math.Round(float64(cardsAnswered) / float64(total) * 100))
		_, err := s.recorder.RecordProgressTick(s.deckID, progress)
		return err
	}

	s.finalScore = int(math.Round(float64(s.correct) / float64(total) * 100))
	s.state = StateCompleted
	_, err := s.recorder.RecordSessionCompletion(s.deckID, s.finalScore)
	return err
}

// Shuffle permutes the not-yet-answered cards in place while answered cards
// keep their positions, so a user's sense of progress is not disrupted
// mid-session.
func (s *StudySession) Shuffle() {
	var openIdx []int
	var open []models.Flashcard
	for i, card := range s.cards {
		if card.ID == uuid.Nil {
			continue
		}
		if _, done := s.answered[card.ID]; !done {
			openIdx = append(openIdx, i)
			open = append(open, card)
		}
	}

	rand.Shuffle(len(open), func(i, j int) {
		open[i], open[j] = open[j], open[i]
	})
	for k, pos := range openIdx {
		s.cards[pos] = open[k]
	}
}

// Restart throws away all per-session state and returns to the beginning.
// Persisted deck progress and accuracy are left alone; they stand until the
// next completed session overwrites them.
func (s *StudySession) Restart() {
	s.state = StateNotStarted
	s.index = 0
	s.correct = 0
	s.answered = map[uuid.UUID]bool{}
	s.lastCorrect = false
	s.finalScore = 0
	copy(s.cards, s.original)
}

func (s *StudySession) State() SessionState { return s.state }
func (s *StudySession) TotalCards() int     { return len(s.cards) }
func (s *StudySession) CorrectAnswers() int { return s.correct }
func (s *StudySession) FinalScore() int     { return s.finalScore }

// Progress is the share of cards answered so far, in percent.
func (s *StudySession) Progress() float64 {
	if len(s.cards) == 0 {
		return 0
	}
	return float64(len(s.answered)) / float64(len(s.cards)) * 100
}
