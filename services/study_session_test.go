package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmnguyen/flashdeck-backend/models"
)

// recorderStub captures the study updates a session pushes.
type recorderStub struct {
	ticks       []int
	completions []int
}

func (r *recorderStub) RecordProgressTick(deckID uuid.UUID, progress int) (*models.Deck, error) {
	r.ticks = append(r.ticks, progress)
	return nil, nil
}

func (r *recorderStub) RecordSessionCompletion(deckID uuid.UUID, accuracy int) (*models.Deck, error) {
	r.completions = append(r.completions, accuracy)
	return nil, nil
}

func capitalsDeck() *models.Deck {
	return &models.Deck{
		ID: uuid.New(),
		Flashcards: []models.Flashcard{
			{ID: uuid.New(), Term: "Paris", Definition: "Capital of France"},
			{ID: uuid.New(), Term: "Berlin", Definition: "Capital of Germany"},
			{ID: uuid.New(), Term: "Madrid", Definition: "Capital of Spain"},
		},
	}
}

func TestNewStudySessionEmptyDeck(t *testing.T) {
	_, err := NewStudySession(&models.Deck{ID: uuid.New()}, &recorderStub{})
	assert.ErrorIs(t, err, ErrEmptyDeck)

	_, err = NewStudySession(nil, &recorderStub{})
	assert.ErrorIs(t, err, ErrEmptyDeck)
}

func TestStudySessionScoring(t *testing.T) {
	rec := &recorderStub{}
	session, err := NewStudySession(capitalsDeck(), rec)
	require.NoError(t, err)
	require.NoError(t, session.Start())

	// Case and surrounding whitespace do not matter.
	correct, err := session.Submit("  paris ")
	require.NoError(t, err)
	assert.True(t, correct)
	require.NoError(t, session.Next())

	correct, err = session.Submit("Rome")
	require.NoError(t, err)
	assert.False(t, correct)
	require.NoError(t, session.Next())

	correct, err = session.Submit("MADRID")
	require.NoError(t, err)
	assert.True(t, correct)
	require.NoError(t, session.Next())

	assert.Equal(t, StateCompleted, session.State())
	assert.Equal(t, 2, session.CorrectAnswers())
	assert.Equal(t, 67, session.FinalScore())

	// Two mid-deck ticks, then a single completion carrying the score.
	assert.Equal(t, []int{33, 67}, rec.ticks)
	assert.Equal(t, []int{67}, rec.completions)
	assert.InDelta(t, 100.0, session.Progress(), 0.001)
}

func TestSubmitTrimsAnswerOnly(t *testing.T) {
	deck := &models.Deck{
		ID: uuid.New(),
		Flashcards: []models.Flashcard{
			{ID: uuid.New(), Term: "Paris ", Definition: "Capital of France"},
		},
	}
	session, err := NewStudySession(deck, &recorderStub{})
	require.NoError(t, err)
	require.NoError(t, session.Start())

	// The term is compared as stored; a trailing space in the card makes the
	// clean answer wrong.
	correct, err := session.Submit("Paris")
	require.NoError(t, err)
	assert.False(t, correct)
}

func TestStudySessionBlankAnswer(t *testing.T) {
	session, err := NewStudySession(capitalsDeck(), &recorderStub{})
	require.NoError(t, err)
	require.NoError(t, session.Start())

	_, err = session.Submit("   ")
	assert.ErrorIs(t, err, ErrBlankAnswer)
	assert.Equal(t, StateInProgress, session.State())
}

func TestStudySessionStateGuards(t *testing.T) {
	session, err := NewStudySession(capitalsDeck(), &recorderStub{})
	require.NoError(t, err)

	_, err = session.Submit("Paris")
	assert.ErrorIs(t, err, ErrBadState)
	assert.ErrorIs(t, session.Next(), ErrBadState)

	require.NoError(t, session.Start())
	assert.ErrorIs(t, session.Start(), ErrBadState)
	assert.ErrorIs(t, session.Next(), ErrBadState)

	_, err = session.Submit("Paris")
	require.NoError(t, err)
	_, err = session.Submit("Paris")
	assert.ErrorIs(t, err, ErrBadState)
}

func TestShuffleKeepsAnsweredCardsInPlace(t *testing.T) {
	session, err := NewStudySession(capitalsDeck(), &recorderStub{})
	require.NoError(t, err)
	require.NoError(t, session.Start())

	_, err = session.Submit("Paris")
	require.NoError(t, err)
	require.NoError(t, session.Next())

	for i := 0; i < 20; i++ {
		session.Shuffle()
		assert.Equal(t, "Paris", session.cards[0].Term)
	}

	// Remaining cards are permuted, never lost.
	terms := map[string]bool{}
	for _, card := range session.cards {
		terms[card.Term] = true
	}
	assert.Len(t, terms, 3)
}

func TestStudySessionRestart(t *testing.T) {
	rec := &recorderStub{}
	deck := capitalsDeck()
	session, err := NewStudySession(deck, rec)
	require.NoError(t, err)
	require.NoError(t, session.Start())

	for _, answer := range []string{"Paris", "Berlin", "Madrid"} {
		_, err := session.Submit(answer)
		require.NoError(t, err)
		require.NoError(t, session.Next())
	}
	require.Equal(t, StateCompleted, session.State())
	require.Equal(t, 100, session.FinalScore())

	session.Restart()

	assert.Equal(t, StateNotStarted, session.State())
	assert.Zero(t, session.CorrectAnswers())
	assert.Zero(t, session.FinalScore())
	assert.Zero(t, session.Progress())
	for i, card := range deck.Flashcards {
		assert.Equal(t, card.Term, session.cards[i].Term)
	}

	// A fresh pass records a fresh completion.
	require.NoError(t, session.Start())
	for _, answer := range []string{"Paris", "Berlin", "Madrid"} {
		_, err := session.Submit(answer)
		require.NoError(t, err)
		require.NoError(t, session.Next())
	}
	assert.Equal(t, []int{100, 100}, rec.completions)
}

func TestStudySessionSingleCardDeck(t *testing.T) {
	rec := &recorderStub{}
	deck := &models.Deck{
		ID: uuid.New(),
		Flashcards: []models.Flashcard{
			{ID: uuid.New(), Term: "Paris", Definition: "Capital of France"},
		},
	}
	session, err := NewStudySession(deck, rec)
	require.NoError(t, err)
	require.NoError(t, session.Start())

	_, err = session.Submit("Lyon")
	require.NoError(t, err)
	require.NoError(t, session.Next())

	// No mid-deck tick on a single card, just the completion.
	assert.Empty(t, rec.ticks)
	assert.Equal(t, []int{0}, rec.completions)
	assert.Equal(t, StateCompleted, session.State())
}
