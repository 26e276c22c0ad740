package memory

import (
	"fmt"
	"testing"

	"rag-filesearch-be/internal/constant"
	"rag-filesearch-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func userTurn(text string) entity.TranscriptEntry {
	return entity.TranscriptEntry{Role: constant.ChatMessageRoleUser, Content: text}
}

func TestAppendReturnsLength(t *testing.T) {
	repo := NewTranscriptRepository()

	assert.Equal(t, 1, repo.Append(userTurn("one")))
	assert.Equal(t, 2, repo.Append(userTurn("two")))
	assert.Equal(t, 2, repo.Len())
}

func TestTranscriptBound(t *testing.T) {
	repo := NewTranscriptRepository()

	for i := 0; i < constant.MaxTranscriptEntries+3; i++ {
		repo.Append(userTurn(fmt.Sprintf("turn %d", i)))
	}

	entries := repo.Entries()
	assert.Len(t, entries, constant.MaxTranscriptEntries)
	// Oldest turns were dropped; turn 3 is now first.
	assert.Equal(t, "turn 3", entries[0].Content)
	assert.Equal(t, fmt.Sprintf("turn %d", constant.MaxTranscriptEntries+2), entries[len(entries)-1].Content)
}

func TestWindow(t *testing.T) {
	repo := NewTranscriptRepository()
	repo.Append(userTurn("a"))
	repo.Append(userTurn("b"))
	repo.Append(userTurn("c"))

	window := repo.Window(2)
	assert.Len(t, window, 2)
	assert.Equal(t, "b", window[0].Content)
	assert.Equal(t, "c", window[1].Content)

	// Asking for more than exists returns everything.
	assert.Len(t, repo.Window(10), 3)
}

func TestClear(t *testing.T) {
	repo := NewTranscriptRepository()
	repo.Append(userTurn("a"))
	repo.Clear()

	assert.Equal(t, 0, repo.Len())
	assert.Empty(t, repo.Entries())
}

func TestEntriesReturnsCopy(t *testing.T) {
	repo := NewTranscriptRepository()
	repo.Append(userTurn("original"))

	entries := repo.Entries()
	entries[0].Content = "mutated"

	assert.Equal(t, "original", repo.Entries()[0].Content)
}
