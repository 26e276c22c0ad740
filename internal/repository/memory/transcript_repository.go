package memory

import (
	"sync"
	"time"

	"rag-filesearch-be/internal/constant"
	"rag-filesearch-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// The UI is single-user, so all turns live under one session key. A
// dormant transcript expires with the cache; it is never persisted.
const defaultSessionID = "default"

type TranscriptRepository struct {
	cache *cache.Cache

	// go-cache is safe per call, but Append is a read-modify-write.
	mu sync.Mutex
}

func NewTranscriptRepository() *TranscriptRepository {
	// Transcripts idle for a day are dropped; expired items purged every
	// 10 minutes.
	c := cache.New(24*time.Hour, 10*time.Minute)
	return &TranscriptRepository{
		cache: c,
	}
}

func (r *TranscriptRepository) entries() []entity.TranscriptEntry {
	if x, found := r.cache.Get(defaultSessionID); found {
		return x.([]entity.TranscriptEntry)
	}
	return nil
}

// Append adds a turn, truncates to the transcript bound (oldest dropped),
// and returns the resulting length.
func (r *TranscriptRepository) Append(entry entity.TranscriptEntry) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := append(r.entries(), entry)
	if len(entries) > constant.MaxTranscriptEntries {
		entries = entries[len(entries)-constant.MaxTranscriptEntries:]
	}
	r.cache.Set(defaultSessionID, entries, cache.DefaultExpiration)
	return len(entries)
}

// Entries returns a copy of the transcript, oldest first.
func (r *TranscriptRepository) Entries() []entity.TranscriptEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.entries()
	out := make([]entity.TranscriptEntry, len(entries))
	copy(out, entries)
	return out
}

// Window returns a copy of the most recent n entries, oldest first.
func (r *TranscriptRepository) Window(n int) []entity.TranscriptEntry {
	entries := r.Entries()
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries
}

func (r *TranscriptRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries())
}

func (r *TranscriptRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Delete(defaultSessionID)
}
