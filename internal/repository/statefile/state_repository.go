// Package statefile persists the store reference and file descriptor list
// as a single JSON snapshot. Every save rewrites the whole file; there are
// no partial or merge semantics.
package statefile

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"rag-filesearch-be/internal/entity"
	"rag-filesearch-be/internal/pkg/logger"
)

// snapshot is the on-disk format: {"store_name": string|null,
// "uploaded_files": [...]}.
type snapshot struct {
	StoreName     *string                 `json:"store_name"`
	UploadedFiles []entity.FileDescriptor `json:"uploaded_files"`
}

type Repository struct {
	path   string
	logger logger.ILogger

	mu        sync.RWMutex
	storeName string
	files     []entity.FileDescriptor
}

func NewRepository(path string, log logger.ILogger) *Repository {
	return &Repository{
		path:   path,
		logger: log,
	}
}

// Load reads the persisted snapshot. A missing file yields empty state; a
// corrupt one is logged and also yields empty state rather than failing
// startup.
func (r *Repository) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var state snapshot
	if err := json.Unmarshal(data, &state); err != nil {
		r.logger.Warn("StateFile", "Persisted state unreadable, starting empty", map[string]interface{}{
			"path":  r.path,
			"error": err.Error(),
		})
		r.storeName = ""
		r.files = nil
		return nil
	}

	if state.StoreName != nil {
		r.storeName = *state.StoreName
	}
	r.files = state.UploadedFiles
	return nil
}

// persist writes the full snapshot through a temp file and rename so a
// concurrent reader never observes a partial write. Caller holds r.mu.
func (r *Repository) persist() error {
	state := snapshot{UploadedFiles: r.files}
	if r.storeName != "" {
		name := r.storeName
		state.StoreName = &name
	}
	if state.UploadedFiles == nil {
		state.UploadedFiles = []entity.FileDescriptor{}
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}

func (r *Repository) StoreName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.storeName
}

func (r *Repository) HasStore() bool {
	return r.StoreName() != ""
}

func (r *Repository) SetStoreName(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storeName = name
	return r.persist()
}

// ClearStore drops the store reference and every descriptor.
func (r *Repository) ClearStore() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storeName = ""
	r.files = nil
	return r.persist()
}

// Files returns a copy of the descriptor list.
func (r *Repository) Files() []entity.FileDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.FileDescriptor, len(r.files))
	copy(out, r.files)
	return out
}

func (r *Repository) FileCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.files)
}

func (r *Repository) AppendFile(fd entity.FileDescriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, fd)
	return r.persist()
}

// RemoveFile deletes the descriptor at index and returns it. Out-of-range
// indices leave the list unchanged.
func (r *Repository) RemoveFile(index int) (entity.FileDescriptor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index < 0 || index >= len(r.files) {
		return entity.FileDescriptor{}, fmt.Errorf("file index %d out of range", index)
	}
	removed := r.files[index]
	r.files = append(r.files[:index], r.files[index+1:]...)
	if err := r.persist(); err != nil {
		return entity.FileDescriptor{}, err
	}
	return removed, nil
}
