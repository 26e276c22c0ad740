package statefile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"rag-filesearch-be/internal/entity"
	"rag-filesearch-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func newTestRepo(t *testing.T) (*Repository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store_state.json")
	return NewRepository(path, logger.NewNopLogger()), path
}

func TestLoadMissingFileYieldsEmptyState(t *testing.T) {
	repo, _ := newTestRepo(t)

	assert.NoError(t, repo.Load())
	assert.False(t, repo.HasStore())
	assert.Equal(t, 0, repo.FileCount())
}

func TestLoadCorruptFileYieldsEmptyState(t *testing.T) {
	repo, path := newTestRepo(t)
	assert.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	assert.NoError(t, repo.Load())
	assert.False(t, repo.HasStore())
}

func TestStateRoundTrip(t *testing.T) {
	repo, path := newTestRepo(t)
	assert.NoError(t, repo.Load())

	assert.NoError(t, repo.SetStoreName("fileSearchStores/abc123"))
	assert.NoError(t, repo.AppendFile(entity.FileDescriptor{
		Filename:   "doc.txt",
		Size:       42,
		UploadedAt: "2025-01-02 03:04:05",
		CustomMetadata: entity.Metadata{
			"author": entity.StringValue("alice"),
			"year":   entity.NumberValue(2024),
		},
		FileAPIName: "files/xyz",
		DocumentID:  "fileSearchStores/abc123/documents/d1",
	}))

	// A fresh repository over the same path sees the same state.
	again := NewRepository(path, logger.NewNopLogger())
	assert.NoError(t, again.Load())
	assert.Equal(t, "fileSearchStores/abc123", again.StoreName())

	files := again.Files()
	assert.Len(t, files, 1)
	assert.Equal(t, "doc.txt", files[0].Filename)
	assert.Equal(t, entity.MetadataNumber, files[0].CustomMetadata["year"].Kind)
	assert.Equal(t, float64(2024), files[0].CustomMetadata["year"].Num)
}

func TestPersistedShape(t *testing.T) {
	repo, path := newTestRepo(t)
	assert.NoError(t, repo.Load())
	assert.NoError(t, repo.SetStoreName("fileSearchStores/abc"))

	data, err := os.ReadFile(path)
	assert.NoError(t, err)

	var raw map[string]json.RawMessage
	assert.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "store_name")
	assert.Contains(t, raw, "uploaded_files")
	assert.Equal(t, `"fileSearchStores/abc"`, string(raw["store_name"]))
	assert.Equal(t, "[]", string(raw["uploaded_files"]))
}

func TestRemoveFile(t *testing.T) {
	repo, _ := newTestRepo(t)
	assert.NoError(t, repo.Load())
	assert.NoError(t, repo.AppendFile(entity.FileDescriptor{Filename: "a.txt"}))
	assert.NoError(t, repo.AppendFile(entity.FileDescriptor{Filename: "b.txt"}))

	removed, err := repo.RemoveFile(0)
	assert.NoError(t, err)
	assert.Equal(t, "a.txt", removed.Filename)
	assert.Equal(t, 1, repo.FileCount())
	assert.Equal(t, "b.txt", repo.Files()[0].Filename)
}

func TestRemoveFileOutOfRange(t *testing.T) {
	repo, _ := newTestRepo(t)
	assert.NoError(t, repo.Load())
	assert.NoError(t, repo.AppendFile(entity.FileDescriptor{Filename: "a.txt"}))

	_, err := repo.RemoveFile(5)
	assert.Error(t, err)
	_, err = repo.RemoveFile(-1)
	assert.Error(t, err)
	assert.Equal(t, 1, repo.FileCount())
}

func TestClearStore(t *testing.T) {
	repo, path := newTestRepo(t)
	assert.NoError(t, repo.Load())
	assert.NoError(t, repo.SetStoreName("fileSearchStores/abc"))
	assert.NoError(t, repo.AppendFile(entity.FileDescriptor{Filename: "a.txt"}))

	assert.NoError(t, repo.ClearStore())
	assert.False(t, repo.HasStore())
	assert.Equal(t, 0, repo.FileCount())

	again := NewRepository(path, logger.NewNopLogger())
	assert.NoError(t, again.Load())
	assert.False(t, again.HasStore())
}
