package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"rag-filesearch-be/internal/apperr"
	"rag-filesearch-be/internal/dto"
	"rag-filesearch-be/internal/entity"
	"rag-filesearch-be/internal/pkg/logger"
	"rag-filesearch-be/pkg/filesearch"

	"github.com/stretchr/testify/assert"
)

// fakeBackend stubs the full upload→import→poll surface.
type fakeBackend struct {
	srv *httptest.Server

	calls       int64
	importBody  []byte
	opsPolled   int64
	opDone      bool
	importFails bool
	opFails     bool
	deleted     []string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{opDone: true}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&b.calls, 1)
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1beta/fileSearchStores":
			json.NewEncoder(w).Encode(filesearch.Store{Name: "fileSearchStores/abc"})

		case r.Method == http.MethodPost && r.URL.Path == "/upload/v1beta/files":
			w.Header().Set("X-Goog-Upload-URL", b.srv.URL+"/upload-session")
			w.WriteHeader(http.StatusOK)

		case r.URL.Path == "/upload-session":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"file": filesearch.File{Name: "files/xyz"},
			})

		case strings.HasSuffix(r.URL.Path, ":importFile"):
			if b.importFails {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":{"message":"import exploded"}}`))
				return
			}
			b.importBody, _ = io.ReadAll(r.Body)
			json.NewEncoder(w).Encode(filesearch.Operation{Name: "operations/op1"})

		case r.Method == http.MethodGet && r.URL.Path == "/v1beta/operations/op1":
			atomic.AddInt64(&b.opsPolled, 1)
			op := filesearch.Operation{Name: "operations/op1", Done: b.opDone}
			if b.opDone {
				if b.opFails {
					op.Error = &filesearch.OperationError{Code: 13, Message: "indexing failed"}
				} else {
					op.Response = &filesearch.OperationResponse{Name: "fileSearchStores/abc/documents/d1"}
				}
			}
			json.NewEncoder(w).Encode(op)

		case r.Method == http.MethodDelete:
			b.deleted = append(b.deleted, strings.TrimPrefix(r.URL.Path, "/v1beta/"))
			w.WriteHeader(http.StatusOK)

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func TestUploadValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     *dto.UploadRequest
		wantMsg string
	}{
		{
			name:    "no file",
			req:     &dto.UploadRequest{},
			wantMsg: "No file provided",
		},
		{
			name:    "empty file",
			req:     &dto.UploadRequest{Filename: "doc.txt", Content: strings.NewReader("")},
			wantMsg: "No file selected",
		},
		{
			name:    "oversized file",
			req:     &dto.UploadRequest{Filename: "doc.txt", Size: 4096, Content: strings.NewReader("x")},
			wantMsg: "byte limit",
		},
		{
			name:    "unsupported extension",
			req:     &dto.UploadRequest{Filename: "malware.exe", Size: 10, Content: strings.NewReader("x")},
			wantMsg: "File type not supported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend(t)
			cfg := testConfig(t)
			cfg.FileSearch.BaseURL = backend.srv.URL
			state := testStateRepo(t, cfg)
			svc := NewUploadService(cfg, filesearch.NewClient("k", filesearch.WithBaseURL(backend.srv.URL)), state, nil, logger.NewNopLogger())

			_, err := svc.Upload(context.Background(), tt.req)

			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
			// Rejected before any external call.
			assert.Equal(t, int64(0), atomic.LoadInt64(&backend.calls))
			assert.Equal(t, 0, state.FileCount())
		})
	}
}

func TestUploadSuccess(t *testing.T) {
	backend := newFakeBackend(t)
	cfg := testConfig(t)
	state := testStateRepo(t, cfg)
	svc := NewUploadService(cfg, filesearch.NewClient("k", filesearch.WithBaseURL(backend.srv.URL)), state, nil, logger.NewNopLogger())

	res, err := svc.Upload(context.Background(), &dto.UploadRequest{
		Filename: "doc.txt",
		Size:     11,
		Content:  strings.NewReader("hello world"),
		Metadata: entity.Metadata{
			"author": entity.StringValue("alice"),
			"year":   entity.NumberValue(2024),
		},
		Chunking: &dto.ChunkingConfigRequest{Enabled: true},
	})
	assert.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "doc.txt", res.Filename)
	assert.Equal(t, "fileSearchStores/abc", res.StoreName)
	assert.Equal(t, "fileSearchStores/abc/documents/d1", res.DocumentID)
	assert.Len(t, res.UploadedFiles, 1)

	// Store was created lazily and persisted.
	assert.Equal(t, "fileSearchStores/abc", state.StoreName())
	files := state.Files()
	assert.Len(t, files, 1)
	assert.Equal(t, "files/xyz", files[0].FileAPIName)
	assert.Equal(t, entity.MetadataNumber, files[0].CustomMetadata["year"].Kind)
	assert.NotNil(t, files[0].ChunkingConfig)
	assert.Equal(t, 200, files[0].ChunkingConfig.MaxTokensPerChunk)
	assert.Equal(t, 20, files[0].ChunkingConfig.MaxOverlapTokens)

	// Import carried the metadata union and chunking knobs on the wire.
	body := string(backend.importBody)
	assert.Contains(t, body, `"fileName":"files/xyz"`)
	assert.Contains(t, body, `"stringValue":"alice"`)
	assert.Contains(t, body, `"numericValue":2024`)
	assert.Contains(t, body, "whiteSpaceConfig")

	assert.Empty(t, backend.deleted)
}

func TestUploadReusesExistingStore(t *testing.T) {
	backend := newFakeBackend(t)
	cfg := testConfig(t)
	state := testStateRepo(t, cfg)
	assert.NoError(t, state.SetStoreName("fileSearchStores/existing"))
	svc := NewUploadService(cfg, filesearch.NewClient("k", filesearch.WithBaseURL(backend.srv.URL)), state, nil, logger.NewNopLogger())

	res, err := svc.Upload(context.Background(), &dto.UploadRequest{
		Filename: "notes.md",
		Size:     5,
		Content:  strings.NewReader("notes"),
	})
	assert.NoError(t, err)
	assert.Equal(t, "fileSearchStores/existing", res.StoreName)
	assert.Equal(t, "fileSearchStores/existing", state.StoreName())
}

func TestUploadImportFailureDeletesOrphan(t *testing.T) {
	backend := newFakeBackend(t)
	backend.importFails = true
	cfg := testConfig(t)
	state := testStateRepo(t, cfg)
	svc := NewUploadService(cfg, filesearch.NewClient("k", filesearch.WithBaseURL(backend.srv.URL)), state, nil, logger.NewNopLogger())

	_, err := svc.Upload(context.Background(), &dto.UploadRequest{
		Filename: "doc.txt",
		Size:     11,
		Content:  strings.NewReader("hello world"),
	})

	assert.Equal(t, apperr.KindExternal, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "Error importing file")
	assert.Equal(t, []string{"files/xyz"}, backend.deleted)
	assert.Equal(t, 0, state.FileCount())
}

func TestUploadOperationErrorDeletesOrphan(t *testing.T) {
	backend := newFakeBackend(t)
	backend.opFails = true
	cfg := testConfig(t)
	state := testStateRepo(t, cfg)
	svc := NewUploadService(cfg, filesearch.NewClient("k", filesearch.WithBaseURL(backend.srv.URL)), state, nil, logger.NewNopLogger())

	_, err := svc.Upload(context.Background(), &dto.UploadRequest{
		Filename: "doc.txt",
		Size:     11,
		Content:  strings.NewReader("hello world"),
	})

	assert.Equal(t, apperr.KindExternal, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "indexing failed")
	assert.Equal(t, []string{"files/xyz"}, backend.deleted)
}

func TestUploadTimeoutLeavesFileOnService(t *testing.T) {
	backend := newFakeBackend(t)
	backend.opDone = false
	cfg := testConfig(t)
	cfg.FileSearch.PollTimeout = 30 * time.Millisecond
	state := testStateRepo(t, cfg)
	svc := NewUploadService(cfg, filesearch.NewClient("k", filesearch.WithBaseURL(backend.srv.URL)), state, nil, logger.NewNopLogger())

	_, err := svc.Upload(context.Background(), &dto.UploadRequest{
		Filename: "doc.txt",
		Size:     11,
		Content:  strings.NewReader("hello world"),
	})

	assert.Equal(t, apperr.KindTimeout, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "may still be processing in the background")
	// The import may still finish server-side, so no cleanup on timeout.
	assert.Empty(t, backend.deleted)
	assert.Equal(t, 0, state.FileCount())
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain name", input: "doc.txt", want: "doc.txt"},
		{name: "path traversal", input: "../../etc/passwd", want: "passwd"},
		{name: "windows path", input: `C:\temp\doc.txt`, want: "doc.txt"},
		{name: "spaces and specials", input: "my report (final).pdf", want: "my_report__final_.pdf"},
		{name: "dots trimmed", input: "...", want: "upload"},
		{name: "empty", input: "", want: "upload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.input); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
