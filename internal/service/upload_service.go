package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rag-filesearch-be/internal/apperr"
	"rag-filesearch-be/internal/config"
	"rag-filesearch-be/internal/dto"
	"rag-filesearch-be/internal/entity"
	"rag-filesearch-be/internal/pkg/logger"
	"rag-filesearch-be/internal/repository/statefile"
	"rag-filesearch-be/pkg/events"
	"rag-filesearch-be/pkg/filesearch"

	"github.com/google/uuid"
)

var allowedExtensions = map[string]bool{
	".txt": true, ".pdf": true, ".doc": true, ".docx": true,
	".json": true, ".md": true, ".py": true, ".js": true,
	".html": true, ".css": true, ".xml": true, ".csv": true,
}

const (
	defaultMaxTokensPerChunk = 200
	defaultMaxOverlapTokens  = 20
)

// IUploadService validates, forwards and tracks file uploads.
type IUploadService interface {
	Upload(ctx context.Context, req *dto.UploadRequest) (*dto.UploadResponse, error)
}

type uploadService struct {
	cfg    *config.Config
	fs     *filesearch.Client
	state  *statefile.Repository
	bus    *events.Bus
	logger logger.ILogger
}

func NewUploadService(
	cfg *config.Config,
	fs *filesearch.Client,
	state *statefile.Repository,
	bus *events.Bus,
	log logger.ILogger,
) IUploadService {
	return &uploadService{
		cfg:    cfg,
		fs:     fs,
		state:  state,
		bus:    bus,
		logger: log,
	}
}

// Upload runs the two-step upload→import sequence against the external
// service and records a descriptor once the import operation completes.
// Validation failures return before any external call is made.
func (s *uploadService) Upload(ctx context.Context, req *dto.UploadRequest) (*dto.UploadResponse, error) {
	if req.Filename == "" || req.Content == nil {
		return nil, apperr.Validationf("No file provided")
	}
	if req.Size == 0 {
		return nil, apperr.Validationf("No file selected")
	}
	if req.Size > s.cfg.FileSearch.MaxFileSize {
		return nil, apperr.Validationf("File exceeds the %d byte limit", s.cfg.FileSearch.MaxFileSize)
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(req.Filename))] {
		return nil, apperr.Validationf("File type not supported")
	}

	filename := SanitizeFilename(req.Filename)

	// Persist the payload to a scratch location; removed on every exit path.
	scratchPath, size, err := s.writeScratchFile(filename, req.Content)
	if err != nil {
		return nil, fmt.Errorf("saving upload: %w", err)
	}
	defer func() {
		if err := os.Remove(scratchPath); err != nil {
			s.logger.Warn("Upload", "Could not remove scratch file", map[string]interface{}{
				"path":  scratchPath,
				"error": err.Error(),
			})
		}
	}()

	s.logger.Info("Upload", "File saved", map[string]interface{}{"filename": filename, "size": size})

	// Lazily create the store on first use.
	storeName := s.state.StoreName()
	if storeName == "" {
		s.logger.Info("Upload", "Creating new file search store", nil)
		store, err := s.fs.CreateStore(ctx, s.cfg.FileSearch.StoreDisplayName)
		if err != nil {
			return nil, apperr.External("Error creating file search store", err)
		}
		storeName = store.Name
		if err := s.state.SetStoreName(storeName); err != nil {
			s.logger.Error("Upload", "Error saving state", map[string]interface{}{"error": err.Error()})
		}
	}

	// STEP 1: upload the raw bytes to the Files endpoint.
	apiFile, err := s.fs.UploadFile(ctx, scratchPath, filename)
	if err != nil {
		return nil, apperr.External("Error uploading file", err)
	}

	// STEP 2: import the uploaded file into the store.
	op, err := s.fs.ImportFile(ctx, storeName, apiFile.Name, toCustomMetadata(req.Metadata), toChunkingConfig(req.Chunking))
	if err != nil {
		s.deleteOrphanedFile(apiFile.Name)
		return nil, apperr.External("Error importing file", err)
	}

	documentID, err := s.awaitImport(ctx, op.Name, filename)
	if err != nil {
		if apperr.KindOf(err) != apperr.KindTimeout {
			// The import may still finish server-side after a timeout, so
			// the orphan is only cleaned up on a definitive failure.
			s.deleteOrphanedFile(apiFile.Name)
			s.publish(events.NewFileImportFailed(filename, err.Error()))
		}
		return nil, err
	}

	descriptor := entity.FileDescriptor{
		Filename:       filename,
		Size:           size,
		UploadedAt:     time.Now().Format("2006-01-02 15:04:05"),
		CustomMetadata: req.Metadata,
		ChunkingConfig: descriptorChunking(req.Chunking),
		FileAPIName:    apiFile.Name,
		DocumentID:     documentID,
	}
	if err := s.state.AppendFile(descriptor); err != nil {
		s.logger.Error("Upload", "Error saving state", map[string]interface{}{"error": err.Error()})
	}

	s.publish(events.NewFileImported(filename, documentID))
	s.logger.Info("Upload", "File uploaded and imported", map[string]interface{}{
		"filename":    filename,
		"document_id": documentID,
	})

	return &dto.UploadResponse{
		Success:       true,
		Message:       fmt.Sprintf("File %q uploaded and processed successfully", filename),
		Filename:      filename,
		FileSize:      size,
		StoreName:     storeName,
		DocumentID:    documentID,
		UploadedFiles: s.state.Files(),
	}, nil
}

// awaitImport polls the import operation to completion under the
// configured ceiling, emitting progress events along the way.
func (s *uploadService) awaitImport(ctx context.Context, opName, filename string) (string, error) {
	pollCtx, cancel := context.WithTimeout(ctx, s.cfg.FileSearch.PollTimeout)
	defer cancel()

	var lastProgress time.Duration
	op, err := s.fs.WaitForOperation(pollCtx, opName, s.cfg.FileSearch.PollInterval, func(elapsed time.Duration) {
		if elapsed-lastProgress < s.cfg.FileSearch.ProgressInterval {
			return
		}
		lastProgress = elapsed
		s.logger.Info("Upload", "Still waiting for import", map[string]interface{}{
			"filename":        filename,
			"elapsed_seconds": int(elapsed.Seconds()),
		})
		s.publish(events.NewFileImportProgress(filename, elapsed))
	})
	if err != nil {
		if errors.Is(err, filesearch.ErrOperationTimeout) {
			seconds := int(s.cfg.FileSearch.PollTimeout.Seconds())
			return "", apperr.Timeoutf("File processing timeout after %d seconds. The file may still be processing in the background.", seconds)
		}
		return "", apperr.External("Error importing file", err)
	}
	if op.Error != nil {
		return "", apperr.External("Error importing file", fmt.Errorf("operation failed: %s", op.Error.Message))
	}

	if op.Response != nil {
		return op.Response.Name, nil
	}
	return "", nil
}

func (s *uploadService) writeScratchFile(filename string, content io.Reader) (string, int64, error) {
	if err := os.MkdirAll(s.cfg.App.UploadDir, 0755); err != nil {
		return "", 0, err
	}
	scratchPath := filepath.Join(s.cfg.App.UploadDir, uuid.New().String()+"_"+filename)

	dst, err := os.Create(scratchPath)
	if err != nil {
		return "", 0, err
	}
	size, err := io.Copy(dst, content)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(scratchPath)
		return "", 0, err
	}
	return scratchPath, size, nil
}

// deleteOrphanedFile removes the raw uploaded file after a failed import.
// Best effort: a cleanup failure is logged, never surfaced.
func (s *uploadService) deleteOrphanedFile(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.fs.DeleteFile(ctx, name); err != nil {
		s.logger.Warn("Upload", "Could not delete orphaned file", map[string]interface{}{
			"file":  name,
			"error": err.Error(),
		})
	}
}

func (s *uploadService) publish(evt events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(context.Background(), evt); err != nil {
		s.logger.Warn("Upload", "Failed to publish event", map[string]interface{}{
			"event": evt.EventType(),
			"error": err.Error(),
		})
	}
}

// SanitizeFilename reduces a client-supplied filename to a safe base name,
// defending against path traversal.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		out = "upload"
	}
	return out
}

func toCustomMetadata(metadata entity.Metadata) []*filesearch.CustomMetadata {
	if len(metadata) == 0 {
		return nil
	}
	out := make([]*filesearch.CustomMetadata, 0, len(metadata))
	for key, value := range metadata {
		entry := &filesearch.CustomMetadata{Key: key}
		if value.Kind == entity.MetadataNumber {
			num := value.Num
			entry.NumericValue = &num
		} else {
			str := value.Str
			entry.StringValue = &str
		}
		out = append(out, entry)
	}
	return out
}

func toChunkingConfig(req *dto.ChunkingConfigRequest) *filesearch.ChunkingConfig {
	if req == nil || !req.Enabled {
		return nil
	}
	maxTokens := req.MaxTokensPerChunk
	if maxTokens == 0 {
		maxTokens = defaultMaxTokensPerChunk
	}
	maxOverlap := req.MaxOverlapTokens
	if maxOverlap == 0 {
		maxOverlap = defaultMaxOverlapTokens
	}
	return &filesearch.ChunkingConfig{
		WhiteSpaceConfig: &filesearch.WhiteSpaceConfig{
			MaxTokensPerChunk: maxTokens,
			MaxOverlapTokens:  maxOverlap,
		},
	}
}

func descriptorChunking(req *dto.ChunkingConfigRequest) *entity.ChunkingConfig {
	cfg := toChunkingConfig(req)
	if cfg == nil {
		return nil
	}
	return &entity.ChunkingConfig{
		Enabled:           true,
		MaxTokensPerChunk: cfg.WhiteSpaceConfig.MaxTokensPerChunk,
		MaxOverlapTokens:  cfg.WhiteSpaceConfig.MaxOverlapTokens,
	}
}
