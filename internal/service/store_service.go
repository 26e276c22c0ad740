package service

import (
	"context"
	"fmt"

	"rag-filesearch-be/internal/apperr"
	"rag-filesearch-be/internal/config"
	"rag-filesearch-be/internal/dto"
	"rag-filesearch-be/internal/pkg/logger"
	"rag-filesearch-be/internal/repository/memory"
	"rag-filesearch-be/internal/repository/statefile"
	"rag-filesearch-be/pkg/events"
	"rag-filesearch-be/pkg/filesearch"
)

// IStoreService covers the file list and store lifecycle operations.
type IStoreService interface {
	Files() *dto.FilesResponse
	DeleteFile(ctx context.Context, index int) (*dto.DeleteFileResponse, error)
	StoreInfo(ctx context.Context) (*dto.StoreInfoResponse, error)
	Stores(ctx context.Context) (*dto.StoresResponse, error)
	DeleteStore(ctx context.Context) error
	Status() *dto.StatusResponse
}

type storeService struct {
	cfg        *config.Config
	fs         *filesearch.Client
	state      *statefile.Repository
	transcript *memory.TranscriptRepository
	bus        *events.Bus
	logger     logger.ILogger
}

func NewStoreService(
	cfg *config.Config,
	fs *filesearch.Client,
	state *statefile.Repository,
	transcript *memory.TranscriptRepository,
	bus *events.Bus,
	log logger.ILogger,
) IStoreService {
	return &storeService{
		cfg:        cfg,
		fs:         fs,
		state:      state,
		transcript: transcript,
		bus:        bus,
		logger:     log,
	}
}

func (s *storeService) storeNamePtr() *string {
	if name := s.state.StoreName(); name != "" {
		return &name
	}
	return nil
}

func (s *storeService) Files() *dto.FilesResponse {
	return &dto.FilesResponse{
		Success:   true,
		Files:     s.state.Files(),
		StoreName: s.storeNamePtr(),
	}
}

// DeleteFile removes one descriptor by position. The external file delete
// is best effort; the descriptor is removed either way.
func (s *storeService) DeleteFile(ctx context.Context, index int) (*dto.DeleteFileResponse, error) {
	if index < 0 || index >= s.state.FileCount() {
		return nil, apperr.Validationf("Invalid file index")
	}

	files := s.state.Files()
	target := files[index]
	if target.FileAPIName != "" {
		if err := s.fs.DeleteFile(ctx, target.FileAPIName); err != nil {
			s.logger.Warn("Store", "Could not delete from Files API", map[string]interface{}{
				"file":  target.FileAPIName,
				"error": err.Error(),
			})
		}
	}

	removed, err := s.state.RemoveFile(index)
	if err != nil {
		return nil, apperr.Validationf("Invalid file index")
	}
	s.logger.Info("Store", "Removed file from tracking", map[string]interface{}{"filename": removed.Filename})

	return &dto.DeleteFileResponse{
		Success:       true,
		Message:       fmt.Sprintf("File %q deleted successfully", removed.Filename),
		UploadedFiles: s.state.Files(),
	}, nil
}

func (s *storeService) StoreInfo(ctx context.Context) (*dto.StoreInfoResponse, error) {
	name := s.state.StoreName()
	if name == "" {
		return &dto.StoreInfoResponse{
			Success:     true,
			StoreExists: false,
			Message:     "No file search store created yet",
		}, nil
	}

	store, err := s.fs.GetStore(ctx, name)
	if err != nil {
		return nil, apperr.External("Error getting store info", err)
	}

	return &dto.StoreInfoResponse{
		Success:       true,
		StoreExists:   true,
		Name:          store.Name,
		DisplayName:   store.DisplayName,
		CreateTime:    store.CreateTime,
		UpdateTime:    store.UpdateTime,
		DocumentCount: s.state.FileCount(),
	}, nil
}

func (s *storeService) Stores(ctx context.Context) (*dto.StoresResponse, error) {
	stores, err := s.fs.ListStores(ctx)
	if err != nil {
		return nil, apperr.External("Error listing stores", err)
	}

	summaries := make([]dto.StoreSummary, 0, len(stores))
	for _, store := range stores {
		summaries = append(summaries, dto.StoreSummary{
			Name:        store.Name,
			DisplayName: store.DisplayName,
			CreateTime:  store.CreateTime,
		})
	}
	return &dto.StoresResponse{
		Success: true,
		Stores:  summaries,
		Count:   len(summaries),
	}, nil
}

// DeleteStore destroys the store externally (force, dropping its
// documents) and clears all local bookkeeping.
func (s *storeService) DeleteStore(ctx context.Context) error {
	name := s.state.StoreName()
	if name == "" {
		return apperr.Validationf("No store to delete")
	}

	if err := s.fs.DeleteStore(ctx, name, true); err != nil {
		return apperr.External("Error deleting store", err)
	}
	s.logger.Info("Store", "Deleted file search store", map[string]interface{}{"store": name})

	if err := s.state.ClearStore(); err != nil {
		s.logger.Error("Store", "Error saving state", map[string]interface{}{"error": err.Error()})
	}

	if s.bus != nil {
		if err := s.bus.Publish(context.Background(), events.NewStoreDeleted(name)); err != nil {
			s.logger.Warn("Store", "Failed to publish event", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

func (s *storeService) Status() *dto.StatusResponse {
	return &dto.StatusResponse{
		FileUploaded:       s.state.HasStore(),
		ConversationLength: s.transcript.Len(),
		StoreName:          s.storeNamePtr(),
		UploadedFiles:      s.state.Files(),
	}
}
