package service

import (
	"context"
	"strings"

	"rag-filesearch-be/internal/apperr"
	"rag-filesearch-be/internal/config"
	"rag-filesearch-be/internal/constant"
	"rag-filesearch-be/internal/dto"
	"rag-filesearch-be/internal/entity"
	"rag-filesearch-be/internal/pkg/logger"
	"rag-filesearch-be/internal/repository/memory"
	"rag-filesearch-be/internal/repository/statefile"
	"rag-filesearch-be/pkg/filesearch"
)

// IChatService drives grounded conversation turns against the store.
type IChatService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	Clear()
}

type chatService struct {
	cfg        *config.Config
	fs         *filesearch.Client
	state      *statefile.Repository
	transcript *memory.TranscriptRepository
	logger     logger.ILogger
}

func NewChatService(
	cfg *config.Config,
	fs *filesearch.Client,
	state *statefile.Repository,
	transcript *memory.TranscriptRepository,
	log logger.ILogger,
) IChatService {
	return &chatService{
		cfg:        cfg,
		fs:         fs,
		state:      state,
		transcript: transcript,
		logger:     log,
	}
}

// Chat appends the user turn, queries the model with a file search binding
// over the flattened transcript window, and records the reply. When the
// external call fails the already-appended user turn stays recorded.
func (s *chatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	if !s.state.HasStore() {
		return nil, apperr.Validationf("Please upload a file first")
	}

	s.transcript.Append(entity.TranscriptEntry{
		Role:    constant.ChatMessageRoleUser,
		Content: req.Message,
	})
	window := s.transcript.Window(constant.MaxTranscriptEntries)
	prompt := BuildPrompt(req.SystemPrompt, window)

	s.logger.Info("Chat", "Querying with message", map[string]interface{}{
		"message":         req.Message,
		"metadata_filter": req.MetadataFilter,
	})

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.FileSearch.ChatTimeout)
	defer cancel()

	res, err := s.fs.GenerateContent(
		callCtx,
		s.cfg.FileSearch.Model,
		prompt,
		[]string{s.state.StoreName()},
		req.MetadataFilter,
	)
	if err != nil {
		return nil, apperr.External("Error processing message", err)
	}

	answer := res.Text()
	length := s.transcript.Append(entity.TranscriptEntry{
		Role:    constant.ChatMessageRoleAssistant,
		Content: answer,
	})

	var metadata *dto.ChatMetadata
	if grounding := res.Grounding(); grounding != nil {
		citations := extractCitations(grounding)
		metadata = &dto.ChatMetadata{
			Citations:     citations,
			CitationCount: len(citations),
		}
	}

	var filterUsed *string
	if req.MetadataFilter != "" {
		filterUsed = &req.MetadataFilter
	}

	citationCount := 0
	if metadata != nil {
		citationCount = metadata.CitationCount
	}
	s.logger.Info("Chat", "Response generated", map[string]interface{}{"citations": citationCount})

	return &dto.ChatResponse{
		Success:            true,
		Response:           answer,
		Metadata:           metadata,
		ConversationLength: length,
		MetadataFilterUsed: filterUsed,
	}, nil
}

func (s *chatService) Clear() {
	s.transcript.Clear()
	s.logger.Info("Chat", "Conversation history cleared", nil)
}

// BuildPrompt flattens the transcript window into one prompt string: an
// optional system instruction line, then "Role: text" pairs, then the
// trailing cue for the assistant's turn.
func BuildPrompt(systemPrompt string, window []entity.TranscriptEntry) string {
	parts := make([]string, 0, len(window)+2)
	if systemPrompt != "" {
		parts = append(parts, constant.PromptSystemPrefix+systemPrompt+"\n")
	}
	for _, entry := range window {
		prefix := constant.PromptUserPrefix
		if entry.Role == constant.ChatMessageRoleAssistant {
			prefix = constant.PromptAssistantPrefix
		}
		parts = append(parts, prefix+entry.Content)
	}
	parts = append(parts, constant.PromptAssistantCue)
	return strings.Join(parts, "\n\n")
}

// extractCitations collects whatever subset of {title, uri, text} each
// grounding chunk's retrieved context carries. Chunks without a retrieved
// context are skipped.
func extractCitations(grounding *filesearch.GroundingMetadata) []entity.Citation {
	citations := []entity.Citation{}
	for _, chunk := range grounding.GroundingChunks {
		if chunk.RetrievedContext == nil {
			continue
		}
		citations = append(citations, entity.Citation{
			Title: chunk.RetrievedContext.Title,
			URI:   chunk.RetrievedContext.URI,
			Text:  chunk.RetrievedContext.Text,
		})
	}
	return citations
}
