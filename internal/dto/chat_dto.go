package dto

import "rag-filesearch-be/internal/entity"

type ChatRequest struct {
	Message        string `json:"message" validate:"required"`
	MetadataFilter string `json:"metadata_filter"`
	SystemPrompt   string `json:"system_prompt"`
}

type ChatMetadata struct {
	Citations     []entity.Citation `json:"citations"`
	CitationCount int               `json:"citation_count"`
}

type ChatResponse struct {
	Success            bool          `json:"success"`
	Response           string        `json:"response"`
	Metadata           *ChatMetadata `json:"metadata"`
	ConversationLength int           `json:"conversation_length"`
	MetadataFilterUsed *string       `json:"metadata_filter_used"`
}
