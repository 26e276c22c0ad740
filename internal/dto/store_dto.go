package dto

import (
	"io"

	"rag-filesearch-be/internal/entity"
)

// ChunkingConfigRequest is the optional `chunking_config` form field of an
// upload.
type ChunkingConfigRequest struct {
	Enabled           bool `json:"enabled"`
	MaxTokensPerChunk int  `json:"max_tokens_per_chunk"`
	MaxOverlapTokens  int  `json:"max_overlap_tokens"`
}

// UploadRequest is the parsed multipart upload, handed to the service with
// the metadata union already decided at the boundary.
type UploadRequest struct {
	Filename string
	Size     int64
	Content  io.Reader
	Metadata entity.Metadata
	Chunking *ChunkingConfigRequest
}

type UploadResponse struct {
	Success       bool                    `json:"success"`
	Message       string                  `json:"message"`
	Filename      string                  `json:"filename"`
	FileSize      int64                   `json:"file_size"`
	StoreName     string                  `json:"store_name"`
	DocumentID    string                  `json:"document_id,omitempty"`
	UploadedFiles []entity.FileDescriptor `json:"uploaded_files"`
}

type FilesResponse struct {
	Success   bool                    `json:"success"`
	Files     []entity.FileDescriptor `json:"files"`
	StoreName *string                 `json:"store_name"`
}

type DeleteFileResponse struct {
	Success       bool                    `json:"success"`
	Message       string                  `json:"message"`
	UploadedFiles []entity.FileDescriptor `json:"uploaded_files"`
}

type StoreInfoResponse struct {
	Success       bool   `json:"success"`
	StoreExists   bool   `json:"store_exists"`
	Message       string `json:"message,omitempty"`
	Name          string `json:"name,omitempty"`
	DisplayName   string `json:"display_name,omitempty"`
	CreateTime    string `json:"create_time,omitempty"`
	UpdateTime    string `json:"update_time,omitempty"`
	DocumentCount int    `json:"document_count"`
}

type StoreSummary struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	CreateTime  string `json:"create_time"`
}

type StoresResponse struct {
	Success bool           `json:"success"`
	Stores  []StoreSummary `json:"stores"`
	Count   int            `json:"count"`
}

type StatusResponse struct {
	FileUploaded       bool                    `json:"file_uploaded"`
	ConversationLength int                     `json:"conversation_length"`
	StoreName          *string                 `json:"store_name"`
	UploadedFiles      []entity.FileDescriptor `json:"uploaded_files"`
}
