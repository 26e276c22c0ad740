package filesearch

// Wire types for the File Search REST surface. Field names follow the
// service's camelCase JSON.

// Store is a fileSearchStores resource.
type Store struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	CreateTime  string `json:"createTime,omitempty"`
	UpdateTime  string `json:"updateTime,omitempty"`
}

type listStoresResponse struct {
	FileSearchStores []*Store `json:"fileSearchStores"`
	NextPageToken    string   `json:"nextPageToken,omitempty"`
}

// File is a files resource returned by the upload endpoint.
type File struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
	SizeBytes   string `json:"sizeBytes,omitempty"`
	State       string `json:"state,omitempty"`
}

type uploadFileResponse struct {
	File *File `json:"file"`
}

// CustomMetadata is one key/value entry on an import request. Exactly one
// of StringValue or NumericValue is set.
type CustomMetadata struct {
	Key          string   `json:"key"`
	StringValue  *string  `json:"stringValue,omitempty"`
	NumericValue *float64 `json:"numericValue,omitempty"`
}

type WhiteSpaceConfig struct {
	MaxTokensPerChunk int `json:"maxTokensPerChunk"`
	MaxOverlapTokens  int `json:"maxOverlapTokens"`
}

type ChunkingConfig struct {
	WhiteSpaceConfig *WhiteSpaceConfig `json:"whiteSpaceConfig,omitempty"`
}

type importFileRequest struct {
	FileName       string            `json:"fileName"`
	CustomMetadata []*CustomMetadata `json:"customMetadata,omitempty"`
	ChunkingConfig *ChunkingConfig   `json:"chunkingConfig,omitempty"`
}

// OperationError is the error payload of a failed long-running operation.
type OperationError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// OperationResponse carries the imported document reference once done.
type OperationResponse struct {
	Name string `json:"name,omitempty"`
}

// Operation is a long-running operation resource polled to completion.
type Operation struct {
	Name     string             `json:"name"`
	Done     bool               `json:"done"`
	Error    *OperationError    `json:"error,omitempty"`
	Response *OperationResponse `json:"response,omitempty"`
}

// Generation request/response.

type Part struct {
	Text string `json:"text"`
}

type Content struct {
	Parts []*Part `json:"parts"`
	Role  string  `json:"role,omitempty"`
}

// FileSearchTool binds generation to one or more stores, optionally with a
// metadata filter expression passed through verbatim.
type FileSearchTool struct {
	FileSearchStoreNames []string `json:"fileSearchStoreNames"`
	MetadataFilter       string   `json:"metadataFilter,omitempty"`
}

type Tool struct {
	FileSearch *FileSearchTool `json:"fileSearch,omitempty"`
}

type generateContentRequest struct {
	Contents []*Content `json:"contents"`
	Tools    []*Tool    `json:"tools,omitempty"`
}

// RetrievedContext identifies an indexed chunk that grounded the answer.
type RetrievedContext struct {
	Title string `json:"title,omitempty"`
	URI   string `json:"uri,omitempty"`
	Text  string `json:"text,omitempty"`
}

type GroundingChunk struct {
	RetrievedContext *RetrievedContext `json:"retrievedContext,omitempty"`
}

type GroundingMetadata struct {
	GroundingChunks []*GroundingChunk `json:"groundingChunks,omitempty"`
}

type Candidate struct {
	Content           *Content           `json:"content,omitempty"`
	GroundingMetadata *GroundingMetadata `json:"groundingMetadata,omitempty"`
}

type GenerateContentResponse struct {
	Candidates []*Candidate `json:"candidates"`
}

// Text joins the text parts of the first candidate.
func (r *GenerateContentResponse) Text() string {
	if len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return ""
	}
	var out string
	for _, part := range r.Candidates[0].Content.Parts {
		out += part.Text
	}
	return out
}

// Grounding returns the grounding metadata of the first candidate, nil if
// the response carries none.
func (r *GenerateContentResponse) Grounding() *GroundingMetadata {
	if len(r.Candidates) == 0 {
		return nil
	}
	return r.Candidates[0].GroundingMetadata
}
