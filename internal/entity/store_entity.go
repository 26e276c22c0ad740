package entity

import (
	"encoding/json"
	"fmt"
)

// MetadataValueKind distinguishes string and numeric metadata values.
type MetadataValueKind int

const (
	MetadataString MetadataValueKind = iota
	MetadataNumber
)

// MetadataValue is a tagged union of string|number, decided once when the
// incoming JSON is parsed. It marshals back to the bare JSON scalar so the
// state file and API responses carry plain values.
type MetadataValue struct {
	Kind MetadataValueKind
	Str  string
	Num  float64
}

func StringValue(s string) MetadataValue {
	return MetadataValue{Kind: MetadataString, Str: s}
}

func NumberValue(n float64) MetadataValue {
	return MetadataValue{Kind: MetadataNumber, Num: n}
}

func (v MetadataValue) MarshalJSON() ([]byte, error) {
	if v.Kind == MetadataNumber {
		return json.Marshal(v.Num)
	}
	return json.Marshal(v.Str)
}

func (v *MetadataValue) UnmarshalJSON(data []byte) error {
	// json.Number only accepts a numeric literal, so a failed attempt
	// means the value is a string (or something we reject).
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		f, err := n.Float64()
		if err != nil {
			return fmt.Errorf("invalid numeric metadata value %q: %w", n.String(), err)
		}
		*v = NumberValue(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("metadata value must be a string or a number, got %s", string(data))
	}
	*v = StringValue(s)
	return nil
}

// Metadata is the user-supplied key/value mapping attached to an import.
type Metadata map[string]MetadataValue

// ChunkingConfig mirrors the whitespace chunking knobs of the external
// import call. A nil ChunkingConfig on a descriptor means the service
// defaults were used.
type ChunkingConfig struct {
	Enabled           bool `json:"enabled"`
	MaxTokensPerChunk int  `json:"max_tokens_per_chunk"`
	MaxOverlapTokens  int  `json:"max_overlap_tokens"`
}

// FileDescriptor is the local bookkeeping record for one imported file.
// Owned exclusively by the state repository.
type FileDescriptor struct {
	Filename       string          `json:"filename"`
	Size           int64           `json:"size"`
	UploadedAt     string          `json:"uploaded_at"`
	CustomMetadata Metadata        `json:"custom_metadata"`
	ChunkingConfig *ChunkingConfig `json:"chunking_config"`
	FileAPIName    string          `json:"file_api_name"`
	DocumentID     string          `json:"document_id"`
}
