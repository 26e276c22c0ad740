package dto

import "rag-filesearch-be/internal/entity"

type AdminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type AdminLoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// APIInfoResponse is the documentation-tab payload. It exposes the raw
// credential, which is why the route sits behind the admin gate by
// default.
type APIInfoResponse struct {
	Success                bool                    `json:"success"`
	APIKey                 string                  `json:"api_key"`
	StoreExists            bool                    `json:"store_exists"`
	StoreName              *string                 `json:"store_name"`
	StoreDisplayName       string                  `json:"store_display_name"`
	FileCount              int                     `json:"file_count"`
	Files                  []entity.FileDescriptor `json:"files"`
	Model                  string                  `json:"model"`
	ExampleMetadataFilters []string                `json:"example_metadata_filters"`
	MetadataKeys           []string                `json:"metadata_keys"`
}

type UpdateAPIKeyRequest struct {
	APIKey string `json:"api_key" validate:"required"`
}
