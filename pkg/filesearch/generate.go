package filesearch

import (
	"context"
	"net/http"
)

// GenerateContent sends one flattened prompt to the model with a file
// search tool bound to the given stores. metadataFilter is passed through
// verbatim when non-empty.
func (c *Client) GenerateContent(ctx context.Context, model, prompt string, storeNames []string, metadataFilter string) (*GenerateContentResponse, error) {
	body := &generateContentRequest{
		Contents: []*Content{
			{Parts: []*Part{{Text: prompt}}},
		},
		Tools: []*Tool{
			{FileSearch: &FileSearchTool{
				FileSearchStoreNames: storeNames,
				MetadataFilter:       metadataFilter,
			}},
		},
	}

	var res GenerateContentResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1beta/models/"+model+":generateContent", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
