package filesearch

import (
	"context"
	"net/http"
	"net/url"
)

// CreateStore creates a new search store with the given display name and
// returns the resource (name is service-assigned, e.g.
// "fileSearchStores/abc123").
func (c *Client) CreateStore(ctx context.Context, displayName string) (*Store, error) {
	body := &Store{DisplayName: displayName}
	var store Store
	if err := c.doJSON(ctx, http.MethodPost, "/v1beta/fileSearchStores", body, &store); err != nil {
		return nil, err
	}
	return &store, nil
}

// GetStore fetches a store by its full resource name.
func (c *Client) GetStore(ctx context.Context, name string) (*Store, error) {
	var store Store
	if err := c.doJSON(ctx, http.MethodGet, "/v1beta/"+name, nil, &store); err != nil {
		return nil, err
	}
	return &store, nil
}

// ListStores returns every store visible to the current key, following
// pagination.
func (c *Client) ListStores(ctx context.Context) ([]*Store, error) {
	var stores []*Store
	pageToken := ""
	for {
		path := "/v1beta/fileSearchStores"
		if pageToken != "" {
			path += "?pageToken=" + url.QueryEscape(pageToken)
		}
		var page listStoresResponse
		if err := c.doJSON(ctx, http.MethodGet, path, nil, &page); err != nil {
			return nil, err
		}
		stores = append(stores, page.FileSearchStores...)
		if page.NextPageToken == "" {
			return stores, nil
		}
		pageToken = page.NextPageToken
	}
}

// DeleteStore destroys a store. With force, indexed documents are deleted
// along with it.
func (c *Client) DeleteStore(ctx context.Context, name string, force bool) error {
	path := "/v1beta/" + name
	if force {
		path += "?force=true"
	}
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}
