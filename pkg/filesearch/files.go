package filesearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

// UploadFile pushes a local file through the resumable upload protocol and
// returns the files resource. The returned name is what import calls and
// orphan cleanup refer to.
func (c *Client) UploadFile(ctx context.Context, path, displayName string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	uploadURL, err := c.startResumableUpload(ctx, displayName, info.Size(), mimeType)
	if err != nil {
		return nil, err
	}
	return c.finishResumableUpload(ctx, uploadURL, f, info.Size())
}

// startResumableUpload opens an upload session and returns the session URL
// from the X-Goog-Upload-URL header.
func (c *Client) startResumableUpload(ctx context.Context, displayName string, size int64, mimeType string) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"file": map[string]string{"display_name": displayName},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload/v1beta/files", bytes.NewBuffer(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-goog-api-key", c.APIKey())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Upload-Protocol", "resumable")
	req.Header.Set("X-Goog-Upload-Command", "start")
	req.Header.Set("X-Goog-Upload-Header-Content-Length", strconv.FormatInt(size, 10))
	req.Header.Set("X-Goog-Upload-Header-Content-Type", mimeType)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", &APIError{StatusCode: res.StatusCode, Body: string(body)}
	}

	uploadURL := res.Header.Get("X-Goog-Upload-URL")
	if uploadURL == "" {
		return "", fmt.Errorf("upload session start returned no X-Goog-Upload-URL header")
	}
	return uploadURL, nil
}

func (c *Client) finishResumableUpload(ctx context.Context, uploadURL string, content io.Reader, size int64) (*File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, content)
	if err != nil {
		return nil, err
	}
	req.ContentLength = size
	req.Header.Set("X-Goog-Upload-Offset", "0")
	req.Header.Set("X-Goog-Upload-Command", "upload, finalize")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &APIError{StatusCode: res.StatusCode, Body: string(body)}
	}

	var uploaded uploadFileResponse
	if err := json.Unmarshal(body, &uploaded); err != nil {
		return nil, err
	}
	if uploaded.File == nil {
		return nil, fmt.Errorf("upload finalize returned no file resource")
	}
	return uploaded.File, nil
}

// DeleteFile removes an uploaded files resource by its full name.
func (c *Client) DeleteFile(ctx context.Context, name string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1beta/"+name, nil, nil)
}

// ImportFile imports an uploaded file into a store, chunking and indexing
// it server-side. Returns the long-running operation to poll.
func (c *Client) ImportFile(ctx context.Context, storeName, fileName string, customMetadata []*CustomMetadata, chunking *ChunkingConfig) (*Operation, error) {
	body := &importFileRequest{
		FileName:       fileName,
		CustomMetadata: customMetadata,
		ChunkingConfig: chunking,
	}
	var op Operation
	if err := c.doJSON(ctx, http.MethodPost, "/v1beta/"+storeName+":importFile", body, &op); err != nil {
		return nil, err
	}
	return &op, nil
}
