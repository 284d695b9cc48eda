package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
)

// Upload posts r as the multipart field "file" and returns the stored file's
// absolute URL.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (*FileRef, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("copy %s: %w", filename, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	var ref FileRef
	if err := c.send(ctx, http.MethodPost, "/api/upload", nil, buf.Bytes(), w.FormDataContentType(), &ref); err != nil {
		return nil, err
	}
	ref.FileURL = c.ResolveURL(ref.FileURL)
	return &ref, nil
}
