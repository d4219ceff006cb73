// Package upload sends images to the external upload endpoint and tracks the
// state of the upload control shown next to the chat input.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrStatus is returned for non-2xx responses.
	ErrStatus = errors.New("unexpected status")
	// ErrNoImageURL is returned when a 2xx body does not carry an image URL.
	ErrNoImageURL = errors.New("response has no image URL")
)

// Response is the JSON body returned by the upload endpoint
type Response struct {
	ImgURL string `json:"imgUrl"`
}

// Client posts files to the upload endpoint as multipart form data
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a client for the endpoint at url. A nil httpClient uses http.DefaultClient.
func NewClient(url string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{url: url, httpClient: httpClient}
}

// Upload sends r as the "file" field under filename and returns the stored image URL.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreatePart(fileHeader(filename))
	if err != nil {
		return "", fmt.Errorf("error creating form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("error reading file: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("error closing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s: %s", ErrStatus, resp.Status, strings.TrimSpace(string(data)))
	}

	var result Response
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}
	if result.ImgURL == "" {
		return "", ErrNoImageURL
	}

	return result.ImgURL, nil
}

// UploadFile opens the file at path and uploads it under its base name.
func (c *Client) UploadFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("error opening file: %w", err)
	}
	defer f.Close()

	return c.Upload(ctx, filepath.Base(path), f)
}

func fileHeader(filename string) textproto.MIMEHeader {
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     "file",
		"filename": filename,
	}))
	h.Set("Content-Type", contentType)
	return h
}
