// Package recommend talks to the external recommendation endpoint.
package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// FallbackText is the only failure text users ever see from this package.
const FallbackText = "⚠️ Server error. Please try again."

var (
	// ErrStatus is returned for non-2xx responses.
	ErrStatus = errors.New("unexpected status")
	// ErrUnexpectedResponse is returned when the body carries neither field.
	ErrUnexpectedResponse = errors.New("unexpected response format")
)

// ServerError is an error reported by the server in the "error" field.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return "server error: " + e.Message
}

// Request is the JSON body sent to the recommendation endpoint
type Request struct {
	UserInput string `json:"user_input"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

// Response is the JSON body returned by the recommendation endpoint
type Response struct {
	Recommendation string `json:"recommendation,omitempty"`
	Error          string `json:"error,omitempty"`
}

// Client posts messages to the recommendation endpoint
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

// Recommend sends the message (and optional image URL) and returns the recommendation text.
func (c *Client) Recommend(ctx context.Context, message, imageURL string) (string, error) {
	jsonData, err := json.Marshal(Request{UserInput: message, ImageURL: imageURL})
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}

	var result Response
	parseErr := json.Unmarshal(body, &result)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if parseErr == nil && result.Error != "" {
			return "", fmt.Errorf("%w: %s: %w", ErrStatus, resp.Status, &ServerError{Message: result.Error})
		}
		return "", fmt.Errorf("%w: %s: %s", ErrStatus, resp.Status, strings.TrimSpace(string(body)))
	}
	if parseErr != nil {
		return "", fmt.Errorf("%w: %v", ErrUnexpectedResponse, parseErr)
	}

	switch {
	case result.Recommendation != "":
		return result.Recommendation, nil
	case result.Error != "":
		return "", &ServerError{Message: result.Error}
	default:
		return "", ErrUnexpectedResponse
	}
}

// Reply is Recommend with every failure collapsed into FallbackText.
// Callers cannot tell a server-reported error from a network failure; the cause is logged.
func (c *Client) Reply(ctx context.Context, message, imageURL string) string {
	text, err := c.Recommend(ctx, message, imageURL)
	if err != nil {
		slog.Error("Recommendation request failed", "url", c.url, "error", err)
		return FallbackText
	}
	return text
}
