// ABOUTME: HTTP client for the callbridge admin API
// ABOUTME: Wraps API calls with proper error handling for CLI usage

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/markalston/callbridge/models"
)

var (
	// ErrAdminKeyRejected is returned for 401 responses.
	ErrAdminKeyRejected = errors.New("admin key rejected")
	// ErrAdminDisabled is returned for 403 responses.
	ErrAdminDisabled = errors.New("admin API disabled on server")
)

// Client is the API client for the callbridge service
type Client struct {
	baseURL    string
	adminKey   string
	httpClient *http.Client
}

// New creates a new API client. adminKey may be empty for public calls.
func New(baseURL, adminKey string) *Client {
	return &Client{
		baseURL:  baseURL,
		adminKey: adminKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Health calls GET /health
func (c *Client) Health(ctx context.Context) (*models.HealthResponse, error) {
	var health models.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// AddFact calls POST /api/memory/{phone_hash}
func (c *Client) AddFact(ctx context.Context, phoneHash, fact string) (*models.AddFactResponse, error) {
	var resp models.AddFactResponse
	path := "/api/memory/" + url.PathEscape(phoneHash)
	if err := c.do(ctx, http.MethodPost, path, models.AddFactRequest{Fact: fact}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetMemory calls GET /api/memory/{phone_hash}
func (c *Client) GetMemory(ctx context.Context, phoneHash string) (*models.CallerMemory, error) {
	var mem models.CallerMemory
	if err := c.do(ctx, http.MethodGet, "/api/memory/"+url.PathEscape(phoneHash), nil, &mem); err != nil {
		return nil, err
	}
	return &mem, nil
}

// AddNote calls POST /api/notes
func (c *Client) AddNote(ctx context.Context, note string) (*models.AddNoteResponse, error) {
	var resp models.AddNoteResponse
	if err := c.do(ctx, http.MethodPost, "/api/notes", models.AddNoteRequest{Note: note}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListNotes calls GET /api/notes
func (c *Client) ListNotes(ctx context.Context) (*models.NotesResponse, error) {
	var resp models.NotesResponse
	if err := c.do(ctx, http.MethodGet, "/api/notes", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do sends a JSON request and decodes a 200 response into out.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.adminKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.handleErrorResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// handleRequestError converts HTTP client errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// handleErrorResponse parses API error responses
func (c *Client) handleErrorResponse(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrAdminKeyRejected
	case http.StatusForbidden:
		return ErrAdminDisabled
	}

	var errResp models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error == "" {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	return fmt.Errorf("backend error: %s", errResp.Error)
}
