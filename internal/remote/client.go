// Package remote is the board's HTTP and websocket client for the tablero
// daemon, which owns the canonical board state.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tablerohq/tablero/internal/models"
	"github.com/tablerohq/tablero/internal/types"
)

// Client talks to the daemon's HTTP API
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the daemon at baseURL,
// e.g. "http://127.0.0.1:7450"
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchBoard retrieves the canonical board for a project
func (c *Client) FetchBoard(ctx context.Context, projectID types.ProjectID) (*models.BoardView, error) {
	var board models.BoardView
	path := fmt.Sprintf("/api/projects/%d/board", projectID)
	if err := c.do(ctx, http.MethodGet, path, nil, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

// UpdateStoryStatus asks the daemon to move a story. The daemon
// re-validates the move and returns the updated story, or a rejection
// with a machine-readable code.
func (c *Client) UpdateStoryStatus(ctx context.Context, storyID types.StoryID, status models.Status) (*models.Story, error) {
	var story models.Story
	path := fmt.Sprintf("/api/stories/%s/status", storyID)
	body := map[string]models.Status{"status": status}
	if err := c.do(ctx, http.MethodPut, path, body, &story); err != nil {
		return nil, err
	}
	return &story, nil
}

// CreateStory creates a story in a project's backlog
func (c *Client) CreateStory(ctx context.Context, projectID types.ProjectID, req CreateStoryRequest) (*models.Story, error) {
	var story models.Story
	path := fmt.Sprintf("/api/projects/%d/stories", projectID)
	if err := c.do(ctx, http.MethodPost, path, req, &story); err != nil {
		return nil, err
	}
	return &story, nil
}

// CreateStoryRequest is the payload for CreateStory
type CreateStoryRequest struct {
	Title              string           `json:"title"`
	Description        string           `json:"description"`
	Type               models.StoryType `json:"type,omitempty"`
	Priority           string           `json:"priority,omitempty"`
	Estimate           *int             `json:"estimate,omitempty"`
	AcceptanceCriteria string           `json:"acceptance_criteria"`
}

// SetColumnLimit changes a column's WIP limit. A nil limit removes it.
func (c *Client) SetColumnLimit(ctx context.Context, projectID types.ProjectID, status models.Status, limit *int) error {
	path := fmt.Sprintf("/api/projects/%d/columns/%s/limit", projectID, status)
	return c.do(ctx, http.MethodPut, path, map[string]*int{"limit": limit}, nil)
}

// Health reports whether the daemon is up
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDaemonUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			apiErr.Code = "unknown"
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
