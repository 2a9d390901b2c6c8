// Package client talks to the presentation API over HTTP.
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
	"strings"
	"time"

	"slidedeck/internal/models"
)

// ErrNotFound is returned when the server has no such presentation.
var ErrNotFound = errors.New("presentation not found")

// APIError is a non-success answer from the server.
type APIError struct {
	Status   int
	Message  string
	Messages []string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if len(e.Messages) > 0 {
		msg += ": " + strings.Join(e.Messages, "; ")
	}
	return fmt.Sprintf("api error %d: %s", e.Status, msg)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   []string        `json:"error"`
}

// Client is a presentation API client. It satisfies autosave.Saver.
type Client struct {
	baseURL string
	http    *http.Client
	userID  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithUserID sets the owner recorded on presentations created by Post.
func WithUserID(id string) Option {
	return func(c *Client) { c.userID = id }
}

// New creates a client for the API rooted at baseURL, e.g.
// http://localhost:8080/api.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches a whole presentation.
func (c *Client) Get(ctx context.Context, id string) (models.Presentation, error) {
	var p models.Presentation
	err := c.do(ctx, http.MethodGet, "/presentation/"+url.PathEscape(id), nil, &p)
	return p, err
}

// ShowSlide fetches a presentation ordered for playback.
func (c *Client) ShowSlide(ctx context.Context, id string) (models.Presentation, error) {
	var p models.Presentation
	err := c.do(ctx, http.MethodGet, "/presentation/show-slide/"+url.PathEscape(id), nil, &p)
	return p, err
}

// Put replaces the stored presentation with p.
func (c *Client) Put(ctx context.Context, id string, p models.Presentation) (models.Presentation, error) {
	var saved models.Presentation
	err := c.do(ctx, http.MethodPut, "/presentation/"+url.PathEscape(id), p, &saved)
	return saved, err
}

// Post creates a presentation with one empty slide.
func (c *Client) Post(ctx context.Context, lessonID, title string) (models.Presentation, error) {
	body := map[string]string{"lessonId": lessonID, "title": title}
	if c.userID != "" {
		body["userId"] = c.userID
	}
	var p models.Presentation
	err := c.do(ctx, http.MethodPost, "/presentation", body, &p)
	return p, err
}

// Delete removes a presentation.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/presentation/"+url.PathEscape(id), nil, nil)
}

// List returns the presentations of a lesson.
func (c *Client) List(ctx context.Context, lessonID string) ([]models.Presentation, error) {
	var list []models.Presentation
	err := c.do(ctx, http.MethodGet, "/presentation?lessonId="+url.QueryEscape(lessonID), nil, &list)
	return list, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 400 || decodeErr != nil || !env.Success {
		apiErr := &APIError{Status: resp.StatusCode, Message: env.Message, Messages: env.Error}
		if decodeErr != nil && apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
