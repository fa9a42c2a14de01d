// Package client is a Go client for the notes REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tphakala/simple-notes/internal/conf"
	"github.com/tphakala/simple-notes/internal/errors"
	"github.com/tphakala/simple-notes/internal/notes"
)

const (
	// DefaultTimeout applies when the request context has no deadline.
	DefaultTimeout = 10 * time.Second

	defaultMaxIdleConnsPerHost   = 4
	defaultIdleConnTimeout       = 90 * time.Second
	defaultDialTimeout           = 10 * time.Second
	defaultResponseHeaderTimeout = 10 * time.Second

	// maxResponseSize bounds how much of a response body is decoded.
	maxResponseSize = 16 << 20
)

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the API root, e.g. http://localhost:5000/api
	BaseURL string

	// Timeout is applied if the request context has no deadline
	Timeout time.Duration

	// UserAgent is added to all requests
	UserAgent string

	// HTTPClient replaces the pooled default client, mainly for tests
	HTTPClient *http.Client
}

// ConfigFromSettings creates a Config from the client section of settings.
func ConfigFromSettings(settings *conf.Settings) Config {
	return Config{
		BaseURL: settings.Client.ServerURL,
		Timeout: settings.Client.Timeout,
	}
}

// Client calls the notes API. It is safe for concurrent use.
type Client struct {
	http      *http.Client
	notesURL  string
	timeout   time.Duration
	userAgent string
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notes api: %d %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// envelope is the response body shape shared by all note endpoints.
type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	StatusCode int             `json:"statusCode"`
	Count      *int            `json:"count"`
	Error      string          `json:"error"`
}

type noteInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// New creates a client for the API rooted at cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Newf("invalid server URL %q", cfg.BaseURL).
			Component("client").
			Category(errors.CategoryConfiguration).
			Build()
	}

	c := &Client{
		http:      cfg.HTTPClient,
		notesURL:  base + "/notes",
		timeout:   cfg.Timeout,
		userAgent: cfg.UserAgent,
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.userAgent == "" {
		c.userAgent = "simple-notes/" + conf.Version
	}
	if c.http == nil {
		c.http = &http.Client{Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: defaultDialTimeout,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConnsPerHost:   defaultMaxIdleConnsPerHost,
			IdleConnTimeout:       defaultIdleConnTimeout,
			ResponseHeaderTimeout: defaultResponseHeaderTimeout,
		}}
	}
	return c, nil
}

// List returns every note, most recently updated first.
func (c *Client) List(ctx context.Context) ([]notes.Note, error) {
	var list []notes.Note
	if err := c.do(ctx, http.MethodGet, c.notesURL, nil, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []notes.Note{}
	}
	return list, nil
}

// Get returns the note with id.
func (c *Client) Get(ctx context.Context, id string) (*notes.Note, error) {
	var note notes.Note
	if err := c.do(ctx, http.MethodGet, c.noteURL(id), nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// Create stores a new note and returns it as saved by the server.
func (c *Client) Create(ctx context.Context, title, content string) (*notes.Note, error) {
	var note notes.Note
	if err := c.do(ctx, http.MethodPost, c.notesURL, noteInput{title, content}, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// Update replaces title and content of the note with id.
func (c *Client) Update(ctx context.Context, id, title, content string) (*notes.Note, error) {
	var note notes.Note
	if err := c.do(ctx, http.MethodPut, c.noteURL(id), noteInput{title, content}, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// Delete removes the note with id.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.noteURL(id), nil, nil)
}

// Close closes idle connections in the connection pool.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

func (c *Client) noteURL(id string) string {
	return c.notesURL + "/" + url.PathEscape(id)
}

// do sends one request and decodes the envelope's data into out, which may be
// nil. Failures carry the server's message.
func (c *Client) do(ctx context.Context, method, target string, body, out any) error {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.New(err).
			Component("client").
			Category(errors.CategoryNetwork).
			Context("method", method).
			Context("url", target).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Message
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if decodeErr != nil {
		return fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode note data: %w", err)
	}
	return nil
}
