// Package backend is the HTTP client for the remote directory service.
// It owns transport framing only: bearer auth, JSON codec, and mapping
// HTTP failures onto domain errors. All relationship semantics live in
// the services above it.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cardlink/internal/auth"
	"cardlink/internal/domain"
)

type Options struct {
	BaseURL       string
	TokenProvider auth.TokenProvider
	HTTPClient    *http.Client
	UserAgent     string
}

type Client struct {
	baseURL       string
	tokenProvider auth.TokenProvider
	httpClient    *http.Client
	userAgent     string
}

func New(opts Options) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{
		baseURL:       baseURL,
		tokenProvider: opts.TokenProvider,
		httpClient:    httpClient,
		userAgent:     strings.TrimSpace(opts.UserAgent),
	}
}

func (c *Client) GetContacts(ctx context.Context) ([]json.RawMessage, error) {
	var out []json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/v1/contacts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetContactsByFolder(ctx context.Context, folderID string) ([]json.RawMessage, error) {
	var out []json.RawMessage
	path := "/api/v1/contacts/folder/" + url.PathEscape(folderID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchContacts tolerates the search endpoint's habit of returning a
// bare object for a single hit instead of a one-element array.
func (c *Client) SearchContacts(ctx context.Context, query string) ([]json.RawMessage, error) {
	path := "/api/v1/contacts/search?q=" + url.QueryEscape(query)
	var body json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &body); err != nil {
		return nil, err
	}
	return splitRecords(body)
}

type actionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (c *Client) RemoveContact(ctx context.Context, contactID string) error {
	var res actionResult
	path := "/api/v1/contacts/" + url.PathEscape(contactID)
	if err := c.do(ctx, http.MethodDelete, path, nil, &res); err != nil {
		return err
	}
	if !res.Success {
		return &domain.BackendError{Status: http.StatusOK, Message: res.Message}
	}
	return nil
}

type setStatusRequest struct {
	Status   int    `json:"status"`
	FolderID string `json:"folder_id,omitempty"`
}

func (c *Client) SetContactStatus(ctx context.Context, contactID string, status domain.ContactStatus, folderID string) error {
	var res actionResult
	path := "/api/v1/contacts/" + url.PathEscape(contactID) + "/status"
	req := setStatusRequest{Status: int(status), FolderID: folderID}
	if err := c.do(ctx, http.MethodPost, path, req, &res); err != nil {
		return err
	}
	if !res.Success {
		return &domain.BackendError{Status: http.StatusOK, Message: res.Message}
	}
	return nil
}

func (c *Client) ListFolders(ctx context.Context) ([]domain.Folder, error) {
	var out []domain.Folder
	if err := c.do(ctx, http.MethodGet, "/api/v1/folders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type folderRequest struct {
	Name string `json:"name"`
}

func (c *Client) CreateFolder(ctx context.Context, name string) (domain.Folder, error) {
	var out domain.Folder
	if err := c.do(ctx, http.MethodPost, "/api/v1/folders", folderRequest{Name: name}, &out); err != nil {
		return domain.Folder{}, err
	}
	return out, nil
}

func (c *Client) RenameFolder(ctx context.Context, folderID, name string) error {
	path := "/api/v1/folders/" + url.PathEscape(folderID)
	return c.do(ctx, http.MethodPut, path, folderRequest{Name: name}, nil)
}

func (c *Client) DeleteFolder(ctx context.Context, folderID string) error {
	path := "/api/v1/folders/" + url.PathEscape(folderID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	if c == nil {
		return fmt.Errorf("backend client is nil")
	}
	if c.tokenProvider == nil {
		return fmt.Errorf("backend token provider is required")
	}
	token, err := c.tokenProvider(ctx)
	if err != nil {
		return err
	}
	if strings.TrimSpace(token) == "" {
		return domain.ErrUnauthenticated
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	respBody, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return readErr
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return domain.ErrUnauthenticated
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.BackendError{Status: resp.StatusCode, Message: extractMessage(respBody)}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode backend response: %w", err)
	}
	return nil
}

// extractMessage pulls the free-text message out of an error body so it
// can be shown to the actor verbatim.
func extractMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil {
		if strings.TrimSpace(parsed.Message) != "" {
			return strings.TrimSpace(parsed.Message)
		}
		if strings.TrimSpace(parsed.Error) != "" {
			return strings.TrimSpace(parsed.Error)
		}
	}
	return strings.TrimSpace(string(body))
}

// splitRecords turns a response that is either a JSON array or a single
// object into a slice of records.
func splitRecords(body json.RawMessage) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	switch trimmed[0] {
	case '[':
		var out []json.RawMessage
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, fmt.Errorf("decode search response: %w", err)
		}
		return out, nil
	case '{':
		return []json.RawMessage{trimmed}, nil
	default:
		return nil, fmt.Errorf("decode search response: unexpected payload")
	}
}
