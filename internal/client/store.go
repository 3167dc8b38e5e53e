// Package client provides an HTTP client for a remote category store.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	apperrors "taxonomy/internal/errors"
	"taxonomy/internal/models"
)

// StoreError is a non-2xx answer from the category store.
type StoreError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StoreError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

// AppError converts the store's rejection into an AppError carrying the
// store's own code, message and status, so callers can relay it unchanged.
func (e *StoreError) AppError() *apperrors.AppError {
	code, msg := e.Code, e.Message
	if code == "" {
		code, msg = apperrors.ErrStoreUnavailable.Code, apperrors.ErrStoreUnavailable.Message
	}
	return &apperrors.AppError{Code: code, Message: msg, StatusCode: e.StatusCode, Internal: e}
}

// StoreClient communicates with the category store API.
type StoreClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewStoreClient creates a new category store client.
func NewStoreClient(baseURL string, httpClient *http.Client) *StoreClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &StoreClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// ListCategories fetches the flat category feed.
func (c *StoreClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	var result struct {
		Categories []models.Category `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/categories", nil, &result); err != nil {
		return nil, fmt.Errorf("fetching categories: %w", err)
	}
	return result.Categories, nil
}

// GetTree fetches the tree feed. The store may answer with nested records or
// with a flat list; both are returned as is.
func (c *StoreClient) GetTree(ctx context.Context) ([]models.Category, error) {
	var result struct {
		Categories []models.Category `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/categories/tree", nil, &result); err != nil {
		return nil, fmt.Errorf("fetching category tree: %w", err)
	}
	return result.Categories, nil
}

// GetCategory fetches a single category.
func (c *StoreClient) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	var result struct {
		Category models.Category `json:"category"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/categories/"+url.PathEscape(id), nil, &result); err != nil {
		return nil, fmt.Errorf("fetching category %s: %w", id, err)
	}
	return &result.Category, nil
}

// GetAncestors fetches the ancestors of id ordered root first.
func (c *StoreClient) GetAncestors(ctx context.Context, id string) ([]models.Category, error) {
	var result struct {
		Ancestors []models.Category `json:"ancestors"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/categories/"+url.PathEscape(id)+"/ancestors", nil, &result); err != nil {
		return nil, fmt.Errorf("fetching ancestors of %s: %w", id, err)
	}
	return result.Ancestors, nil
}

// UpdateCategory sends the full record, including parent_id, to the store.
func (c *StoreClient) UpdateCategory(ctx context.Context, category models.Category) (*models.Category, error) {
	category.Children = nil
	body, err := json.Marshal(category)
	if err != nil {
		return nil, fmt.Errorf("marshaling category: %w", err)
	}

	var result struct {
		Category models.Category `json:"category"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/v1/categories/"+url.PathEscape(category.ID), body, &result); err != nil {
		return nil, fmt.Errorf("updating category %s: %w", category.ID, err)
	}
	return &result.Category, nil
}

func (c *StoreClient) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeStoreError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeStoreError(resp *http.Response) error {
	storeErr := &StoreError{StatusCode: resp.StatusCode}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(data, &envelope) == nil {
		storeErr.Code = envelope.Error.Code
		storeErr.Message = envelope.Error.Message
	}
	return storeErr
}
