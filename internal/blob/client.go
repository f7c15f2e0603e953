package blob

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"

	"cloudtalk/internal/models"
	"cloudtalk/internal/observability"
)

var (
	// ErrUnavailable covers network failures and remote-side errors on
	// either operation.
	ErrUnavailable = errors.New("document store unavailable")
	// ErrRejected means the store refused the written document.
	ErrRejected = errors.New("document rejected by store")
)

// Client performs whole-document GET and PUT against the remote store. There
// are no partial writes; every Put replaces the remote document wholesale.
type Client interface {
	Fetch(ctx context.Context) (models.Document, error)
	Put(ctx context.Context, doc models.Document) error
}

// HTTPClient talks to a jsonblob-style endpoint.
type HTTPClient struct {
	url    string
	client *http.Client
}

// NewHTTPClient builds a client for the given document URL.
func NewHTTPClient(url string) *HTTPClient {
	return &HTTPClient{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch retrieves the full document.
func (c *HTTPClient) Fetch(ctx context.Context) (models.Document, error) {
	ctx, span := otel.Tracer("cloudtalk/blob").Start(ctx, "blob.fetch")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return models.Document{}, fmt.Errorf("build fetch request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		observability.IncBlobFetch("error")
		return models.Document{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		observability.IncBlobFetch("error")
		return models.Document{}, fmt.Errorf("%w: fetch status %d", ErrUnavailable, resp.StatusCode)
	}

	var doc models.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		observability.IncBlobFetch("error")
		return models.Document{}, fmt.Errorf("%w: decode document: %v", ErrUnavailable, err)
	}
	if doc.Users == nil {
		doc.Users = []models.User{}
	}
	if doc.Chats == nil {
		doc.Chats = []models.Chat{}
	}

	observability.IncBlobFetch("ok")
	return doc, nil
}

// Put replaces the remote document. The store echoes the stored body; the
// echo is discarded, the caller already holds the document it wrote.
func (c *HTTPClient) Put(ctx context.Context, doc models.Document) error {
	ctx, span := otel.Tracer("cloudtalk/blob").Start(ctx, "blob.put")
	defer span.End()

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build put request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		observability.IncBlobPut("error")
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		observability.IncBlobPut("ok")
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode <= 499:
		observability.IncBlobPut("rejected")
		return fmt.Errorf("%w: put status %d", ErrRejected, resp.StatusCode)
	default:
		observability.IncBlobPut("error")
		return fmt.Errorf("%w: put status %d", ErrUnavailable, resp.StatusCode)
	}
}

var _ Client = (*HTTPClient)(nil)
