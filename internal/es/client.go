// Package es wraps the official Elasticsearch client with the narrow set of
// store operations propsearch consumes: index lifecycle, stored scripts,
// templated search, count and bulk writes.
package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/propstack/propsearch/internal/domain"
)

// Config holds the store connection settings.
type Config struct {
	Endpoint       string
	APIKey         string
	RequestTimeout time.Duration
}

// Client is the single shared connection to the index store. It is safe for
// concurrent use; bulk workers issue writes through it in parallel.
type Client struct {
	es      *elasticsearch.Client
	timeout time.Duration
}

// New creates a store client. It does not contact the store; use Ping for that.
func New(cfg Config) (*Client, error) {
	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.Endpoint},
		APIKey:    cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 600 * time.Second
	}
	return &Client{es: esClient, timeout: timeout}, nil
}

// Ping verifies the store is reachable.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: ping: %w", domain.ErrStoreUnavailable, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("%w: ping returned %s", domain.ErrStoreUnavailable, res.Status())
	}
	return nil
}

// IndexExists reports whether the named index exists.
func (c *Client) IndexExists(ctx context.Context, name string) (bool, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	res, err := c.es.Indices.Exists([]string{name}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("%w: index exists: %w", domain.ErrStoreUnavailable, err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case 200:
		return true, nil
	case 404:
		return false, nil
	default:
		return false, fmt.Errorf("index exists %q: unexpected status %s", name, res.Status())
	}
}

// DeleteIndex removes the named index and all its documents.
func (c *Client) DeleteIndex(ctx context.Context, name string) error {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	res, err := c.es.Indices.Delete([]string{name}, c.es.Indices.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: delete index: %w", domain.ErrStoreUnavailable, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return apiError("delete index "+name, res)
	}
	return nil
}

// CreateIndex creates the named index with the given mapping body.
func (c *Client) CreateIndex(ctx context.Context, name string, mapping []byte) error {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	res, err := c.es.Indices.Create(name,
		c.es.Indices.Create.WithBody(bytes.NewReader(mapping)),
		c.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("%w: create index: %w", domain.ErrStoreUnavailable, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return apiError("create index "+name, res)
	}
	return nil
}

// PutScript upserts a stored script under the given id, replacing any prior content.
func (c *Client) PutScript(ctx context.Context, id string, body []byte) error {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	res, err := c.es.PutScript(id, bytes.NewReader(body), c.es.PutScript.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: put script: %w", domain.ErrStoreUnavailable, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return apiError("put script "+id, res)
	}
	return nil
}

// GetScript returns the source text of a stored script.
// Returns domain.ErrTemplateNotFound when no script exists under the id.
func (c *Client) GetScript(ctx context.Context, id string) (string, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	res, err := c.es.GetScript(id, c.es.GetScript.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("%w: get script: %w", domain.ErrStoreUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return "", fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, id)
	}
	if res.IsError() {
		return "", apiError("get script "+id, res)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read get script response: %w", err)
	}
	return parseScriptSource(body)
}

// RenderTemplate renders a stored search template with the given parameters
// without executing it. Used for diagnostics.
func (c *Client) RenderTemplate(ctx context.Context, id string, params map[string]any) (json.RawMessage, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	body, err := json.Marshal(map[string]any{"params": params})
	if err != nil {
		return nil, fmt.Errorf("marshal render params: %w", err)
	}

	res, err := c.es.RenderSearchTemplate(
		c.es.RenderSearchTemplate.WithTemplateID(id),
		c.es.RenderSearchTemplate.WithBody(bytes.NewReader(body)),
		c.es.RenderSearchTemplate.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: render template: %w", domain.ErrStoreUnavailable, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, apiError("render template "+id, res)
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read render response: %w", err)
	}
	return parseRenderedTemplate(raw)
}

// SearchTemplate executes a stored search template against the index.
func (c *Client) SearchTemplate(ctx context.Context, index, id string, params map[string]any) (domain.SearchHits, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	body, err := json.Marshal(map[string]any{"id": id, "params": params})
	if err != nil {
		return domain.SearchHits{}, fmt.Errorf("marshal search template request: %w", err)
	}

	res, err := c.es.SearchTemplate(bytes.NewReader(body),
		c.es.SearchTemplate.WithIndex(index),
		c.es.SearchTemplate.WithContext(ctx),
	)
	if err != nil {
		return domain.SearchHits{}, fmt.Errorf("%w: search template: %w", domain.ErrStoreUnavailable, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return domain.SearchHits{}, apiError("search template "+id, res)
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return domain.SearchHits{}, fmt.Errorf("read search response: %w", err)
	}
	return parseSearchHits(raw)
}

// Count returns the number of documents in the index.
func (c *Client) Count(ctx context.Context, index string) (int, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	res, err := c.es.Count(c.es.Count.WithIndex(index), c.es.Count.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("%w: count: %w", domain.ErrStoreUnavailable, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, apiError("count "+index, res)
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return 0, fmt.Errorf("read count response: %w", err)
	}
	return parseCount(raw)
}

// BulkInsert writes a chunk of documents in one bulk request and returns one
// BulkItem per document, in input order. A non-nil error means the request
// itself failed and none of the documents were acknowledged.
func (c *Client) BulkInsert(ctx context.Context, index string, docs []domain.Document) ([]domain.BulkItem, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, doc := range docs {
		buf.WriteString(`{"index":{}}` + "\n")
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encode bulk document: %w", err)
		}
	}

	res, err := c.es.Bulk(&buf, c.es.Bulk.WithIndex(index), c.es.Bulk.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: bulk write: %w", domain.ErrStoreUnavailable, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, apiError("bulk write "+index, res)
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read bulk response: %w", err)
	}
	return parseBulkItems(raw)
}

func (c *Client) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// apiError turns a non-2xx store response into an error carrying the
// engine-reported type and reason.
func apiError(op string, res *esapi.Response) error {
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%s: status %s", op, res.Status())
	}
	typ, reason := parseAPIError(raw)
	if typ == "" {
		return fmt.Errorf("%s: status %s", op, res.Status())
	}
	return fmt.Errorf("%s: %s: %s", op, typ, reason)
}
