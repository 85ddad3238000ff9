/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package crptapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/acronis/go-crptapi/httpclient"
	"github.com/acronis/go-crptapi/log"
	"github.com/acronis/go-crptapi/ratelimit"
)

// RequestTypeCreateDocument is the request type used in HTTP client logs and metrics.
const RequestTypeCreateDocument = "create-document"

const maxResponseBodySize = 1 << 20

// ClientOpts provides optional parameters for NewClient.
type ClientOpts struct {
	// LoggerProvider is a function that provides a context-specific logger for HTTP client logs.
	LoggerProvider func(ctx context.Context) log.FieldLogger

	// MetricsCollector is used when metrics are enabled in the config.
	MetricsCollector httpclient.MetricsCollector

	// Transport is the underlying RoundTripper. A clone of http.DefaultTransport is used if nil.
	Transport http.RoundTripper
}

// CreateDocumentResult is the outcome of a successful document submission.
type CreateDocumentResult struct {
	StatusCode int
	Body       []byte
	// Value is the document identifier assigned by the API, if the response body contains it.
	Value string
}

// Client submits documents to the registration API.
type Client struct {
	url             string
	signatureHeader string
	httpClient      *http.Client
}

// NewClient creates a new Client.
// limiter is acquired exactly once before each request. It may be shared with other clients.
func NewClient(cfg *Config, limiter ratelimit.Acquirer, opts ClientOpts) (*Client, error) {
	if limiter == nil {
		return nil, fmt.Errorf("limiter is required")
	}
	httpClient, err := httpclient.New(&cfg.HTTPClient, httpclient.Opts{
		Limiter:        limiter,
		UserAgent:      cfg.UserAgent,
		RequestType:    RequestTypeCreateDocument,
		Delegate:       opts.Transport,
		LoggerProvider: opts.LoggerProvider,
		Collector:      opts.MetricsCollector,
	})
	if err != nil {
		return nil, fmt.Errorf("new http client: %w", err)
	}
	signatureHeader := cfg.SignatureHeader
	if signatureHeader == "" {
		signatureHeader = DefaultSignatureHeader
	}
	return &Client{url: cfg.URL, signatureHeader: signatureHeader, httpClient: httpClient}, nil
}

// CreateDocument submits the document signed with the signature.
// The document is serialized before a rate limit permit is acquired, so serialization errors consume no permits.
// Non-2xx responses are returned as *APIError. If waiting for a permit is cancelled,
// the returned error matches ratelimit.ErrCancelled.
func (c *Client) CreateDocument(ctx context.Context, doc *Document, signature string) (*CreateDocumentResult, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(c.signatureHeader, signature)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send document %q: %w", doc.DocID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp, respBody)
	}

	result := &CreateDocumentResult{StatusCode: resp.StatusCode, Body: respBody}
	var parsed struct {
		Value string `json:"value"`
	}
	if json.Unmarshal(respBody, &parsed) == nil {
		result.Value = parsed.Value
	}
	return result, nil
}
