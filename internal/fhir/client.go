// Package fhir is the HTTP client for the remote FHIR R4 resource server.
// The server is a black box: the client only consumes its request/response
// contract and never assumes anything about storage or query semantics.
package fhir

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jwalitptl/fhir-console/internal/model"
	"github.com/jwalitptl/fhir-console/pkg/auth"
	"github.com/jwalitptl/fhir-console/pkg/circuitbreaker"
	"github.com/jwalitptl/fhir-console/pkg/logger"
	"github.com/jwalitptl/fhir-console/pkg/metrics"
)

const mimeFHIRJSON = "application/fhir+json"

// StatusError reports a non-2xx response from the resource server. The
// code survives the wrapping chain so callers can map it to their own
// error surface.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("resource server returned status %d", e.StatusCode)
}

// PageParams is the fetch window of one list request. Subject, when set,
// scopes the search to resources referencing that patient.
type PageParams struct {
	Count   int
	Offset  int
	Subject string
}

// Config holds client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client issues requests against one resource server, attaching the bearer
// credential from its token source and guarding calls with a circuit
// breaker.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  auth.TokenSource
	breaker *circuitbreaker.CircuitBreaker
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewClient(cfg Config, tokens auth.TokenSource, breaker *circuitbreaker.CircuitBreaker, log *logger.Logger, m *metrics.Metrics) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if log == nil {
		log = logger.NewLogger(nil)
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		breaker: breaker,
		logger:  log,
		metrics: m,
	}
}

// SearchPage fetches one page of a resource listing and unwraps the bundle
// envelope into a flat, server-ordered slice. An absent entry collection
// is a normal empty result, not a fault.
func SearchPage[T any](ctx context.Context, c *Client, kind string, p PageParams) ([]T, error) {
	q := url.Values{}
	q.Set("_count", strconv.Itoa(p.Count))
	q.Set("_offset", strconv.Itoa(p.Offset))
	if p.Subject != "" {
		q.Set("subject", p.Subject)
	}

	start := time.Now()
	body, err := c.request(ctx, http.MethodGet, "/fhir/"+kind+"?"+q.Encode(), nil)
	c.observeFetch(kind, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s page: %w", kind, err)
	}

	var bundle model.Bundle
	if err := json.Unmarshal(body, &bundle); err != nil {
		c.countFetchError(kind)
		return nil, fmt.Errorf("failed to decode %s bundle: %w", kind, err)
	}

	records := make([]T, 0, len(bundle.Entry))
	for _, entry := range bundle.Entry {
		if entry.Resource == nil {
			continue
		}
		var rec T
		if err := json.Unmarshal(entry.Resource, &rec); err != nil {
			c.countFetchError(kind)
			return nil, fmt.Errorf("failed to decode %s entry: %w", kind, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Ping probes the resource server's capability statement. Used by the
// readiness surface only.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.request(ctx, http.MethodGet, "/fhir/metadata", nil); err != nil {
		return fmt.Errorf("resource server unreachable: %w", err)
	}
	return nil
}

// Get reads one resource by id.
func (c *Client) Get(ctx context.Context, kind, id string, out any) error {
	start := time.Now()
	body, err := c.request(ctx, http.MethodGet, "/fhir/"+kind+"/"+id, nil)
	c.observeFetch(kind, start, err)
	if err != nil {
		return fmt.Errorf("failed to get %s/%s: %w", kind, id, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.countFetchError(kind)
		return fmt.Errorf("failed to decode %s/%s: %w", kind, id, err)
	}
	return nil
}

// Create posts a new resource. The response body is logged for diagnosis
// only; the status code alone decides success.
func (c *Client) Create(ctx context.Context, kind string, resource any) error {
	if _, err := c.request(ctx, http.MethodPost, "/fhir/"+kind, resource); err != nil {
		return fmt.Errorf("failed to create %s: %w", kind, err)
	}
	return nil
}

// Update replaces an existing resource by id.
func (c *Client) Update(ctx context.Context, kind, id string, resource any) error {
	if _, err := c.request(ctx, http.MethodPut, "/fhir/"+kind+"/"+id, resource); err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", kind, id, err)
	}
	return nil
}

// Delete removes a resource by id.
func (c *Client) Delete(ctx context.Context, kind, id string) error {
	if _, err := c.request(ctx, http.MethodDelete, "/fhir/"+kind+"/"+id, nil); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", kind, id, err)
	}
	return nil
}

func (c *Client) request(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", mimeFHIRJSON)
	req.Header.Set("Accept", mimeFHIRJSON)

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to obtain access token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	var body []byte
	call := func() error {
		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			c.logger.Debug("resource server error response",
				"status", resp.StatusCode, "path", path, "body", truncate(body, 512))
			return &StatusError{StatusCode: resp.StatusCode}
		}
		return nil
	}

	if c.breaker != nil {
		err = c.breaker.Execute(call)
	} else {
		err = call()
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) observeFetch(kind string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	c.metrics.FetchTotal.WithLabelValues(kind).Inc()
	c.metrics.FetchLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.FetchErrors.WithLabelValues(kind).Inc()
	}
}

func (c *Client) countFetchError(kind string) {
	if c.metrics == nil {
		return
	}
	c.metrics.FetchErrors.WithLabelValues(kind).Inc()
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
