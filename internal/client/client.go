package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	operationName = "list_nodes"
	nodeQuery     = `query list_nodes { nodes { nodeID created farmID resourcesTotal { cru hru mru sru } } }`
)

// Config holds configuration for Client.
type Config struct {
	Endpoint       string
	UserAgent      string
	RequestTimeout time.Duration
}

// Client fetches node snapshots from a grid GraphQL endpoint.
type Client struct {
	http   *http.Client
	config Config
}

// New constructs a Client from the given config.
// Returns an error if Endpoint is empty. The default transport is kept, so
// compressed responses are accepted and decoded transparently.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("Endpoint is required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	return &Client{
		http: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		config: cfg,
	}, nil
}

// StatusError is returned when the endpoint answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// FetchNodes performs one GraphQL query and returns every node's identifier,
// farm, creation timestamp, and capacity totals. Any transport, status,
// decode, or schema failure is returned as-is; there are no retries, a
// report built from partial data would misrepresent the grid.
func (c *Client) FetchNodes(ctx context.Context) ([]Node, error) {
	payload, err := json.Marshal(graphQLRequest{
		OperationName: operationName,
		Query:         nodeQuery,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	const maxResponseBytes = 32 * 1024 * 1024 // 32 MB — well above any real node list
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: truncate(body, 200)}
	}

	var result nodesResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode nodes: %w", err)
	}

	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("%w: graphql error: %s", ErrSchema, result.Errors[0].Message)
	}
	if result.Data == nil || result.Data.Nodes == nil {
		return nil, fmt.Errorf("%w: response missing data.nodes", ErrSchema)
	}

	return result.Data.Nodes, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
