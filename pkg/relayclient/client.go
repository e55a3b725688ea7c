// Package relayclient is the CLI-side client for the relay server. It posts
// normalized chat requests and decodes the relay's content-event stream.
package relayclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quorumchat/quorum/pkg/llm"
	"github.com/quorumchat/quorum/pkg/sse"
)

// endpointPaths maps provider names to relay endpoint paths.
var endpointPaths = map[string]string{
	"openai":    "/api/openai",
	"anthropic": "/api/claude",
	"xai":       "/api/grok",
}

// StatusError is returned when the relay responds with a non-200 status.
// The body is the relay's plain-text error or the forwarded upstream body.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("relay returned status %d: %s", e.Code, e.Body)
}

// Client talks to a running relay server.
type Client struct {
	target     string
	apiKeys    string
	httpClient *http.Client
}

// New returns a Client for the relay at target (scheme + host + port).
func New(target string) *Client {
	return &Client{
		target: strings.TrimSuffix(target, "/"),
		httpClient: &http.Client{
			// LLM streams can run long.
			Timeout: 5 * time.Minute,
		},
	}
}

// WithAPIKeysHeader sets the raw X-Api-Keys header value sent with every
// request, for relays that have no keys configured server-side.
func (c *Client) WithAPIKeysHeader(headerJSON string) *Client {
	c.apiKeys = headerJSON
	return c
}

// WithHTTPClient replaces the underlying HTTP client. Used by tests.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.httpClient = httpClient
	return c
}

// Stream posts the chat request to the provider's relay endpoint, invoking
// onDelta for each text delta, and returns the concatenated response text.
func (c *Client) Stream(ctx context.Context, providerName string, req *llm.ChatRequest, onDelta func(delta string)) (string, error) {
	path, ok := endpointPaths[providerName]
	if !ok {
		return "", fmt.Errorf("unsupported provider %q", providerName)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.target+path, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building relay request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if c.apiKeys != "" {
		httpReq.Header.Set("X-Api-Keys", c.apiKeys)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("relay request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(httpResp.Body)
		return "", &StatusError{Code: httpResp.StatusCode, Body: string(body)}
	}

	var full strings.Builder

	reader := sse.NewReader(httpResp.Body)
	for {
		ev, err := reader.Next()
		if err != nil {
			return full.String(), fmt.Errorf("reading relay stream: %w", err)
		}
		if ev == nil {
			break
		}

		var content sse.ContentEvent
		if err := json.Unmarshal([]byte(ev.Data), &content); err != nil {
			// Not a content event; ignore.
			continue
		}
		if content.Content == "" {
			continue
		}

		full.WriteString(content.Content)
		if onDelta != nil {
			onDelta(content.Content)
		}
	}

	return full.String(), nil
}
