// Package relay provides the streaming relay server. It exposes one SSE
// endpoint per LLM provider, translating the normalized chat request into
// the provider's dialect and re-framing the upstream stream as normalized
// content events.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"go.uber.org/zap"

	"github.com/quorumchat/quorum/pkg/credentials"
	"github.com/quorumchat/quorum/pkg/llm"
	"github.com/quorumchat/quorum/pkg/llm/provider"
	"github.com/quorumchat/quorum/pkg/sse"
)

// Endpoint paths. The /api/claude and /api/grok names are kept for client
// compatibility even though the provider names differ.
const (
	PathOpenAI    = "/api/openai"
	PathAnthropic = "/api/claude"
	PathXAI       = "/api/grok"
	PathModels    = "/api/models"
)

// Relay is the streaming relay server. Each chat endpoint accepts a
// normalized request, authenticates against the named provider, and relays
// the upstream SSE stream downstream one text delta at a time.
type Relay struct {
	config     Config
	resolver   *credentials.Resolver
	logger     *zap.Logger
	httpClient *http.Client
	server     *fiber.App
	providers  map[string]provider.Provider
}

// New creates a new Relay. The resolver is injected so key sources
// (environment, credentials file, request header) stay testable.
func New(config Config, resolver *credentials.Resolver, logger *zap.Logger) (*Relay, error) {
	if resolver == nil {
		return nil, errors.New("credentials resolver is required")
	}

	providers := make(map[string]provider.Provider)
	for _, name := range provider.Names() {
		prov, err := provider.New(name, config.ProviderUpstreams[name])
		if err != nil {
			return nil, fmt.Errorf("could not create provider %s: %w", name, err)
		}
		providers[name] = prov
	}

	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
		// Enable streaming
		StreamRequestBody: true,
	})

	// Add compression middleware to handle responses
	app.Use(compress.New())

	r := &Relay{
		config:    config,
		resolver:  resolver,
		logger:    logger,
		server:    app,
		providers: providers,
		httpClient: &http.Client{
			// LLM requests can be slow, especially with thinking blocks
			Timeout: 5 * time.Minute,
		},
	}

	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	app.Get(PathModels, r.handleModels)
	app.Post(PathOpenAI, r.chatHandler(provider.OpenAI))
	app.Post(PathAnthropic, r.chatHandler(provider.Anthropic))
	app.Post(PathXAI, r.chatHandler(provider.XAI))

	return r, nil
}

// Run starts the relay server on the configured listening address.
func (r *Relay) Run() error {
	r.logger.Info("starting relay server",
		zap.String("listen", r.config.ListenAddr),
	)

	return r.server.Listen(r.config.ListenAddr)
}

// RunWithListener starts the relay server using the provided listener.
func (r *Relay) RunWithListener(listener net.Listener) error {
	r.logger.Info("starting relay server",
		zap.String("listen", listener.Addr().String()),
	)

	return r.server.Listener(listener)
}

// Close gracefully shuts down the relay.
func (r *Relay) Close() error {
	return r.server.Shutdown()
}

// handleModels returns the built-in model catalog.
func (r *Relay) handleModels(c *fiber.Ctx) error {
	return c.JSON(llm.KnownModels)
}

// chatHandler returns the streaming chat handler bound to one provider.
func (r *Relay) chatHandler(providerName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return r.handleChat(c, r.providers[providerName])
	}
}

// handleChat validates the request, resolves credentials, opens the
// upstream stream, and relays it downstream as normalized content events.
func (r *Relay) handleChat(c *fiber.Ctx, prov provider.Provider) error {
	startTime := time.Now()

	req := &llm.ChatRequest{}
	if err := json.Unmarshal(c.Body(), req); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("invalid request body")
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(err.Error())
	}

	apiKey := r.resolver.Resolve(prov.Name(), c.Get(credentials.APIKeysHeader))
	if apiKey == "" {
		r.logger.Warn("no API key available",
			zap.String("provider", prov.Name()),
		)
		return c.Status(fiber.StatusInternalServerError).
			SendString(fmt.Sprintf("missing %s API key", prov.Name()))
	}

	// Use context.Background() instead of c.Context() because fasthttp
	// recycles its RequestCtx after the handler returns, but the streaming
	// goroutine needs the upstream connection to remain open.
	httpReq, err := prov.BuildRequest(context.Background(), req, apiKey)
	if err != nil {
		r.logger.Error("failed to build upstream request", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).SendString("internal error")
	}

	r.logger.Debug("forwarding streaming request to upstream",
		zap.String("provider", prov.Name()),
		zap.String("model", req.Model),
		zap.Int("message_count", len(req.Messages)),
	)

	httpResp, err := r.httpClient.Do(httpReq)
	if err != nil {
		r.logger.Error("upstream request failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).SendString("upstream request failed")
	}
	if httpResp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(httpResp.Body)
		httpResp.Body.Close()
		r.logger.Error("upstream returned error",
			zap.String("provider", prov.Name()),
			zap.Int("status", httpResp.StatusCode),
			zap.String("body", string(respBody)),
		)
		// Forward the upstream status and body verbatim.
		return c.Status(httpResp.StatusCode).Send(respBody)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	// Use io.Pipe + SetBodyStream: pw.Write blocks until fasthttp's chunked
	// writer consumes the data and flushes to the TCP socket, giving direct
	// backpressure and true per-delta streaming.
	pr, pw := io.Pipe()
	go r.streamUpstream(httpResp, pw, prov, startTime)

	// Unknown size (-1) triggers chunked transfer encoding in fasthttp.
	c.Context().Response.SetBodyStream(pr, -1)

	return nil
}

// streamUpstream reads the upstream SSE stream, extracts text deltas via the
// provider adapter, and writes normalized content events to the pipe.
// Malformed upstream events are skipped rather than aborting the stream.
func (r *Relay) streamUpstream(httpResp *http.Response, pw *io.PipeWriter, prov provider.Provider, startTime time.Time) {
	defer httpResp.Body.Close()
	defer pw.Close()

	var deltaCount int

	reader := sse.NewReader(httpResp.Body)
	for {
		ev, err := reader.Next()
		if err != nil {
			r.logger.Error("error reading upstream stream",
				zap.String("provider", prov.Name()),
				zap.Error(err),
			)
			pw.CloseWithError(err)
			return
		}
		if ev == nil {
			break
		}

		delta, err := prov.ExtractDelta(*ev)
		if errors.Is(err, llm.ErrStreamDone) {
			break
		}
		if err != nil {
			r.logger.Debug("skipping malformed upstream event",
				zap.String("provider", prov.Name()),
				zap.Error(err),
			)
			continue
		}
		if delta == "" {
			continue
		}

		if err := sse.WriteContent(pw, delta); err != nil {
			// Client went away; stop reading upstream.
			r.logger.Debug("error writing delta to client", zap.Error(err))
			return
		}
		deltaCount++
	}

	r.logger.Debug("streaming complete",
		zap.String("provider", prov.Name()),
		zap.Int("delta_count", deltaCount),
		zap.Duration("duration", time.Since(startTime)),
	)
}
