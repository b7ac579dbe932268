package ephemeris

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/AmitAMahadik/ExAstra/internal/domain"
)

const (
	mcpPath          = "/mcp"
	sessionHeader    = "Mcp-Session-Id"
	protocolVersion  = "2024-11-05"
	toolName         = "calculate_planetary_positions"
	isoFractionalFmt = "2006-01-02T15:04:05.000Z07:00"
)

// Client is a StreamableHTTP MCP client for the swiss-ephemeris server.
// Session establishment is serialized; tool calls after that may run
// concurrently.
type Client struct {
	cfg        *Config
	HTTPClient *http.Client
	Log        *slog.Logger

	sessionMu sync.Mutex
	sessionID string
}

func NewClient(cfg *Config, log *slog.Logger) *Client {
	transport := &http.Transport{}

	if cfg.ShouldSkipSSL() {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		cfg: cfg,
		HTTPClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		Log: log,
	}
}

// FetchMoonInfo returns the Moon's position for an absolute UTC instant and
// coordinates, under the requested zodiac system.
func (c *Client) FetchMoonInfo(ctx context.Context, instantUTC time.Time, lat, lon float64, zodiac domain.ZodiacSystem) (*domain.MoonInfo, error) {
	if err := c.ensureInitialized(ctx); err != nil {
		return nil, err
	}

	payload := rpcRequest{
		JSONRPC: "2.0",
		ID:      3,
		Method:  "tools/call",
		Params: toolCallParams{
			Name: toolName,
			Arguments: toolArguments{
				Datetime:  instantUTC.UTC().Format(isoFractionalFmt),
				Latitude:  lat,
				Longitude: lon,
				Zodiac:    string(zodiac),
			},
		},
	}

	c.sessionMu.Lock()
	sid := c.sessionID
	c.sessionMu.Unlock()

	body, _, err := c.postMCP(ctx, payload, sid)
	if err != nil {
		return nil, err
	}

	envelope, err := parseFirstSSEDataEnvelope(body)
	if err != nil {
		return nil, err
	}

	inner, err := extractInnerText(envelope)
	if err != nil {
		return nil, err
	}

	return parseMoonInfo(inner)
}

// ResetSession drops the cached session id so the next call re-initializes.
// Called by the owner after an invalid/expired-session failure; there is no
// automatic retry.
func (c *Client) ResetSession() {
	c.sessionMu.Lock()
	c.sessionID = ""
	c.sessionMu.Unlock()
}

// ensureInitialized performs the MCP initialize handshake once and caches the
// session id the server issues via the Mcp-Session-Id response header. The
// mutex guarantees two concurrent first calls cannot race two handshakes.
func (c *Client) ensureInitialized(ctx context.Context) error {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()

	if c.sessionID != "" {
		return nil
	}

	payload := rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "initialize",
		Params: initializeParams{
			ProtocolVersion: protocolVersion,
			ClientInfo:      clientInfo{Name: "ExAstra-Go", Version: "1.0"},
			Capabilities:    map[string]any{},
		},
	}

	_, headers, err := c.postMCP(ctx, payload, "")
	if err != nil {
		return err
	}

	sid := headers.Get(sessionHeader) // header lookup is case-insensitive
	if sid == "" {
		return domain.WrapKind(domain.KindProtocol, ErrMissingSessionID)
	}

	c.sessionID = sid
	c.Log.Debug("mcp session established")
	return nil
}

func (c *Client) postMCP(ctx context.Context, payload rpcRequest, sessionID string) (string, http.Header, error) {
	reqURL := strings.TrimSuffix(c.cfg.BaseURL, "/") + mcpPath

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(mustMarshal(payload)))
	if err != nil {
		return "", nil, fmt.Errorf("build mcp request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	// The server answers 406 without the event-stream accept
	httpReq.Header.Set("Accept", "application/json, text/event-stream")
	if sessionID != "" {
		httpReq.Header.Set(sessionHeader, sessionID)
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return "", nil, domain.WrapKind(domain.KindTransport, fmt.Errorf("mcp request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, domain.WrapKind(domain.KindTransport, fmt.Errorf("read mcp response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.Log.Debug("mcp server returned non-2xx status",
			"status_code", resp.StatusCode,
			"method", payload.Method,
			"body_preview", truncateString(string(body), 200),
		)
		return "", nil, domain.WrapKind(domain.KindTransport,
			fmt.Errorf("mcp error [status=%d]: %s", resp.StatusCode, truncateString(string(body), 500)))
	}

	return string(body), resp.Header, nil
}

// parseFirstSSEDataEnvelope locates the first data: line of the event stream
// and decodes it as the JSON-RPC envelope.
func parseFirstSSEDataEnvelope(sseText string) (*rpcEnvelope, error) {
	for _, rawLine := range strings.Split(sseText, "\n") {
		line := strings.TrimSpace(rawLine)
		if !strings.HasPrefix(line, "data:") {
			continue
		}

		jsonPart := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if !json.Valid([]byte(jsonPart)) {
			return nil, domain.WrapKind(domain.KindProtocol, ErrInvalidEnvelopeJSON)
		}

		var envelope rpcEnvelope
		if err := json.Unmarshal([]byte(jsonPart), &envelope); err != nil {
			return nil, domain.WrapKind(domain.KindProtocol, ErrUnexpectedEnvelope)
		}
		return &envelope, nil
	}

	return nil, domain.WrapKind(domain.KindProtocol, ErrMissingSSEData)
}

// extractInnerText pulls the double-encoded tool payload out of the envelope:
// result.content[0].text is itself a JSON document.
func extractInnerText(envelope *rpcEnvelope) (string, error) {
	if envelope.Result == nil || len(envelope.Result.Content) == 0 || envelope.Result.Content[0].Text == "" {
		return "", domain.WrapKind(domain.KindProtocol, ErrUnexpectedEnvelope)
	}
	return envelope.Result.Content[0].Text, nil
}

func parseMoonInfo(inner string) (*domain.MoonInfo, error) {
	if !json.Valid([]byte(inner)) {
		return nil, domain.WrapKind(domain.KindProtocol, ErrInvalidInnerJSON)
	}

	var payload innerPayload
	if err := json.Unmarshal([]byte(inner), &payload); err != nil {
		return nil, domain.WrapKind(domain.KindProtocol, ErrInvalidInnerJSON)
	}

	moon, ok := payload.Planets["Moon"]
	if !ok || moon.Longitude == nil || moon.Sign == nil || moon.Degree == nil {
		return nil, domain.WrapKind(domain.KindProtocol, ErrMissingMoonFields)
	}

	return &domain.MoonInfo{
		Longitude:    *moon.Longitude,
		Sign:         *moon.Sign,
		DegreeInSign: *moon.Degree,
	}, nil
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
