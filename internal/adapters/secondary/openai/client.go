package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/AmitAMahadik/ExAstra/internal/domain"
)

const completionsPath = "/v1/chat/completions"

// Client is a chat-completions client. Model and temperature are fixed per
// call site, not user-configurable.
type Client struct {
	cfg        *Config
	HTTPClient *http.Client
	Log        *slog.Logger
}

func NewClient(cfg *Config, log *slog.Logger) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 90 * time.Second
	}

	return &Client{
		cfg: cfg,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		Log: log,
	}
}

func (c *Client) Model() string {
	return c.cfg.Model
}

// CreateChatCompletion issues a non-streamed completion and returns the first
// choice's content.
func (c *Client) CreateChatCompletion(ctx context.Context, messages []Message, temperature *float64) (string, error) {
	req := chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: temperature,
	}

	resp, err := c.post(ctx, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.WrapKind(domain.KindTransport, fmt.Errorf("read completion response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		c.Log.Debug("chat completion returned non-200 status",
			"status_code", resp.StatusCode,
			"body_preview", truncateString(string(body), 200),
		)
		return "", domain.WrapKind(domain.KindTransport,
			fmt.Errorf("chat completion error [status=%d]: %s", resp.StatusCode, truncateString(string(body), 500)))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", domain.WrapKind(domain.KindModelOutput, fmt.Errorf("unmarshal completion: %w", err))
	}
	if chatResp.Error != nil {
		return "", domain.WrapKind(domain.KindTransport, fmt.Errorf("chat completion error: %s", chatResp.Error.Message))
	}
	if len(chatResp.Choices) == 0 {
		return "", domain.WrapKind(domain.KindModelOutput, errors.New("chat completion returned no choices"))
	}

	return chatResp.Choices[0].Message.Content, nil
}

// StreamChatCompletion issues a streamed completion, invoking onToken for
// every content delta. The loop checks cancellation on each chunk so nothing
// is delivered after the context is done.
func (c *Client) StreamChatCompletion(ctx context.Context, messages []Message, temperature *float64, onToken func(token string) error) error {
	req := chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: temperature,
		Stream:      true,
	}

	resp, err := c.post(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.Log.Debug("chat completion stream returned non-200 status",
			"status_code", resp.StatusCode,
			"body_preview", truncateString(string(body), 200),
		)
		return domain.WrapKind(domain.KindTransport,
			fmt.Errorf("chat completion error [status=%d]: %s", resp.StatusCode, truncateString(string(body), 500)))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}

		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "[DONE]" {
			return nil
		}

		var chunk chatStreamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			// Skip malformed keep-alive frames; a dead stream fails below.
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		token := chunk.Choices[0].Delta.Content
		if token == "" {
			continue
		}
		if err := onToken(token); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return domain.WrapKind(domain.KindTransport, fmt.Errorf("read completion stream: %w", err))
	}
	return nil
}

func (c *Client) post(ctx context.Context, req chatRequest) (*http.Response, error) {
	if c.cfg.APIKey == "" {
		return nil, domain.WrapKind(domain.KindConfiguration, errors.New("missing chat completion API key"))
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal completion request: %w", err)
	}

	reqURL := strings.TrimSuffix(c.cfg.BaseURL, "/") + completionsPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("build completion request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, domain.WrapKind(domain.KindTransport, fmt.Errorf("chat completion request failed: %w", err))
	}
	return resp, nil
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
