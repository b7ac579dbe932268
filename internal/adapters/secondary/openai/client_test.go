package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmitAMahadik/ExAstra/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(&Config{BaseURL: srv.URL, APIKey: "test-key", Model: "gpt-4o-mini", Timeout: 5},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreateChatCompletion_ReturnsFirstChoice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		assert.False(t, req.Stream)
		require.NotNil(t, req.Temperature)
		assert.Zero(t, *req.Temperature)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"solarSign\":\"Pisces\"}"}}]}`))
	})

	temp := float64(0)
	content, err := client.CreateChatCompletion(context.Background(),
		[]Message{{Role: RoleUser, Content: "signs please"}}, &temp)
	require.NoError(t, err)
	assert.Equal(t, `{"solarSign":"Pisces"}`, content)
}

func TestCreateChatCompletion_APIErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
	})

	_, err := client.CreateChatCompletion(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Equal(t, domain.KindTransport, domain.KindOf(err))
	assert.Contains(t, err.Error(), "rate limited")
}

func TestCreateChatCompletion_MissingAPIKey(t *testing.T) {
	client := NewClient(&Config{BaseURL: "http://unused", Model: "gpt-4o-mini"},
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := client.CreateChatCompletion(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Equal(t, domain.KindConfiguration, domain.KindOf(err))
}

func TestStreamChatCompletion_DeliversDeltasInOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &req))
		assert.True(t, req.Stream)
		assert.Nil(t, req.Temperature, "chat keeps the model default temperature")

		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(
			`data: {"choices":[{"delta":{"content":"The "}}]}` + "\n\n" +
				`data: {"choices":[{"delta":{"content":"stars "}}]}` + "\n\n" +
				": keep-alive comment\n\n" +
				`data: {"choices":[{"delta":{}}]}` + "\n\n" +
				`data: {"choices":[{"delta":{"content":"align."}}]}` + "\n\n" +
				"data: [DONE]\n\n"))
	})

	var tokens []string
	err := client.StreamChatCompletion(context.Background(),
		[]Message{{Role: RoleUser, Content: "hello"}}, nil,
		func(token string) error {
			tokens = append(tokens, token)
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, []string{"The ", "stars ", "align."}, tokens)
}

func TestStreamChatCompletion_OnTokenErrorStopsStream(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(
			`data: {"choices":[{"delta":{"content":"one"}}]}` + "\n\n" +
				`data: {"choices":[{"delta":{"content":"two"}}]}` + "\n\n" +
				"data: [DONE]\n\n"))
	})

	stop := errors.New("stop")
	count := 0
	err := client.StreamChatCompletion(context.Background(), nil, nil, func(string) error {
		count++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, count)
}

func TestStreamChatCompletion_SkipsMalformedFrames(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(
			"data: {malformed\n\n" +
				`data: {"choices":[{"delta":{"content":"survived"}}]}` + "\n\n" +
				"data: [DONE]\n\n"))
	})

	var tokens []string
	err := client.StreamChatCompletion(context.Background(), nil, nil, func(token string) error {
		tokens = append(tokens, token)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"survived"}, tokens)
}

func TestStreamChatCompletion_Non200(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	})

	err := client.StreamChatCompletion(context.Background(), nil, nil, func(string) error { return nil })
	require.Error(t, err)
	assert.Equal(t, domain.KindTransport, domain.KindOf(err))
}
