package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/izzystu/geo-change-risk-sub000/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := llm.LoadFromEnv()
	cfg.Provider = llm.ProviderAnthropic
	cfg.AnthropicKey = "sk-test"
	cfg.AnthropicURL = srv.URL + "/v1/messages"
	cfg.AnthropicModel = "test-model"
	cfg.Timeout = 5 * time.Second
	return NewProvider(cfg)
}

func TestComplete_SendsHeadersAndConcatenatesText(t *testing.T) {
	var got messagesRequest
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))
		assert.Equal(t, apiVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"content": [
				{"type": "text", "text": "{\"interpretation\":"},
				{"type": "text", "text": "\"hi\"}"}
			],
			"stop_reason": "end_turn"
		}`))
	})

	text, err := p.Complete(context.Background(), llm.Request{SystemPrompt: "sys", UserText: "hello"})
	require.NoError(t, err)

	assert.Equal(t, `{"interpretation":"hi"}`, text)
	assert.Equal(t, "sys", got.System)
	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, llm.DefaultMaxTokens, got.MaxTokens)
}

func TestComplete_APIError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	})

	_, err := p.Complete(context.Background(), llm.Request{UserText: "hello"})

	var se *llm.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Equal(t, "invalid x-api-key", se.Message)
}

func TestComplete_NoTextBlocks(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"msg_2","type":"message","content":[]}`))
	})

	_, err := p.Complete(context.Background(), llm.Request{UserText: "hello"})
	assert.True(t, errors.Is(err, llm.ErrEmptyResponse))
}
