package ollama

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
	cfg.OllamaURL = srv.URL
	cfg.OllamaModel = "test-model"
	cfg.Timeout = 5 * time.Second
	return NewProvider(cfg)
}

func TestComplete_SendsChatRequest(t *testing.T) {
	var got chatRequest
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(chatResponse{
			Model:   "test-model",
			Message: chatMessage{Role: "assistant", Content: `{"interpretation":"ok","plan":null}`},
			Done:    true,
		})
	})

	text, err := p.Complete(context.Background(), llm.Request{SystemPrompt: "sys", UserText: "hello", JSON: true})
	require.NoError(t, err)

	assert.Equal(t, `{"interpretation":"ok","plan":null}`, text)
	assert.Equal(t, "test-model", got.Model)
	assert.False(t, got.Stream)
	assert.Equal(t, "json", got.Format)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "hello", got.Messages[1].Content)
}

func TestComplete_NonSuccessStatus(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model \"test-model\" not found"}`))
	})

	_, err := p.Complete(context.Background(), llm.Request{UserText: "hello"})
	require.Error(t, err)

	var se *llm.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Contains(t, se.Message, "not found")
}

func TestComplete_BlankReply(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"  "},"done":true}`))
	})

	_, err := p.Complete(context.Background(), llm.Request{UserText: "hello"})
	assert.True(t, errors.Is(err, llm.ErrEmptyResponse))
}

func TestComplete_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-time.After(5 * time.Second):
		}
	})
	// Registered after the server's Close, so it runs first and frees the handler.
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := p.Complete(ctx, llm.Request{UserText: "hello"})
	assert.Error(t, err)
}
