package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"empty response", fmt.Errorf("chat: %w", ErrEmptyResponse), "empty_response"},
		{"deadline", fmt.Errorf("chat request: %w", context.DeadlineExceeded), "timeout"},
		{"unauthorized", &StatusError{Provider: "anthropic", StatusCode: 401}, "auth"},
		{"rate limited", &StatusError{Provider: "anthropic", StatusCode: 429}, "rate_limit"},
		{"server error", &StatusError{Provider: "ollama", StatusCode: 503}, "server"},
		{"bad request", &StatusError{Provider: "ollama", StatusCode: 400}, "unknown"},
		{"client timeout text", errors.New("Client.Timeout exceeded while awaiting headers"), "timeout"},
		{"other", errors.New("connection refused"), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyError(tt.err); got != tt.expected {
				t.Errorf("classifyError(%v) = %q, want %q", tt.err, got, tt.expected)
			}
		})
	}
}

func TestStatusError_Message(t *testing.T) {
	err := &StatusError{Provider: "ollama", StatusCode: 404, Message: "model not found"}
	if got := err.Error(); got != "ollama returned 404: model not found" {
		t.Errorf("unexpected message %q", got)
	}
}
