package llm

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrMissingAnthropicKey = errors.New("ANTHROPIC_API_KEY environment variable is required for anthropic provider")
	ErrUnknownProvider     = errors.New("unknown provider type")
	ErrEmptyResponse       = errors.New("model returned an empty response")
)

// Request is a single-turn completion: one system prompt, one user message.
type Request struct {
	SystemPrompt string
	UserText     string
	// MaxTokens overrides the configured output budget when > 0.
	MaxTokens int
	// JSON asks backends that support it to constrain output to JSON.
	JSON bool
}

// Backend is a language-model endpoint that turns a prompt into text.
// Implementations are safe for concurrent use.
type Backend interface {
	// Name returns the provider identifier ("ollama", "anthropic").
	Name() string

	// Model returns the model identifier requests are sent to.
	Model() string

	// Complete sends the request and returns the raw assistant text.
	// Transport failures, non-2xx statuses and blank replies are errors.
	Complete(ctx context.Context, req Request) (string, error)
}

var providerRegistry = make(map[ProviderType]func(Config) (Backend, error))

// RegisterProvider is called from each backend package's init().
func RegisterProvider(providerType ProviderType, constructor func(Config) (Backend, error)) {
	providerRegistry[providerType] = constructor
}

// NewBackend validates cfg and builds the selected backend.
func NewBackend(cfg Config) (Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	constructor, ok := providerRegistry[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}

	return constructor(cfg)
}
