package ollama

import (
	"context"
	"time"

	"github.com/izzystu/geo-change-risk-sub000/internal/llm"
)

// Compile-time check that Provider implements llm.Backend.
var _ llm.Backend = (*Provider)(nil)

func init() {
	llm.RegisterProvider(llm.ProviderOllama, func(cfg llm.Config) (llm.Backend, error) {
		return NewProvider(cfg), nil
	})
}

// Provider serves completions from a local or self-hosted Ollama instance.
type Provider struct {
	client      *Client
	model       string
	temperature float64
	maxTokens   int
}

func NewProvider(cfg llm.Config) *Provider {
	return &Provider{
		client:      NewClient(cfg.OllamaURL, cfg.Timeout),
		model:       cfg.OllamaModel,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

func (p *Provider) Name() string  { return providerName }
func (p *Provider) Model() string { return p.model }

func (p *Provider) Complete(ctx context.Context, req llm.Request) (string, error) {
	maxTokens := p.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	llm.LogRequest(providerName, p.model, len(req.SystemPrompt)+len(req.UserText))
	start := time.Now()
	text, status, err := p.client.Chat(ctx, p.model, req, p.temperature, maxTokens)
	elapsed := time.Since(start)
	llm.RecordCall(providerName, elapsed, err)
	if err != nil {
		llm.LogError(providerName, "chat", err)
		return "", err
	}
	llm.LogResponse(providerName, status, elapsed, len(text))
	return text, nil
}
