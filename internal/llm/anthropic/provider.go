package anthropic

import (
	"context"
	"time"

	"github.com/izzystu/geo-change-risk-sub000/internal/llm"
)

var _ llm.Backend = (*Provider)(nil)

func init() {
	llm.RegisterProvider(llm.ProviderAnthropic, func(cfg llm.Config) (llm.Backend, error) {
		return NewProvider(cfg), nil
	})
}

// Provider serves completions from the hosted Anthropic API.
type Provider struct {
	client      *Client
	model       string
	temperature float64
	maxTokens   int
}

func NewProvider(cfg llm.Config) *Provider {
	endpoint := cfg.AnthropicURL
	if endpoint == "" {
		endpoint = llm.DefaultAnthropicURL
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = llm.DefaultMaxTokens
	}
	return &Provider{
		client:      NewClient(endpoint, cfg.AnthropicKey, cfg.Timeout),
		model:       cfg.AnthropicModel,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
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
	text, status, err := p.client.CreateMessage(ctx, p.model, req, p.temperature, maxTokens)
	elapsed := time.Since(start)
	llm.RecordCall(providerName, elapsed, err)
	if err != nil {
		llm.LogError(providerName, "messages", err)
		return "", err
	}
	llm.LogResponse(providerName, status, elapsed, len(text))
	return text, nil
}
