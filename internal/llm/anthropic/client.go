package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/izzystu/geo-change-risk-sub000/internal/llm"
)

const (
	providerName = "anthropic"
	apiVersion   = "2023-06-01"
)

// Client is an HTTP client for the Anthropic Messages API.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewClient(endpoint, apiKey string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model       string    `json:"model"`
	System      string    `json:"system,omitempty"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature *float64  `json:"temperature,omitempty"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type messagesResponse struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Error      *apiError      `json:"error,omitempty"`
}

// CreateMessage sends one user turn and concatenates the text blocks of the
// reply.
func (c *Client) CreateMessage(ctx context.Context, model string, req llm.Request, temperature float64, maxTokens int) (string, int, error) {
	body := messagesRequest{
		Model:     model,
		System:    req.SystemPrompt,
		Messages:  []message{{Role: "user", Content: req.UserText}},
		MaxTokens: maxTokens,
	}
	temp := temperature
	body.Temperature = &temp

	payload, err := json.Marshal(body)
	if err != nil {
		return "", 0, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", 0, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", 0, fmt.Errorf("messages request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	var out messagesResponse
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(raw))
		if decodeErr == nil && out.Error != nil {
			msg = out.Error.Message
		}
		return "", resp.StatusCode, &llm.StatusError{Provider: providerName, StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return "", resp.StatusCode, fmt.Errorf("decode response: %w", decodeErr)
	}

	var sb strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", resp.StatusCode, llm.ErrEmptyResponse
	}
	return sb.String(), resp.StatusCode, nil
}
