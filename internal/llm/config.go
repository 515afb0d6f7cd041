package llm

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// ProviderType identifies which model backend to use.
type ProviderType string

const (
	ProviderOllama    ProviderType = "ollama"
	ProviderAnthropic ProviderType = "anthropic"
)

const (
	DefaultOllamaURL      = "http://localhost:11434"
	DefaultOllamaModel    = "llama3.1:8b"
	DefaultAnthropicURL   = "https://api.anthropic.com/v1/messages"
	DefaultAnthropicModel = "claude-sonnet-4-20250514"
	DefaultTimeout        = 60 * time.Second
	DefaultMaxTokens      = 1024
)

// Config holds configuration for the model backend.
type Config struct {
	Provider ProviderType `yaml:"provider"`

	OllamaURL   string `yaml:"ollamaUrl"`
	OllamaModel string `yaml:"ollamaModel"`

	AnthropicKey   string `yaml:"-"`
	AnthropicModel string `yaml:"anthropicModel"`
	AnthropicURL   string `yaml:"anthropicUrl"`

	// Timeout bounds a single model round-trip.
	Timeout     time.Duration `yaml:"-"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"maxTokens"`
}

// fileConfig mirrors Config for YAML, with the timeout in whole seconds.
type fileConfig struct {
	Config         `yaml:",inline"`
	TimeoutSeconds int `yaml:"timeoutSeconds"`
}

func defaultConfig() Config {
	return Config{
		Provider:       ProviderOllama,
		OllamaURL:      DefaultOllamaURL,
		OllamaModel:    DefaultOllamaModel,
		AnthropicModel: DefaultAnthropicModel,
		AnthropicURL:   DefaultAnthropicURL,
		Timeout:        DefaultTimeout,
		Temperature:    0,
		MaxTokens:      DefaultMaxTokens,
	}
}

// LoadFromEnv loads backend configuration from environment variables.
//
// Environment variables:
//   - QUERY_PROVIDER: "ollama" or "anthropic" (default: "ollama")
//   - OLLAMA_URL, OLLAMA_MODEL
//   - ANTHROPIC_API_KEY (required if using anthropic), ANTHROPIC_MODEL, ANTHROPIC_URL
//   - QUERY_TIMEOUT_SECONDS (default: 60)
func LoadFromEnv() Config {
	cfg := defaultConfig()
	applyEnv(&cfg)
	return cfg
}

// Load reads an optional YAML file and then applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, err
		default:
			if err := applyYAML(&cfg, data); err != nil {
				return cfg, fmt.Errorf("%s: %w", path, err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyYAML(cfg *Config, data []byte) error {
	fc := fileConfig{Config: *cfg}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}
	timeout := cfg.Timeout
	*cfg = fc.Config
	cfg.Timeout = timeout
	if fc.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(fc.TimeoutSeconds) * time.Second
	}
	cfg.Provider = ProviderType(strings.ToLower(strings.TrimSpace(string(cfg.Provider))))
	return nil
}

func applyEnv(cfg *Config) {
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("QUERY_PROVIDER"))); v != "" {
		cfg.Provider = ProviderType(v)
	}
	if v := strings.TrimSpace(os.Getenv("OLLAMA_URL")); v != "" {
		cfg.OllamaURL = v
	}
	if v := strings.TrimSpace(os.Getenv("OLLAMA_MODEL")); v != "" {
		cfg.OllamaModel = v
	}
	if v := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); v != "" {
		cfg.AnthropicKey = v
	}
	if v := strings.TrimSpace(os.Getenv("ANTHROPIC_MODEL")); v != "" {
		cfg.AnthropicModel = v
	}
	if v := strings.TrimSpace(os.Getenv("ANTHROPIC_URL")); v != "" {
		cfg.AnthropicURL = v
	}
	if v := strings.TrimSpace(os.Getenv("QUERY_TIMEOUT_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Timeout = time.Duration(n) * time.Second
		}
	}
}

// Validate checks that the configuration is valid for the selected provider.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderOllama:
		if c.OllamaURL == "" || c.OllamaModel == "" {
			return errors.New("OLLAMA_URL and OLLAMA_MODEL must not be empty")
		}
	case ProviderAnthropic:
		if c.AnthropicKey == "" {
			return ErrMissingAnthropicKey
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider)
	}
	return nil
}
