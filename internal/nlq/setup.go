package nlq

import (
	"context"
	"log"
	"os"

	"github.com/izzystu/geo-change-risk-sub000/internal/db"
	"github.com/izzystu/geo-change-risk-sub000/internal/llm"

	// Import backends to register them via init()
	_ "github.com/izzystu/geo-change-risk-sub000/internal/llm/anthropic"
	_ "github.com/izzystu/geo-change-risk-sub000/internal/llm/ollama"
)

// QueryService is the active query service, built by Init.
var QueryService *Service

// ConfigPath returns GEORISK_CONFIG, defaulting to config.yaml.
func ConfigPath() string {
	if p := os.Getenv("GEORISK_CONFIG"); p != "" {
		return p
	}
	return "config.yaml"
}

// NewTranslator builds the configured model translator. When the backend
// cannot be built the returned client reports that error on every call.
func NewTranslator(cfg llm.Config) TranslationClient {
	backend, err := llm.NewBackend(cfg)
	if err != nil {
		log.Printf("[nlq] WARNING: Failed to initialize %s backend: %v", cfg.Provider, err)
		log.Printf("[nlq] Natural-language queries will report the translator as unavailable")
		return unavailableTranslator{err: err}
	}
	log.Printf("[nlq] Initialized %s backend (model %s)", backend.Name(), backend.Model())
	return NewModelTranslator(backend)
}

func Init() {
	cfg, err := llm.Load(ConfigPath())
	if err != nil {
		log.Fatal("Failed to load query config: ", err)
	}

	QueryService = NewService(NewTranslator(cfg), NewExecutor(db.DB), NewAOIDirectory(db.DB))
}

type unavailableTranslator struct {
	err error
}

func (u unavailableTranslator) Translate(ctx context.Context, question string, tc TranslationContext) TranslationResult {
	return TranslationResult{ErrorMessage: "Translation service unavailable: " + u.err.Error()}
}

func (u unavailableTranslator) IsAvailable(ctx context.Context) bool { return false }
