package nlq

import (
	"context"
	"log"
	"time"

	"github.com/izzystu/geo-change-risk-sub000/internal/llm"
)

// TranslationClient turns a question into a QueryPlan. Implementations never
// return errors; failures are reported inside the result.
type TranslationClient interface {
	Translate(ctx context.Context, question string, tc TranslationContext) TranslationResult
	IsAvailable(ctx context.Context) bool
}

// ModelTranslator is a TranslationClient backed by any llm.Backend, so every
// backend shares the same prompt and reply parsing.
type ModelTranslator struct {
	backend llm.Backend
}

var _ TranslationClient = (*ModelTranslator)(nil)

func NewModelTranslator(backend llm.Backend) *ModelTranslator {
	return &ModelTranslator{backend: backend}
}

func (t *ModelTranslator) Translate(ctx context.Context, question string, tc TranslationContext) TranslationResult {
	text, err := t.backend.Complete(ctx, llm.Request{
		SystemPrompt: BuildSystemPrompt(tc),
		UserText:     question,
		JSON:         true,
	})
	if err != nil {
		log.Printf("[nlq] %s translation failed: %v", t.backend.Name(), err)
		return TranslationResult{ErrorMessage: "Translation service unavailable: " + err.Error()}
	}

	res := ParseModelResponse(text)
	if !res.Success {
		log.Printf("[nlq] %s reply rejected: %s", t.backend.Name(), res.ErrorMessage)
	}
	return res
}

// availabilityTimeout bounds the health check independently of the
// configured translation timeout.
const availabilityTimeout = 15 * time.Second

// IsAvailable sends a trivial prompt and reports whether any reply came back.
func (t *ModelTranslator) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, availabilityTimeout)
	defer cancel()

	_, err := t.backend.Complete(ctx, llm.Request{
		SystemPrompt: "Reply with the single word OK.",
		UserText:     "ping",
		MaxTokens:    8,
	})
	if err != nil {
		log.Printf("[nlq] %s availability check failed: %v", t.backend.Name(), err)
		return false
	}
	return true
}
