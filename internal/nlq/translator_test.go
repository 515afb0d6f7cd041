package nlq

import (
	"context"
	"errors"
	"testing"

	"github.com/izzystu/geo-change-risk-sub000/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	reply string
	err   error
	got   []llm.Request
}

func (f *fakeBackend) Name() string  { return "fake" }
func (f *fakeBackend) Model() string { return "fake-1" }

func (f *fakeBackend) Complete(ctx context.Context, req llm.Request) (string, error) {
	f.got = append(f.got, req)
	return f.reply, f.err
}

func TestModelTranslator_Translate(t *testing.T) {
	backend := &fakeBackend{reply: "```json\n" + samplePlanJSON + "\n```"}
	tr := NewModelTranslator(backend)

	res := tr.Translate(context.Background(), "critical risks", TranslationContext{KnownAOINames: []string{"Sonoma County"}})

	require.True(t, res.Success, res.ErrorMessage)
	assert.Equal(t, EntityRiskEvent, res.Plan.TargetEntity)
	require.Len(t, backend.got, 1)
	assert.Equal(t, "critical risks", backend.got[0].UserText)
	assert.True(t, backend.got[0].JSON)
	assert.Contains(t, backend.got[0].SystemPrompt, "Sonoma County")
}

func TestModelTranslator_BackendError(t *testing.T) {
	tr := NewModelTranslator(&fakeBackend{err: errors.New("connection refused")})

	res := tr.Translate(context.Background(), "critical risks", TranslationContext{})

	assert.False(t, res.Success)
	assert.Equal(t, "Translation service unavailable: connection refused", res.ErrorMessage)
}

func TestModelTranslator_UnparseableReply(t *testing.T) {
	tr := NewModelTranslator(&fakeBackend{reply: "Sorry, I can't do that."})

	res := tr.Translate(context.Background(), "critical risks", TranslationContext{})

	assert.False(t, res.Success)
	assert.Contains(t, res.ErrorMessage, "Failed to parse model response")
}

func TestModelTranslator_IsAvailable(t *testing.T) {
	assert.True(t, NewModelTranslator(&fakeBackend{reply: "OK"}).IsAvailable(context.Background()))
	assert.False(t, NewModelTranslator(&fakeBackend{err: llm.ErrEmptyResponse}).IsAvailable(context.Background()))
}

func TestNewTranslator_BadConfigIsUnavailable(t *testing.T) {
	tr := NewTranslator(llm.Config{Provider: "mystery"})

	assert.False(t, tr.IsAvailable(context.Background()))
	res := tr.Translate(context.Background(), "anything", TranslationContext{})
	assert.False(t, res.Success)
	assert.Contains(t, res.ErrorMessage, "Translation service unavailable")
}
