package llm

import (
	"log"
	"time"
)

// LogRequest logs a model call being made. Prompt text is never logged.
func LogRequest(provider, model string, promptChars int) {
	log.Printf("[%s] request model=%s prompt_chars=%d", provider, model, promptChars)
}

func LogResponse(provider string, statusCode int, duration time.Duration, replyChars int) {
	log.Printf("[%s] response status=%d duration=%dms reply_chars=%d",
		provider, statusCode, duration.Milliseconds(), replyChars)
}

func LogError(provider, operation string, err error) {
	log.Printf("[%s] %s error: %v", provider, operation, err)
}
