package nlq

import (
	"encoding/json"
	"errors"
	"strings"
)

// TranslationResult is the outcome of turning a question into a plan.
// Success implies Plan is non-nil.
type TranslationResult struct {
	Success        bool
	Plan           *QueryPlan
	Interpretation string
	ErrorMessage   string
}

type modelEnvelope struct {
	Interpretation string     `json:"interpretation"`
	Plan           *QueryPlan `json:"plan"`
}

var errNoJSONObject = errors.New("no JSON object found")

// ParseModelResponse decodes the model's reply. Code fences and text around
// the outermost JSON object are tolerated.
func ParseModelResponse(text string) TranslationResult {
	if strings.TrimSpace(text) == "" {
		return TranslationResult{ErrorMessage: "The model returned an empty response"}
	}

	body := extractJSONText(text)
	if body == "" {
		return TranslationResult{ErrorMessage: "Failed to parse model response: " + errNoJSONObject.Error()}
	}

	var env modelEnvelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return TranslationResult{ErrorMessage: "Failed to parse model response: " + err.Error()}
	}

	interpretation := strings.TrimSpace(env.Interpretation)
	if env.Plan == nil {
		msg := "The model did not produce a query plan"
		if interpretation != "" {
			msg += ": " + interpretation
		}
		return TranslationResult{Interpretation: interpretation, ErrorMessage: msg}
	}

	return TranslationResult{
		Success:        true,
		Plan:           env.Plan,
		Interpretation: interpretation,
	}
}

// extractJSONText strips a surrounding ``` fence (with or without a language
// tag) and returns the span from the first '{' to the last '}'.
func extractJSONText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.Contains(s[:nl], "{") {
			s = s[nl+1:]
		}
		s = strings.TrimSpace(s)
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = strings.TrimSpace(s[:i])
		}
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
