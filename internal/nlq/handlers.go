package nlq

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 64 << 10

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type Handler struct {
	svc      *Service
	validate *validator.Validate
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, validate: validator.New(validator.WithRequiredStructEnabled())}
}

// decodeRequest reads and validates a QueryRequest, writing a 400 on failure.
func (h *Handler) decodeRequest(w http.ResponseWriter, r *http.Request) (QueryRequest, bool) {
	var req QueryRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return req, false
	}
	req.Query = strings.TrimSpace(req.Query)
	req.AOIID = strings.TrimSpace(req.AOIID)

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			switch verrs[0].Field() {
			case "Query":
				if verrs[0].Tag() == "required" {
					http.Error(w, "Query is required", http.StatusBadRequest)
				} else {
					http.Error(w, "Query is too long", http.StatusBadRequest)
				}
				return req, false
			case "AOIID":
				http.Error(w, "Invalid aoiId", http.StatusBadRequest)
				return req, false
			}
		}
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

// Query handles POST /query. Translation and execution failures are
// reported in the envelope with status 200.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.svc.Query(r.Context(), req))
}

// Plan handles POST /query/plan.
func (h *Handler) Plan(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.svc.Plan(r.Context(), req))
}

// Health handles GET /query/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Health(r.Context()))
}
