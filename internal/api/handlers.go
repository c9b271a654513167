package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"medrag/internal/domain"
	"medrag/internal/service"
)

// maxQueryLength caps the request body's text field; clinical
// narratives far beyond this are almost certainly junk input.
const maxQueryLength = 8192

// Handler holds the pipeline and the readiness details reported by the
// health endpoint.
type Handler struct {
	Prescriber    *service.Prescriber
	KnowledgeSize int
	EmbedderName  string
	GeneratorName string
}

type prescriptionRequest struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// GeneratePrescription turns a clinical description into a structured
// prescription. A query that matches no known condition is a 404, not a
// server error.
func (h *Handler) GeneratePrescription(w http.ResponseWriter, r *http.Request) {
	var req prescriptionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxQueryLength)).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		respondWithError(w, http.StatusBadRequest, "text is required")
		return
	}

	result, err := h.Prescriber.Generate(r.Context(), text)
	if err != nil {
		if errors.Is(err, domain.ErrNoMatch) {
			respondWithError(w, http.StatusNotFound, "could not determine condition")
			return
		}
		log.Error().Err(err).Msg("prescription generation failed")
		respondWithError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// Health reports pipeline readiness and backend identities.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{
		"status":                 "healthy",
		"knowledge_base_entries": h.KnowledgeSize,
		"embedder":               h.EmbedderName,
		"generator":              h.GeneratorName,
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

func respondWithError(w http.ResponseWriter, code int, msg string) {
	respondWithJSON(w, code, errorResponse{Error: msg})
}
