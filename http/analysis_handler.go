package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"synergy-engine/domain"
	"synergy-engine/service"
)

const maxRequestBodyBytes = 1 << 16

type AnalysisHandler struct {
	sessions *service.SessionManager
	logger   *zap.Logger
}

func NewAnalysisHandler(sessions *service.SessionManager, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{sessions: sessions, logger: logger}
}

type errorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

// Analyze handles POST /api/analyze.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	var input domain.AnalysisInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&input); err != nil {
		h.logger.Debug("invalid request body", zap.Error(err))
		writeJSON(w, h.logger, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	id := sessionID(w, r)
	result, err := h.sessions.Submit(r.Context(), id, input)
	if err != nil {
		status, body := submitErrorResponse(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("submission failed", zap.String("session", id), zap.Error(err))
		}
		writeJSON(w, h.logger, status, body)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, result)
}

// Result handles GET /api/result.
func (h *AnalysisHandler) Result(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session := h.sessions.Get(sessionID(w, r))
	result, ok, err := session.Current(r.Context())
	if err != nil {
		h.logger.Error("failed to load result", zap.String("session", session.ID()), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, result)
}

func submitErrorResponse(err error) (int, errorResponse) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, errorResponse{Error: verr.Message(), Fields: verr.Fields}
	case errors.Is(err, service.ErrBusy):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	}
	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

// writeJSON encodes into a buffer first so a failed encode does not leave a
// half-written response.
func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logger.Error("error encoding response", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn("error writing response", zap.Error(err))
	}
}
