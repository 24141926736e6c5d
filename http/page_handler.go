package http

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"synergy-engine/domain"
	"synergy-engine/service"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Values prefilled on a fresh session.
var defaultInput = domain.AnalysisInput{Target: "3.1415", BoundAlpha: "47000", BoundOmega: "53000"}

type pageData struct {
	Input  domain.AnalysisInput
	Result *domain.AnalysisResult
	Busy   bool
	Error  string
}

// PageHandler serves the HTML form and result panel.
type PageHandler struct {
	sessions *service.SessionManager
	logger   *zap.Logger
}

func NewPageHandler(sessions *service.SessionManager, logger *zap.Logger) *PageHandler {
	return &PageHandler{sessions: sessions, logger: logger}
}

func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.show(w, r)
	case http.MethodPost:
		h.submit(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *PageHandler) show(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Get(sessionID(w, r))
	data := pageData{Input: defaultInput, Busy: session.Busy()}

	result, ok, err := session.Current(r.Context())
	if err != nil {
		h.logger.Warn("failed to load result", zap.String("session", session.ID()), zap.Error(err))
	}
	if ok {
		data.Result = &result
		data.Input = inputFromResult(result)
	}

	h.render(w, http.StatusOK, data)
}

func (h *PageHandler) submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	input := domain.AnalysisInput{
		Target:     r.PostForm.Get("target"),
		BoundAlpha: r.PostForm.Get("bound_alpha"),
		BoundOmega: r.PostForm.Get("bound_omega"),
	}

	id := sessionID(w, r)
	result, err := h.sessions.Submit(r.Context(), id, input)
	if err == nil {
		h.render(w, http.StatusOK, pageData{Input: input, Result: &result})
		return
	}

	// A rejected submission keeps showing the previous result.
	data := pageData{Input: input, Busy: errors.Is(err, service.ErrBusy)}
	if prev, ok, loadErr := h.sessions.Get(id).Current(r.Context()); loadErr == nil && ok {
		data.Result = &prev
	}
	status, body := submitErrorResponse(err)
	data.Error = body.Error
	h.render(w, status, data)
}

func (h *PageHandler) render(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.logger.Error("error rendering page", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("error writing page", zap.Error(err))
	}
}

func inputFromResult(r domain.AnalysisResult) domain.AnalysisInput {
	return domain.AnalysisInput{
		Target:     formatFloat(r.Target),
		BoundAlpha: formatInt(r.BoundLow),
		BoundOmega: formatInt(r.BoundHigh),
	}
}
