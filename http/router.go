package http

import (
	"net/http"

	"go.uber.org/zap"

	"synergy-engine/service"
)

// NewRouter wires every route behind the rate limiter.
func NewRouter(sessions *service.SessionManager, limiter *RateLimiter, logger *zap.Logger) http.Handler {
	analysisHandler := NewAnalysisHandler(sessions, logger)
	pageHandler := NewPageHandler(sessions, logger)

	mux := http.NewServeMux()
	mux.Handle("/", pageHandler)
	mux.HandleFunc("/api/analyze", analysisHandler.Analyze)
	mux.HandleFunc("/api/result", analysisHandler.Result)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
	})

	return RateLimitMiddleware(limiter, logger, mux)
}
