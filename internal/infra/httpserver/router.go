package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	appaudit "github.com/bryanwahyu/brand-audit/internal/application/audit"
	domain "github.com/bryanwahyu/brand-audit/internal/domain/audit"
	"github.com/bryanwahyu/brand-audit/internal/middleware"
)

type Router struct {
	audits *appaudit.Service
}

// NewRouter wires the audit API. Health checkers are optional probes
// for the external collaborators (storage, search).
func NewRouter(audits *appaudit.Service, checkers map[string]middleware.HealthChecker) http.Handler {
	r := &Router{audits: audits}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.RateLimitMiddleware(5, 1))

	mux.Get("/api/health", middleware.HealthHandler(checkers))
	mux.Get("/api/metrics", middleware.MetricsHandler)
	mux.Post("/api/audit", r.wrap(r.handleAudit))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var badReq *badRequestError
			if errors.As(err, &badReq) {
				http.Error(w, badReq.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

type badRequestError struct{ msg string }

func (e *badRequestError) Error() string { return e.msg }

// auditResponse is the report envelope returned to the caller. It is
// always structurally valid, even when every stage failed.
type auditResponse struct {
	Success bool                     `json:"success"`
	VideoID string                   `json:"video_id"`
	Status  string                   `json:"status"`
	Report  string                   `json:"report"`
	Issues  []domain.ComplianceIssue `json:"issues"`
	Errors  []string                 `json:"errors"`
}

// POST /api/audit
// Body: {"video_url": "<public video URL>"}
func (r *Router) handleAudit(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		VideoURL string `json:"video_url"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return &badRequestError{msg: fmt.Sprintf("invalid request body: %v", err)}
	}
	if body.VideoURL == "" {
		return &badRequestError{msg: "video_url is required"}
	}

	sessionID := uuid.New().String()
	videoID := sessionID[:8]
	log.Printf("audit requested for %s (session %s)", body.VideoURL, sessionID)

	middleware.IncrementAudits()
	state := r.audits.RunAudit(req.Context(), body.VideoURL, videoID)
	if state.FinalStatus == domain.StatusFailed {
		middleware.IncrementAuditsFailed()
	}

	report := state.FinalReport
	if report == "" {
		report = "No report generated"
	}
	resp := auditResponse{
		Success: state.FinalStatus == domain.StatusSuccess,
		VideoID: state.VideoID,
		Status:  string(state.FinalStatus),
		Report:  report,
		Issues:  state.ComplianceResult,
		Errors:  state.Error,
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(resp)
}
