package httpadapter

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/attune-labs/attune-agent/internal/app/analytics"
	"github.com/attune-labs/attune-agent/internal/app/checkin"
	"github.com/attune-labs/attune-agent/internal/app/reminder"
	"github.com/attune-labs/attune-agent/internal/app/report"
	"github.com/attune-labs/attune-agent/internal/app/tasks"
	"github.com/attune-labs/attune-agent/internal/config"
	"github.com/attune-labs/attune-agent/internal/domain"
)

// Server wires the HTTP surface: the WhatsApp webhook, the
// secret-protected cron triggers and the read-only admin endpoints.
type Server struct {
	cfg *config.Config

	users     domain.UserStore
	checks    domain.CheckInStore
	sender    domain.MessageSender
	media     MediaFetcher
	transcrib domain.Transcriber

	checkins  *checkin.Service
	reminders *reminder.Service
	tasks     *tasks.Service
	reports   *report.Service
	analytics *analytics.Service
}

// MediaFetcher resolves and downloads webhook media (voice notes).
type MediaFetcher interface {
	MediaURL(ctx context.Context, account domain.AccountID, mediaID string) (string, error)
	DownloadMedia(ctx context.Context, account domain.AccountID, url string) ([]byte, error)
}

func NewServer(
	cfg *config.Config,
	users domain.UserStore,
	checks domain.CheckInStore,
	sender domain.MessageSender,
	media MediaFetcher,
	transcriber domain.Transcriber,
	checkins *checkin.Service,
	reminders *reminder.Service,
	taskSvc *tasks.Service,
	reportSvc *report.Service,
	analyticsSvc *analytics.Service,
) http.Handler {
	s := &Server{
		cfg:       cfg,
		users:     users,
		checks:    checks,
		sender:    sender,
		media:     media,
		transcrib: transcriber,
		checkins:  checkins,
		reminders: reminders,
		tasks:     taskSvc,
		reports:   reportSvc,
		analytics: analyticsSvc,
	}

	r := chi.NewRouter()
	r.Use(withRequestID, withLogging)

	r.Get("/healthz", s.handleHealthz)

	r.Get("/webhook/whatsapp", s.handleWebhookVerify)
	r.Post("/webhook/whatsapp", s.handleWebhookEvent)

	r.Route("/cron", func(r chi.Router) {
		r.Use(s.requireCronSecret)
		r.Post("/daily-checkin", s.handleDailyCheckin)
		r.Post("/weekly-checkin", s.handleWeeklyCheckin)
		r.Post("/weekly-report", s.handleWeeklyReport)
		r.Post("/followup-reminders", s.handleFollowupReminders)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Get("/users", s.handleListUsers)
		r.Get("/users/{userID}", s.handleGetUser)
		r.Get("/users/{userID}/tasks", s.handleUserTasks)
		r.Get("/users/{userID}/checkins", s.handleUserCheckIns)
		r.Get("/metrics", s.handleMetrics)
	})

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}

func internalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}
