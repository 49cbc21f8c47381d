package httpadapter

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/attune-labs/attune-agent/internal/domain"
	"github.com/attune-labs/attune-agent/internal/observability"
)

// ─────────────────────────────────────────────
// DTOs
// ─────────────────────────────────────────────

type userResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Mode       string    `json:"mode"`
	PlanType   string    `json:"plan_type"`
	AccountID  int       `json:"account_id"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

type taskResponse struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type checkinResponse struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	IsResponse bool      `json:"is_response"`
	Text       string    `json:"text"`
	Sentiment  *float64  `json:"sentiment"`
	CreatedAt  time.Time `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:         string(u.ID),
		Name:       u.Name,
		Mode:       string(u.Mode),
		PlanType:   string(u.PlanType),
		AccountID:  int(u.AccountID),
		Active:     u.Active,
		CreatedAt:  u.CreatedAt,
		LastActive: u.LastActive,
	}
}

// ─────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.ListUsers(r.Context())
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error("failed to list users", "error", err)
		internalError(w)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": out})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := domain.UserID(chi.URLParam(r, "userID"))

	user, err := s.users.GetUser(r.Context(), id)
	if err != nil {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserResponse(user)})
}

func (s *Server) handleUserTasks(w http.ResponseWriter, r *http.Request) {
	id := domain.UserID(chi.URLParam(r, "userID"))

	var statuses []domain.TaskStatus
	if st := r.URL.Query().Get("status"); st != "" {
		statuses = []domain.TaskStatus{domain.TaskStatus(st)}
	}

	tasks, err := s.tasks.List(r.Context(), id, statuses)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error("failed to list tasks", "error", err)
		internalError(w)
		return
	}

	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskResponse{
			ID:          string(t.ID),
			Description: t.Description,
			Category:    string(t.Category),
			Status:      string(t.Status),
			CreatedAt:   t.CreatedAt,
			UpdatedAt:   t.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": out})
}

func (s *Server) handleUserCheckIns(w http.ResponseWriter, r *http.Request) {
	id := domain.UserID(chi.URLParam(r, "userID"))

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	checkins, err := s.checks.ListCheckIns(r.Context(), id, limit)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error("failed to list check-ins", "error", err)
		internalError(w)
		return
	}

	out := make([]checkinResponse, 0, len(checkins))
	for _, c := range checkins {
		out = append(out, checkinResponse{
			ID:         string(c.ID),
			Kind:       string(c.Kind),
			IsResponse: c.IsResponse,
			Text:       c.Text,
			Sentiment:  c.Sentiment,
			CreatedAt:  c.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"checkins": out})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := s.analytics.Overview(r.Context())
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error("failed to build metrics", "error", err)
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}
