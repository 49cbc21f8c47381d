package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/attune-labs/attune-agent/internal/domain"
	"github.com/attune-labs/attune-agent/internal/observability"
)

type cronResponse struct {
	Status    string         `json:"status"`
	Sent      int            `json:"sent"`
	ByKind    map[string]int `json:"by_category,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func (s *Server) handleDailyCheckin(w http.ResponseWriter, r *http.Request) {
	sent, err := s.checkins.SendDaily(r.Context())
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error("daily check-in failed", "error", err)
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, cronResponse{Status: "success", Sent: sent, Timestamp: time.Now().UTC()})
}

func (s *Server) handleWeeklyCheckin(w http.ResponseWriter, r *http.Request) {
	sent, err := s.checkins.SendWeekly(r.Context())
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error("weekly check-in failed", "error", err)
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, cronResponse{Status: "success", Sent: sent, Timestamp: time.Now().UTC()})
}

func (s *Server) handleWeeklyReport(w http.ResponseWriter, r *http.Request) {
	sent, err := s.reports.SendWeekly(r.Context())
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error("weekly report failed", "error", err)
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, cronResponse{Status: "success", Sent: sent, Timestamp: time.Now().UTC()})
}

// handleFollowupReminders triggers one follow-up category, or sweeps
// all of them when the body names none.
func (s *Server) handleFollowupReminders(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ReminderType string `json:"reminder_type"`
	}
	if r.Body != nil {
		// An empty body means "sweep everything"; only malformed JSON
		// is rejected.
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			badRequest(w, "invalid JSON body")
			return
		}
	}

	category, err := domain.ParseCategory(body.ReminderType)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	log := observability.LoggerFromContext(r.Context())

	if category == domain.CategoryNone {
		counts, err := s.reminders.Sweep(r.Context())
		if err != nil {
			log.Error("follow-up sweep failed", "error", err)
			internalError(w)
			return
		}

		total := 0
		byKind := make(map[string]int, len(counts))
		for cat, n := range counts {
			total += n
			byKind[string(cat)] = n
		}
		writeJSON(w, http.StatusOK, cronResponse{
			Status: "success", Sent: total, ByKind: byKind, Timestamp: time.Now().UTC(),
		})
		return
	}

	sent, err := s.reminders.Run(r.Context(), category)
	if err != nil {
		log.Error("follow-up run failed", "category", string(category), "error", err)
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, cronResponse{Status: "success", Sent: sent, Timestamp: time.Now().UTC()})
}
