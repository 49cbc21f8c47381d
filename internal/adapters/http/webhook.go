package httpadapter

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/attune-labs/attune-agent/internal/app/reminder"
	"github.com/attune-labs/attune-agent/internal/domain"
	"github.com/attune-labs/attune-agent/internal/observability"
)

// ─────────────────────────────────────────────
// WhatsApp Cloud API payloads
// ─────────────────────────────────────────────

type webhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Contacts []struct {
					WaID    string `json:"wa_id"`
					Profile struct {
						Name string `json:"name"`
					} `json:"profile"`
				} `json:"contacts"`
				Messages []inboundMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type inboundMessage struct {
	From string `json:"from"`
	ID   string `json:"id"`
	Type string `json:"type"`
	Text *struct {
		Body string `json:"body"`
	} `json:"text"`
	Interactive *struct {
		Type        string `json:"type"`
		ButtonReply *struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"button_reply"`
	} `json:"interactive"`
	Audio *struct {
		ID       string `json:"id"`
		MimeType string `json:"mime_type"`
	} `json:"audio"`
}

// handleWebhookVerify answers Meta's subscription handshake.
func (s *Server) handleWebhookVerify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") == "subscribe" && q.Get("hub.verify_token") == s.cfg.VerifyToken {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(q.Get("hub.challenge")))
		return
	}
	w.WriteHeader(http.StatusForbidden)
}

// handleWebhookEvent receives inbound WhatsApp events. The transport
// retries on non-2xx, so once the payload parses we always answer 200
// and deal with per-message failures in the logs.
func (s *Server) handleWebhookEvent(w http.ResponseWriter, r *http.Request) {
	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	names := make(map[string]string)
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, c := range change.Value.Contacts {
				names[c.WaID] = c.Profile.Name
			}
		}
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				s.processMessage(r.Context(), msg, names[msg.From])
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
}

func (s *Server) processMessage(ctx context.Context, msg inboundMessage, profileName string) {
	log := observability.LoggerFromContext(ctx).With("from", msg.From, "type", msg.Type)

	if msg.From == "" {
		log.Warn("message without sender, ignoring")
		return
	}

	user, err := s.getOrCreateUser(ctx, domain.UserID(msg.From), profileName)
	if err != nil {
		log.Error("failed to resolve user", "error", err)
		return
	}

	user.LastActive = time.Now()
	if err := s.users.UpdateUser(ctx, user); err != nil {
		log.Warn("failed to update last_active", "error", err)
	}

	switch msg.Type {
	case "text":
		if msg.Text == nil {
			log.Warn("text message without body")
			return
		}
		s.handleText(ctx, user, msg.Text.Body)

	case "interactive":
		if msg.Interactive == nil || msg.Interactive.ButtonReply == nil {
			log.Warn("interactive message without button reply")
			return
		}
		s.handleButton(ctx, user, msg.Interactive.ButtonReply.ID)

	case "audio":
		if msg.Audio == nil {
			log.Warn("audio message without media")
			return
		}
		s.handleAudio(ctx, user, msg.Audio.ID, msg.Audio.MimeType)

	default:
		log.Info("unsupported message type, ignoring")
	}
}

// getOrCreateUser registers a new user on their first inbound message.
func (s *Server) getOrCreateUser(ctx context.Context, id domain.UserID, profileName string) (*domain.User, error) {
	user, err := s.users.GetUser(ctx, id)
	if err == nil {
		return user, nil
	}

	name := profileName
	if name == "" {
		name = string(id)
	}

	now := time.Now()
	user = &domain.User{
		ID:         id,
		Name:       name,
		Mode:       domain.TrackingHuman,
		PlanType:   domain.PlanDaily,
		AccountID:  domain.AccountPrimary,
		Active:     true,
		CreatedAt:  now,
		LastActive: now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info("registered new user", "user_id", id)
	return user, nil
}

func (s *Server) handleText(ctx context.Context, user *domain.User, text string) {
	log := observability.LoggerFromContext(ctx).With("user_id", user.ID)

	if cmd, ok := domain.ParseTaskCommand(text); ok {
		replies, err := s.tasks.ApplyCommand(ctx, user, cmd)
		if err != nil {
			log.Error("task command failed", "error", err)
			s.sendText(ctx, user, "I'm sorry, I couldn't process that update. Could we try again in a moment?")
			return
		}
		for _, reply := range replies {
			s.sendReply(ctx, user, reply.Text, reply.Buttons)
		}
		return
	}

	switch strings.ToLower(strings.TrimSpace(text)) {
	case "tasks", "list", "intentions":
		listing, err := s.tasks.ListMessage(ctx, user.ID)
		if err != nil {
			log.Error("failed to build task list", "error", err)
			return
		}
		s.sendText(ctx, user, listing)
		return
	}

	if user.State == domain.StatePlanning {
		s.handlePlanning(ctx, user, text)
		return
	}

	if err := s.checkins.ProcessResponse(ctx, user, text); err != nil {
		log.Error("failed to process check-in response", "error", err)
	}
}

// handlePlanning turns the free-text reply to a planning prompt into
// tasks and drops the user back to the idle state.
func (s *Server) handlePlanning(ctx context.Context, user *domain.User, text string) {
	log := observability.LoggerFromContext(ctx).With("user_id", user.ID)

	created, err := s.tasks.CreatePlan(ctx, user.ID, text)
	if err != nil {
		log.Error("failed to create plan", "error", err)
		s.sendText(ctx, user, "I'm sorry, I couldn't save those just now. Could we try again in a moment?")
		return
	}

	s.setState(ctx, user, domain.StateIdle)

	reply, err := s.tasks.PlanReply(ctx, user.ID, created)
	if err != nil {
		log.Error("failed to build plan reply", "error", err)
		return
	}
	s.sendText(ctx, user, reply)
	log.Info("plan recorded", "tasks", len(created))
}

func (s *Server) setState(ctx context.Context, user *domain.User, state domain.UserState) {
	if user.State == state {
		return
	}
	user.State = state
	if err := s.users.UpdateUser(ctx, user); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to update user state",
			"user_id", user.ID, "state", string(state), "error", err)
	}
}

// planningButtons are the buttons whose reply invites the user to list
// intentions; pressing one moves the conversation into planning so the
// next message creates tasks instead of a check-in response.
var planningButtons = map[string]bool{
	"plan_day":       true,
	"plan_afternoon": true,
	"plan_tomorrow":  true,
	"add_more_tasks": true,
}

func (s *Server) handleButton(ctx context.Context, user *domain.User, buttonID string) {
	log := observability.LoggerFromContext(ctx).With("user_id", user.ID, "button", buttonID)

	if planningButtons[buttonID] {
		s.setState(ctx, user, domain.StatePlanning)
	}

	// Buttons backed by the tip lists live here; the rest of the
	// follow-up buttons carry static copy.
	switch buttonID {
	case "self_care":
		s.sendText(ctx, user, "Taking care of yourself is important! Here's a suggestion: "+s.tasks.SelfCareTip())
		return
	case "add_more_tasks":
		s.sendText(ctx, user, "Of course - just tell me what you'd like, in your own words.")
		return
	case "get_strategies", "break_down":
		s.sendText(ctx, user, "Let's try this strategy:\n\n"+s.tasks.FocusTip())
		return
	case "modify_task":
		s.sendText(ctx, user, "Of course - reply with the task number and how you'd like to change it.")
		return
	case "done_for_today":
		s.sendText(ctx, user, "Enjoy the rest of your day - you've earned it. I'll check in tomorrow.")
		return
	}

	if text, buttons, ok := reminder.ButtonReply(buttonID); ok {
		s.sendReply(ctx, user, text, buttons)
		return
	}

	log.Info("unrecognized button, ignoring")
}

func (s *Server) handleAudio(ctx context.Context, user *domain.User, mediaID, mimeType string) {
	log := observability.LoggerFromContext(ctx).With("user_id", user.ID, "media_id", mediaID)

	if s.transcrib == nil || s.media == nil {
		s.sendText(ctx, user, "I can't listen to voice notes yet - could you type that out for me?")
		return
	}

	url, err := s.media.MediaURL(ctx, user.AccountID, mediaID)
	if err != nil {
		log.Error("failed to resolve media url", "error", err)
		return
	}

	audio, err := s.media.DownloadMedia(ctx, user.AccountID, url)
	if err != nil {
		log.Error("failed to download audio", "error", err)
		return
	}

	text, err := s.transcrib.Transcribe(ctx, audio, mimeType)
	if err != nil {
		log.Error("transcription failed", "error", err)
		s.sendText(ctx, user, "I had trouble hearing that voice note - could you try typing it instead?")
		return
	}

	log.Info("transcribed voice note", "chars", len(text))
	s.handleText(ctx, user, text)
}

func (s *Server) sendText(ctx context.Context, user *domain.User, text string) {
	if err := s.sender.SendText(ctx, user.AccountID, user.ID, text); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to send reply",
			"user_id", user.ID, "error", err)
	}
}

func (s *Server) sendReply(ctx context.Context, user *domain.User, text string, buttons []domain.Button) {
	if len(buttons) == 0 {
		s.sendText(ctx, user, text)
		return
	}
	if err := s.sender.SendButtons(ctx, user.AccountID, user.ID, text, buttons); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to send button reply",
			"user_id", user.ID, "error", err)
	}
}
