package reminder

import (
	"fmt"

	"github.com/attune-labs/attune-agent/internal/domain"
)

// followupMessage builds the body and reply buttons for a follow-up
// category. The copy is deliberately gentle: the app serves people for
// whom pressure is counterproductive.
func followupMessage(category domain.Category, user *domain.User) (string, []domain.Button) {
	name := user.FirstName()

	switch category {
	case domain.CategoryMorning:
		body := fmt.Sprintf(
			"Hey %s! No pressure at all - I'm still here when you're ready to plan your day. Would you like to:",
			name,
		)
		return body, []domain.Button{
			{ID: "plan_day", Title: "Plan my day"},
			{ID: "quick_checkin", Title: "Quick check-in"},
			{ID: "remind_later", Title: "Remind me later"},
		}

	case domain.CategoryMidday:
		body := fmt.Sprintf("Hi %s! The day is still young. Would you like to:", name)
		return body, []domain.Button{
			{ID: "plan_afternoon", Title: "Plan afternoon"},
			{ID: "self_care", Title: "Focus on self-care"},
			{ID: "just_chat", Title: "Just chat"},
		}

	case domain.CategoryEvening:
		body := fmt.Sprintf(
			"Hey %s! How has your day been? Remember, every day is a fresh start. Would you like to:",
			name,
		)
		return body, []domain.Button{
			{ID: "share_day", Title: "Share about today"},
			{ID: "plan_tomorrow", Title: "Plan tomorrow"},
			{ID: "rest_now", Title: "Rest now"},
		}

	default: // nextday
		body := fmt.Sprintf(
			"Hi %s, I've noticed we haven't connected in a bit, and that's completely okay! "+
				"Sometimes we need space, and I'm here whenever you're ready. Would you like to:",
			name,
		)
		return body, []domain.Button{
			{ID: "fresh_start", Title: "Fresh start"},
			{ID: "gentle_checkin", Title: "Just say hi"},
			{ID: "need_help", Title: "Need support"},
		}
	}
}

// ButtonReply returns the reply to a follow-up button press, plus
// optional next-step buttons. The bool reports whether the button is a
// follow-up button at all.
func ButtonReply(buttonID string) (string, []domain.Button, bool) {
	switch buttonID {
	case "plan_day":
		return "Let's plan your day! What would you like to focus on today? You can list up to 3 tasks.", nil, true
	case "quick_checkin", "gentle_checkin":
		return "How are you feeling right now? Just a quick check-in - no pressure to plan anything.", nil, true
	case "remind_later":
		return "No problem! I'll check in with you a bit later. Take care!", nil, true
	case "plan_afternoon":
		return "Let's plan the rest of your day. What's one thing you'd like to accomplish?", nil, true
	case "just_chat", "share_day", "just_talk":
		return "I'm all ears. How are things going?", nil, true
	case "rest_now":
		return "Rest is productive too. Sleep well, and we'll pick things up tomorrow.", nil, true
	case "plan_tomorrow":
		return "Let's think about tomorrow. No pressure to plan everything - " +
			"even one small intention for tomorrow can help. What feels manageable?", nil, true
	case "fresh_start":
		return "Every moment is a chance to start fresh! " +
				"Would you like to plan something small for today, or shall we look ahead to tomorrow?",
			[]domain.Button{
				{ID: "plan_day", Title: "Plan today"},
				{ID: "plan_tomorrow", Title: "Plan tomorrow"},
			}, true
	case "need_help":
		return "I'm here to support you. Sometimes things get overwhelming, and that's okay. Would you like to:",
			[]domain.Button{
				{ID: "simplify_tasks", Title: "Simplify tasks"},
				{ID: "just_talk", Title: "Just talk"},
				{ID: "get_strategies", Title: "Get strategies"},
			}, true
	case "simplify_tasks":
		return "Let's make things lighter. Which task feels heaviest right now? Reply with its number and we'll break it down.", nil, true
	default:
		return "", nil, false
	}
}
