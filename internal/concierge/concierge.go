// Package concierge implements the marketplace assistant: a per-user chat
// session with bounded history, role-aware prompting and static quick
// suggestions. Model failures never surface to the caller.
package concierge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"rfpmarket/internal/ai"
	"rfpmarket/internal/models"
)

const baseSystemPrompt = `You are an AI Concierge for an AI-powered marketplace platform. Your role is to help users with:

1. **RFP Creation**: Help buyers write clear, detailed RFPs (Request for Proposals)
2. **Offer Analysis**: Analyze and compare offers from sellers
3. **Market Research**: Provide insights about market trends and pricing
4. **Negotiation**: Offer advice for both buyers and sellers
5. **Platform Guidance**: Help users navigate the marketplace features

Key capabilities:
- You can access user's RFPs, offers, and order history
- You provide actionable advice with specific examples
- You suggest relevant marketplace features
- You maintain a helpful, professional tone

Always provide practical, actionable advice and suggest next steps.`

const apologyMessage = "I apologize, but I'm having trouble processing your request right now. Please try again in a moment."

// Context is optional per-turn context injected into the system prompt.
type Context struct {
	UserRole       models.UserRole `json:"user_role,omitempty"`
	ActiveRFPTitle string          `json:"active_rfp_title,omitempty"`
	RecentOrders   int             `json:"recent_orders,omitempty"`
}

// Reply is one concierge turn result.
type Reply struct {
	Content     string    `json:"content"`
	Type        string    `json:"type"`
	Suggestions []string  `json:"suggestions"`
	Timestamp   time.Time `json:"timestamp"`
}

// Service is the concierge session manager.
type Service struct {
	completer ai.Completer
	history   HistoryStore
	logger    *slog.Logger
}

func NewService(completer ai.Completer, history HistoryStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		completer: completer,
		history:   history,
		logger:    logger,
	}
}

// ProcessMessage runs one chat turn. It always succeeds: on model failure a
// fixed apology is returned and the history is left untouched.
func (s *Service) ProcessMessage(ctx context.Context, userId, message string, cctx Context) Reply {
	history := s.history.Messages(userId)
	intent := classifyIntent(message)

	messages := make([]ai.Message, 0, len(history)+2)
	messages = append(messages, ai.Message{Role: ai.RoleSystem, Content: s.buildSystemPrompt(cctx)})
	messages = append(messages, history...)
	messages = append(messages, ai.Message{Role: ai.RoleUser, Content: buildUserPrompt(message, intent)})

	temperature := 0.7
	resp, err := s.completer.Complete(ctx, ai.Request{
		Messages:    messages,
		Temperature: &temperature,
		MaxTokens:   800,
	})
	if err != nil {
		s.logger.Warn("concierge turn fell back", "user_id", userId, "error", err)
		return Reply{
			Content:     apologyMessage,
			Type:        "text",
			Suggestions: []string{"Try again", "Contact support"},
			Timestamp:   time.Now().UTC(),
		}
	}

	s.history.Append(userId,
		ai.Message{Role: ai.RoleUser, Content: message},
		ai.Message{Role: ai.RoleAssistant, Content: resp.Content},
	)

	return Reply{
		Content:     resp.Content,
		Type:        "text",
		Suggestions: suggestionsFor(intent, cctx.UserRole),
		Timestamp:   time.Now().UTC(),
	}
}

// ClearHistory drops the user's conversation. Idempotent.
func (s *Service) ClearHistory(userId string) {
	s.history.Clear(userId)
}

func (s *Service) buildSystemPrompt(cctx Context) string {
	prompt := baseSystemPrompt
	if cctx.UserRole != "" {
		prompt += fmt.Sprintf("\n\nCurrent user is a %s.", cctx.UserRole)
	}
	if cctx.ActiveRFPTitle != "" {
		prompt += fmt.Sprintf("\n\nUser is currently working on RFP: %s", cctx.ActiveRFPTitle)
	}
	if cctx.RecentOrders > 0 {
		prompt += fmt.Sprintf("\n\nUser has %d recent orders.", cctx.RecentOrders)
	}
	return prompt
}

func buildUserPrompt(message string, intent Intent) string {
	return fmt.Sprintf(`User message: %q

User intent: %s

Please provide a helpful response with:
1. Direct answer to their question
2. Specific examples or templates if relevant
3. Suggested next actions
4. Relevant marketplace features they might want to use

Keep the response conversational and actionable.`, message, intent)
}
