package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	advisorSystemPrompt    = "You are an expert negotiator who helps create fair and mutually beneficial deals."
	summarizerSystemPrompt = "You are an expert at summarizing business requirements concisely."
)

// CounterofferSuggestion is the advisor's output. NegotiationTips is always
// non-empty.
type CounterofferSuggestion struct {
	SuggestedPrice  float64  `json:"suggested_price"`
	Reasoning       string   `json:"reasoning"`
	NegotiationTips []string `json:"negotiation_tips"`
}

// RFPFacts carries the fields the summarizer works from.
type RFPFacts struct {
	Title       string
	Description string
	Category    string
	BudgetMin   *int
	BudgetMax   *int
	Deadline    time.Time
}

// Advisor computes counteroffer suggestions and RFP summaries.
type Advisor struct {
	completer Completer
	logger    *slog.Logger
}

func NewAdvisor(completer Completer, logger *slog.Logger) *Advisor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Advisor{completer: completer, logger: logger}
}

// SuggestCounteroffer is total: on model failure it returns the midpoint
// strategy, which also serves as the deterministic baseline.
func (a *Advisor) SuggestCounteroffer(ctx context.Context, buyerOffer, sellerOriginal, marketAverage float64) CounterofferSuggestion {
	prompt := fmt.Sprintf(`Generate a fair counteroffer for:
Buyer offer: $%.2f
Seller original: $%.2f
Market average: $%.2f

Consider:
- Quality differences
- Volume discounts
- Payment terms
- Delivery timeline

Output JSON with:
- suggested_price: Recommended counteroffer
- reasoning: Explanation for the suggestion
- negotiation_tips: Tips for the negotiation`, buyerOffer, sellerOriginal, marketAverage)

	temperature := 0.3
	resp, err := a.completer.Complete(ctx, Request{
		Messages: []Message{
			{Role: RoleSystem, Content: advisorSystemPrompt},
			{Role: RoleUser, Content: prompt},
		},
		Temperature: &temperature,
		MaxTokens:   400,
	})
	if err != nil {
		a.logger.Warn("counteroffer suggestion fell back", "error", err)
		return FallbackCounteroffer(buyerOffer, sellerOriginal)
	}

	var suggestion CounterofferSuggestion
	if err := DecodeJSON(resp.Content, &suggestion); err != nil {
		a.logger.Warn("counteroffer suggestion fell back", "error", err)
		return FallbackCounteroffer(buyerOffer, sellerOriginal)
	}
	if len(suggestion.NegotiationTips) == 0 {
		suggestion.NegotiationTips = fallbackNegotiationTips()
	}
	return suggestion
}

// FallbackCounteroffer splits the difference between the two positions.
func FallbackCounteroffer(buyerOffer, sellerOriginal float64) CounterofferSuggestion {
	return CounterofferSuggestion{
		SuggestedPrice:  (buyerOffer + sellerOriginal) / 2,
		Reasoning:       "Midpoint between buyer offer and seller original",
		NegotiationTips: fallbackNegotiationTips(),
	}
}

func fallbackNegotiationTips() []string {
	return []string{
		"Focus on value proposition",
		"Consider payment terms",
		"Discuss delivery timeline",
	}
}

// Summarize produces a short RFP summary. Total; falls back to a templated
// one-liner.
func (a *Advisor) Summarize(ctx context.Context, facts RFPFacts) string {
	prompt := fmt.Sprintf(`Create a concise summary of this RFP:
Title: %s
Description: %s
Category: %s
Budget: $%s - $%s
Deadline: %s

Generate a 2-3 sentence summary that highlights the key requirements and constraints.`,
		facts.Title, facts.Description, facts.Category,
		budgetString(facts.BudgetMin), budgetString(facts.BudgetMax),
		facts.Deadline.Format(time.RFC3339))

	temperature := 0.3
	resp, err := a.completer.Complete(ctx, Request{
		Messages: []Message{
			{Role: RoleSystem, Content: summarizerSystemPrompt},
			{Role: RoleUser, Content: prompt},
		},
		Temperature: &temperature,
		MaxTokens:   200,
	})
	if err != nil {
		a.logger.Warn("rfp summary fell back", "error", err)
		return FallbackSummary(facts)
	}

	return strings.TrimSpace(resp.Content)
}

// FallbackSummary is the deterministic summary used when the model call fails.
func FallbackSummary(facts RFPFacts) string {
	return fmt.Sprintf("RFP for %s services with budget range $%s - $%s",
		facts.Category, budgetString(facts.BudgetMin), budgetString(facts.BudgetMax))
}

func budgetString(v *int) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d", *v)
}
