package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const matcherSystemPrompt = "You are an expert at matching buyers with the best suppliers based on requirements and capabilities."

// SellerSummary is what the matcher knows about a candidate seller.
type SellerSummary struct {
	Id          string
	Name        string
	Specialties string
	Rating      float64
	Location    string
}

// SellerMatch is one ranking entry. MatchScore is 0-100.
type SellerMatch struct {
	SellerId   string `json:"seller_id"`
	MatchScore int    `json:"match_score"`
	Reasoning  string `json:"reasoning"`
}

// Matcher ranks candidate sellers against an RFP.
type Matcher struct {
	completer Completer
	logger    *slog.Logger
}

func NewMatcher(completer Completer, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{completer: completer, logger: logger}
}

// Rank is total: on model failure every input seller comes back with a
// neutral score of 50, in input order.
func (m *Matcher) Rank(ctx context.Context, rfpTitle string, sellers []SellerSummary) []SellerMatch {
	if len(sellers) == 0 {
		return []SellerMatch{}
	}

	var list strings.Builder
	for _, seller := range sellers {
		fmt.Fprintf(&list, "- %s (id %s): %s | Rating: %.1f | Location: %s\n",
			seller.Name, seller.Id, seller.Specialties, seller.Rating, seller.Location)
	}

	prompt := fmt.Sprintf(`Rank these sellers for RFP %q:
%s
Consider:
- Specification match (0-100%%)
- Price competitiveness
- Delivery SLA
- Geographic proximity
- Reputation score

Output JSON array with seller IDs and match scores:
[{"seller_id": "id", "match_score": 85, "reasoning": "explanation"}]`, rfpTitle, list.String())

	temperature := 0.2
	resp, err := m.completer.Complete(ctx, Request{
		Messages: []Message{
			{Role: RoleSystem, Content: matcherSystemPrompt},
			{Role: RoleUser, Content: prompt},
		},
		Temperature: &temperature,
		MaxTokens:   800,
	})
	if err != nil {
		m.logger.Warn("seller ranking fell back", "error", err)
		return FallbackMatches(sellers)
	}

	var matches []SellerMatch
	if err := DecodeJSONArray(resp.Content, &matches); err != nil {
		m.logger.Warn("seller ranking fell back", "error", err)
		return FallbackMatches(sellers)
	}
	return matches
}

// FallbackMatches emits one neutral entry per seller, preserving the input
// order and id set exactly.
func FallbackMatches(sellers []SellerSummary) []SellerMatch {
	matches := make([]SellerMatch, len(sellers))
	for i, seller := range sellers {
		matches[i] = SellerMatch{
			SellerId:   seller.Id,
			MatchScore: 50,
			Reasoning:  "Default ranking",
		}
	}
	return matches
}
