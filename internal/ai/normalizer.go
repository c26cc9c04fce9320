package ai

import (
	"context"
	"fmt"
	"log/slog"

	"rfpmarket/internal/models"
)

const normalizerSystemPrompt = "You are an expert at analyzing business requirements and converting them into structured specifications."

// Normalizer converts free-text RFP descriptions into structured
// requirements. Normalize is total: when the model call fails the
// deterministic fallback is returned instead.
type Normalizer struct {
	completer Completer
	logger    *slog.Logger
}

func NewNormalizer(completer Completer, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{completer: completer, logger: logger}
}

// Normalize never returns an error: on UpstreamError or ParseError the
// fallback structure is returned so RFP creation is never blocked.
func (n *Normalizer) Normalize(ctx context.Context, description string) models.Requirements {
	prompt := fmt.Sprintf(`Convert this buyer request into structured specifications:
%q

Output JSON with fields:
- category: The main category (e.g., "software", "consulting", "hardware")
- specifications: List of specific requirements
- constraints: Any constraints or limitations
- budget_range: Estimated budget range
- timeline: Expected timeline
- location_preferences: Geographic preferences
- technical_requirements: Technical specifications if applicable
- quality_standards: Quality or certification requirements`, description)

	temperature := 0.3
	resp, err := n.completer.Complete(ctx, Request{
		Messages: []Message{
			{Role: RoleSystem, Content: normalizerSystemPrompt},
			{Role: RoleUser, Content: prompt},
		},
		Temperature: &temperature,
		MaxTokens:   1000,
	})
	if err != nil {
		n.logger.Warn("requirement normalization fell back", "error", err)
		return FallbackRequirements(description)
	}

	var reqs models.Requirements
	if err := DecodeJSON(resp.Content, &reqs); err != nil {
		n.logger.Warn("requirement normalization fell back", "error", err)
		return FallbackRequirements(description)
	}
	return reqs
}

// FallbackRequirements is the deterministic normalization used when the
// model is unreachable or returns garbage.
func FallbackRequirements(description string) models.Requirements {
	return models.Requirements{
		Category:              "general",
		Specifications:        []string{description},
		Constraints:           []string{},
		BudgetRange:           "not_specified",
		Timeline:              "not_specified",
		LocationPreferences:   []string{},
		TechnicalRequirements: []string{},
		QualityStandards:      []string{},
	}
}
