package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestCounteroffer(t *testing.T) {
	stub := &stubCompleter{content: `{"suggested_price": 175.5, "reasoning": "split with a premium", "negotiation_tips": ["hold firm"]}`}
	advisor := NewAdvisor(stub, testLogger())

	suggestion := advisor.SuggestCounteroffer(context.Background(), 100, 200, 150)

	assert.Equal(t, 175.5, suggestion.SuggestedPrice)
	assert.Equal(t, "split with a premium", suggestion.Reasoning)
	assert.Equal(t, []string{"hold firm"}, suggestion.NegotiationTips)

	require.NotNil(t, stub.lastReq.Temperature)
	assert.Equal(t, 0.3, *stub.lastReq.Temperature)
	assert.Equal(t, 400, stub.lastReq.MaxTokens)
}

func TestSuggestCounterofferBackfillsTips(t *testing.T) {
	stub := &stubCompleter{content: `{"suggested_price": 120, "reasoning": "ok"}`}
	advisor := NewAdvisor(stub, testLogger())

	suggestion := advisor.SuggestCounteroffer(context.Background(), 100, 200, 150)

	assert.NotEmpty(t, suggestion.NegotiationTips, "tips are always present")
}

func TestSuggestCounterofferFallback(t *testing.T) {
	stub := &stubCompleter{err: NewUpstreamError(errors.New("boom"))}
	advisor := NewAdvisor(stub, testLogger())

	suggestion := advisor.SuggestCounteroffer(context.Background(), 100, 200, 150)

	assert.Equal(t, 150.0, suggestion.SuggestedPrice, "fallback is the midpoint of buyer and seller positions")
	assert.Equal(t, "Midpoint between buyer offer and seller original", suggestion.Reasoning)
	assert.Len(t, suggestion.NegotiationTips, 3)
}

func TestSummarize(t *testing.T) {
	stub := &stubCompleter{content: "  A two sentence summary.  "}
	advisor := NewAdvisor(stub, testLogger())

	min, max := 5000, 10000
	summary := advisor.Summarize(context.Background(), RFPFacts{
		Title:     "CRM build",
		Category:  "software",
		BudgetMin: &min,
		BudgetMax: &max,
		Deadline:  time.Now(),
	})

	assert.Equal(t, "A two sentence summary.", summary)
	assert.Equal(t, 200, stub.lastReq.MaxTokens)
}

func TestSummarizeFallback(t *testing.T) {
	stub := &stubCompleter{err: NewUpstreamError(errors.New("boom"))}
	advisor := NewAdvisor(stub, testLogger())

	min, max := 5000, 10000
	summary := advisor.Summarize(context.Background(), RFPFacts{Category: "software", BudgetMin: &min, BudgetMax: &max})
	assert.Equal(t, "RFP for software services with budget range $5000 - $10000", summary)

	summary = advisor.Summarize(context.Background(), RFPFacts{Category: "consulting"})
	assert.Equal(t, "RFP for consulting services with budget range $N/A - $N/A", summary)
}
