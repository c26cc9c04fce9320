package concierge

import "strings"

// Intent is a coarse classification of a user message, used only to pick
// suggestion sets; it never changes the system prompt.
type Intent string

const (
	IntentRFPCreation   Intent = "RFP creation or improvement"
	IntentOfferAnalysis Intent = "Offer analysis or comparison"
	IntentMarket        Intent = "Market research or insights"
	IntentNegotiation   Intent = "Negotiation advice"
	IntentGuidance      Intent = "General platform guidance"
	IntentGeneral       Intent = "General inquiry"
)

var intentKeywords = []struct {
	intent   Intent
	keywords []string
}{
	{IntentRFPCreation, []string{"rfp", "request", "proposal", "write", "create"}},
	{IntentOfferAnalysis, []string{"offer", "analyze", "compare", "price", "quote"}},
	{IntentMarket, []string{"market", "research", "trend", "benchmark"}},
	{IntentNegotiation, []string{"negotiate", "negotiation", "deal", "counteroffer"}},
	{IntentGuidance, []string{"help", "how", "what", "guide"}},
}

// classifyIntent matches keywords in order; the first hit wins.
func classifyIntent(message string) Intent {
	lower := strings.ToLower(message)
	for _, entry := range intentKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.intent
			}
		}
	}
	return IntentGeneral
}
