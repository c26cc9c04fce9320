package concierge

import "rfpmarket/internal/models"

// maxSuggestions is the UI limit on quick actions per reply.
const maxSuggestions = 4

var intentSuggestions = map[Intent][]string{
	IntentRFPCreation: {
		"Help me write the description",
		"What should I include in requirements?",
		"How do I set a good budget?",
		"Show me an RFP template",
	},
	IntentOfferAnalysis: {
		"Analyze this specific offer",
		"Compare multiple offers",
		"Negotiation tips",
		"Red flags to watch for",
	},
	IntentMarket: {
		"Industry-specific data",
		"Competitor analysis",
		"Pricing benchmarks",
		"Regional insights",
	},
	IntentNegotiation: {
		"Buyer negotiation tips",
		"Seller negotiation tips",
		"Contract terms advice",
		"Payment negotiation",
	},
}

var defaultSuggestions = []string{
	"Help me write an RFP",
	"Analyze an offer",
	"Market research",
	"Negotiation advice",
}

var roleSuggestions = map[models.UserRole][]string{
	models.RoleBuyer: {
		"Browse seller profiles",
		"Create a new RFP",
		"View my active RFPs",
	},
	models.RoleSeller: {
		"Browse active RFPs",
		"Update my profile",
		"View my offers",
	},
}

// suggestionsFor builds the quick-action list: intent set first, role extras
// appended, then truncated to the UI limit.
func suggestionsFor(intent Intent, role models.UserRole) []string {
	set, ok := intentSuggestions[intent]
	if !ok {
		set = defaultSuggestions
	}

	suggestions := make([]string, 0, len(set)+3)
	suggestions = append(suggestions, set...)
	suggestions = append(suggestions, roleSuggestions[role]...)

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

// QuickSuggestions is the role-based starter list shown before any
// conversation happens.
func QuickSuggestions(role models.UserRole) []string {
	switch role {
	case models.RoleBuyer:
		return []string{
			"Help me write an RFP",
			"Browse seller profiles",
			"Market research",
			"Negotiation advice",
		}
	case models.RoleSeller:
		return []string{
			"Browse active RFPs",
			"Update my profile",
			"Market insights",
			"Pricing strategy",
		}
	default:
		return []string{
			"Help me write an RFP",
			"Analyze an offer",
			"Market research",
			"Platform guide",
		}
	}
}
