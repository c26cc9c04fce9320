package concierge

// OfferFacts is the input to offer analysis.
type OfferFacts struct {
	Price        float64 `json:"price"`
	Description  string  `json:"description"`
	DeliveryTime string  `json:"deliveryTime"`
	SellerRating float64 `json:"sellerRating"`
}

type PriceAnalysis struct {
	MarketPosition string `json:"market_position"`
	ValueScore     int    `json:"value_score"`
	PriceBreakdown string `json:"price_breakdown"`
}

type SellerAnalysis struct {
	ReputationScore float64 `json:"reputation_score"`
	ResponseTime    string  `json:"response_time"`
	CompletionRate  string  `json:"completion_rate"`
}

type RiskAssessment struct {
	OverallRisk     string   `json:"overall_risk"`
	Concerns        []string `json:"concerns"`
	Recommendations []string `json:"recommendations"`
}

// OfferAnalysis is the fixed contract shape for offer insight responses.
type OfferAnalysis struct {
	PriceAnalysis   PriceAnalysis  `json:"price_analysis"`
	SellerAnalysis  SellerAnalysis `json:"seller_analysis"`
	RiskAssessment  RiskAssessment `json:"risk_assessment"`
	Recommendations []string       `json:"recommendations"`
}

// AnalyzeOffer returns a templated analysis. The field shape is the
// contract; the scoring is a placeholder until backed by real market data.
func AnalyzeOffer(facts OfferFacts) OfferAnalysis {
	return OfferAnalysis{
		PriceAnalysis: PriceAnalysis{
			MarketPosition: "competitive",
			ValueScore:     75,
			PriceBreakdown: "reasonable",
		},
		SellerAnalysis: SellerAnalysis{
			ReputationScore: facts.SellerRating,
			ResponseTime:    "24 hours",
			CompletionRate:  "95%",
		},
		RiskAssessment: RiskAssessment{
			OverallRisk:     "low",
			Concerns:        []string{},
			Recommendations: []string{},
		},
		Recommendations: []string{
			"Consider requesting a detailed project timeline",
			"Ask for references from similar projects",
			"Negotiate payment terms (e.g., milestone payments)",
		},
	}
}
