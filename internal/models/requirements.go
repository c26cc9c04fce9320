package models

// Requirements is the structured form of a free-text RFP description,
// produced by the AI normalizer at creation time. Stored as JSONB.
type Requirements struct {
	Category              string   `json:"category"`
	Specifications        []string `json:"specifications"`
	Constraints           []string `json:"constraints"`
	BudgetRange           string   `json:"budget_range"`
	Timeline              string   `json:"timeline"`
	LocationPreferences   []string `json:"location_preferences"`
	TechnicalRequirements []string `json:"technical_requirements"`
	QualityStandards      []string `json:"quality_standards"`
}
