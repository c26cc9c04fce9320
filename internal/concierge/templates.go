package concierge

// RFPTemplate is a starting point for a category of RFP.
type RFPTemplate struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	BudgetRange  string   `json:"budget_range"`
	Timeline     string   `json:"timeline"`
}

var rfpTemplates = map[string]RFPTemplate{
	"software": {
		Title:       "Software Development Project",
		Description: "We are seeking a software development team to build a custom web application...",
		Requirements: []string{
			"Frontend development (React/Next.js)",
			"Backend API development (Node.js/Python)",
			"Database design and implementation",
			"Testing and quality assurance",
			"Deployment and hosting setup",
		},
		BudgetRange: "$10,000 - $50,000",
		Timeline:    "3-6 months",
	},
	"consulting": {
		Title:       "Business Consulting Services",
		Description: "We need expert consulting services to help optimize our business processes...",
		Requirements: []string{
			"Business process analysis",
			"Strategy development",
			"Implementation planning",
			"Change management support",
			"Performance monitoring",
		},
		BudgetRange: "$5,000 - $25,000",
		Timeline:    "2-4 months",
	},
	"marketing": {
		Title:       "Digital Marketing Campaign",
		Description: "We're looking for a digital marketing agency to launch a comprehensive campaign...",
		Requirements: []string{
			"Social media marketing",
			"Content creation",
			"SEO optimization",
			"Paid advertising (Google Ads, Facebook)",
			"Analytics and reporting",
		},
		BudgetRange: "$3,000 - $15,000",
		Timeline:    "3-6 months",
	},
}

// TemplateFor returns the template for a category, defaulting to the
// consulting template for unrecognized categories. No model call involved.
func TemplateFor(category string) RFPTemplate {
	if template, ok := rfpTemplates[category]; ok {
		return template
	}
	return rfpTemplates["consulting"]
}
