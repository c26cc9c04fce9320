package models

import "time"

type RFPStatus string

const (
	RFPDraft     RFPStatus = "Draft"
	RFPPublished RFPStatus = "Published"
	RFPClosed    RFPStatus = "Closed"
	RFPAwarded   RFPStatus = "Awarded"
	RFPCancelled RFPStatus = "Cancelled"
)

func ValidRFPStatus(s RFPStatus) bool {
	switch s {
	case RFPDraft, RFPPublished, RFPClosed, RFPAwarded, RFPCancelled:
		return true
	default:
		return false
	}
}

// TerminalRFPStatus reports whether no further offer activity is possible.
func TerminalRFPStatus(s RFPStatus) bool {
	return s == RFPAwarded || s == RFPCancelled
}

// RFPFilter narrows RFP listings. ViewerId controls private RFP visibility:
// private RFPs are returned only when owned by the viewer.
type RFPFilter struct {
	RFPId    string
	BuyerId  string
	Category string
	Status   RFPStatus
	ViewerId string
}

type RFP struct {
	Id             string        `json:"id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Category       string        `json:"category"`
	BudgetMin      *int          `json:"budgetMin"`
	BudgetMax      *int          `json:"budgetMax"`
	Deadline       time.Time     `json:"deadline"`
	Location       string        `json:"location,omitempty"`
	Requirements   *Requirements `json:"requirements"`
	Status         RFPStatus     `json:"status"`
	BuyerId        string        `json:"buyerId"`
	OrganizationId string        `json:"organizationId,omitempty"`
	IsPrivate      bool          `json:"isPrivate"`
	AISummary      string        `json:"aiSummary,omitempty"`
	AwardedOfferId string        `json:"awardedOfferId,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"-"`
}

// RFPPatch is a partial update to an RFP. Nil fields are left untouched.
type RFPPatch struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	BudgetMin   *int       `json:"budgetMin"`
	BudgetMax   *int       `json:"budgetMax"`
	Deadline    *time.Time `json:"deadline"`
	Location    *string    `json:"location"`
	IsPrivate   *bool      `json:"isPrivate"`
}

// Apply copies the non-nil patch fields onto the RFP.
func (p RFPPatch) Apply(rfp *RFP) {
	if p.Title != nil {
		rfp.Title = *p.Title
	}
	if p.Description != nil {
		rfp.Description = *p.Description
	}
	if p.Category != nil {
		rfp.Category = *p.Category
	}
	if p.BudgetMin != nil {
		rfp.BudgetMin = p.BudgetMin
	}
	if p.BudgetMax != nil {
		rfp.BudgetMax = p.BudgetMax
	}
	if p.Deadline != nil {
		rfp.Deadline = *p.Deadline
	}
	if p.Location != nil {
		rfp.Location = *p.Location
	}
	if p.IsPrivate != nil {
		rfp.IsPrivate = *p.IsPrivate
	}
}
