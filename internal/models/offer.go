package models

import "time"

type OfferStatus string

const (
	OfferPending   OfferStatus = "Pending"
	OfferAccepted  OfferStatus = "Accepted"
	OfferRejected  OfferStatus = "Rejected"
	OfferWithdrawn OfferStatus = "Withdrawn"
)

func ValidOfferStatus(s OfferStatus) bool {
	switch s {
	case OfferPending, OfferAccepted, OfferRejected, OfferWithdrawn:
		return true
	default:
		return false
	}
}

type Offer struct {
	Id             string      `json:"id"`
	RFPId          string      `json:"rfpId"`
	SellerId       string      `json:"sellerId"`
	OrganizationId string      `json:"organizationId,omitempty"`
	Price          float64     `json:"price"`
	Description    string      `json:"description"`
	DeliveryTime   string      `json:"deliveryTime"`
	Status         OfferStatus `json:"status"`
	IsPrivate      bool        `json:"isPrivate"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// OfferPatch is a partial update to an offer. Nil fields are left untouched.
type OfferPatch struct {
	Price        *float64 `json:"price"`
	Description  *string  `json:"description"`
	DeliveryTime *string  `json:"deliveryTime"`
}

// Apply copies the non-nil patch fields onto the offer.
func (p OfferPatch) Apply(offer *Offer) {
	if p.Price != nil {
		offer.Price = *p.Price
	}
	if p.Description != nil {
		offer.Description = *p.Description
	}
	if p.DeliveryTime != nil {
		offer.DeliveryTime = *p.DeliveryTime
	}
}
