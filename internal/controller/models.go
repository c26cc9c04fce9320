package controller

import (
	"encoding/json"
	"fmt"
	"time"

	"rfpmarket/internal/concierge"
	"rfpmarket/internal/models"
)

type ErrorResponse struct {
	Reason string `json:"reason"`
}

// New RFP request

type NewRFPReq struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	BudgetMin   *int      `json:"budgetMin"`
	BudgetMax   *int      `json:"budgetMax"`
	Deadline    time.Time `json:"deadline"`
	Location    string    `json:"location"`
	IsPrivate   bool      `json:"isPrivate"`
}

func ParseNewRFPReq(data []byte) (*NewRFPReq, error) {
	t := &NewRFPReq{}

	err := json.Unmarshal(data, t)
	if err != nil {
		return nil, err
	}

	if err = checkLengthLimit(t.Title, "Title", 200); err != nil {
		return nil, err
	}
	if err = checkLengthLimit(t.Category, "Category", 100); err != nil {
		return nil, err
	}
	if err = checkLengthLimit(t.Location, "Location", 100); err != nil {
		return nil, err
	}

	return t, nil
}

// Edit RFP request

func ParseRFPPatchReq(data []byte) (models.RFPPatch, error) {
	patch := models.RFPPatch{}

	err := json.Unmarshal(data, &patch)
	if err != nil {
		return patch, err
	}

	if patch.Title != nil {
		if err = checkLengthLimit(*patch.Title, "Title", 200); err != nil {
			return patch, err
		}
	}
	if patch.Category != nil {
		if err = checkLengthLimit(*patch.Category, "Category", 100); err != nil {
			return patch, err
		}
	}
	if patch.Location != nil {
		if err = checkLengthLimit(*patch.Location, "Location", 100); err != nil {
			return patch, err
		}
	}

	return patch, nil
}

// New offer request

type NewOfferReq struct {
	Price        float64 `json:"price"`
	Description  string  `json:"description"`
	DeliveryTime string  `json:"deliveryTime"`
	IsPrivate    bool    `json:"isPrivate"`
}

func ParseNewOfferReq(data []byte) (*NewOfferReq, error) {
	t := &NewOfferReq{}

	err := json.Unmarshal(data, t)
	if err != nil {
		return nil, err
	}

	if err = checkLengthLimit(t.DeliveryTime, "DeliveryTime", 200); err != nil {
		return nil, err
	}

	return t, nil
}

// Edit offer request

func ParseOfferPatchReq(data []byte) (models.OfferPatch, error) {
	patch := models.OfferPatch{}

	err := json.Unmarshal(data, &patch)
	if err != nil {
		return patch, err
	}

	if patch.DeliveryTime != nil {
		if err = checkLengthLimit(*patch.DeliveryTime, "DeliveryTime", 200); err != nil {
			return patch, err
		}
	}

	return patch, nil
}

// Concierge chat request

type ChatReq struct {
	Message string            `json:"message"`
	Context concierge.Context `json:"context"`
}

func ParseChatReq(data []byte) (*ChatReq, error) {
	t := &ChatReq{}

	err := json.Unmarshal(data, t)
	if err != nil {
		return nil, err
	}

	if len(t.Message) == 0 {
		return nil, fmt.Errorf("empty message supplied")
	}
	if err = checkLengthLimit(t.Message, "Message", 4000); err != nil {
		return nil, err
	}

	return t, nil
}

// Offer analysis request

func ParseAnalyzeOfferReq(data []byte) (concierge.OfferFacts, error) {
	facts := concierge.OfferFacts{}

	err := json.Unmarshal(data, &facts)
	if err != nil {
		return facts, err
	}

	if facts.Price <= 0 {
		return facts, fmt.Errorf("price must be greater than zero")
	}

	return facts, nil
}

func checkLengthLimit(value, name string, limit int) error {
	if len(value) > limit {
		return fmt.Errorf("%s field exceeds length limit of %d characters", name, limit)
	}
	return nil
}
