package controller

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"rfpmarket/internal/ai"
	"rfpmarket/internal/concierge"
	"rfpmarket/internal/models"
)

// stubService returns a fixed error from every operation.
type stubService struct {
	err  error
	user models.User
}

func (s *stubService) GetUser(ctx context.Context, username string) (models.User, error) {
	return s.user, s.err
}
func (s *stubService) CreateRFP(ctx context.Context, username string, rfp models.RFP) (models.RFP, error) {
	return rfp, s.err
}
func (s *stubService) GetRFP(ctx context.Context, username, rfpId string) (models.RFP, error) {
	return models.RFP{}, s.err
}
func (s *stubService) GetRFPs(ctx context.Context, username string, limit, offset int, category string, status models.RFPStatus) ([]models.RFP, error) {
	return nil, s.err
}
func (s *stubService) GetUserRFPs(ctx context.Context, username string, limit, offset int) ([]models.RFP, error) {
	return nil, s.err
}
func (s *stubService) EditRFP(ctx context.Context, username, rfpId string, patch models.RFPPatch) (models.RFP, error) {
	return models.RFP{}, s.err
}
func (s *stubService) PublishRFP(ctx context.Context, username, rfpId string) error { return s.err }
func (s *stubService) CloseRFP(ctx context.Context, username, rfpId string) error   { return s.err }
func (s *stubService) MatchSellers(ctx context.Context, username, rfpId string) ([]ai.SellerMatch, error) {
	return nil, s.err
}
func (s *stubService) SubmitOffer(ctx context.Context, username, rfpId string, offer models.Offer) (models.Offer, error) {
	return offer, s.err
}
func (s *stubService) GetRFPOffers(ctx context.Context, username, rfpId string, limit, offset int) ([]models.Offer, error) {
	return nil, s.err
}
func (s *stubService) GetUserOffers(ctx context.Context, username string, limit, offset int) ([]models.Offer, error) {
	return nil, s.err
}
func (s *stubService) GetOffer(ctx context.Context, username, offerId string) (models.Offer, error) {
	return models.Offer{}, s.err
}
func (s *stubService) EditOffer(ctx context.Context, username, offerId string, patch models.OfferPatch) (models.Offer, error) {
	return models.Offer{}, s.err
}
func (s *stubService) DeleteOffer(ctx context.Context, username, offerId string) error { return s.err }
func (s *stubService) AcceptOffer(ctx context.Context, username, offerId string) error { return s.err }
func (s *stubService) SuggestNegotiation(ctx context.Context, username, offerId string) (ai.CounterofferSuggestion, error) {
	return ai.CounterofferSuggestion{}, s.err
}

type stubConcierge struct{}

func (stubConcierge) ProcessMessage(ctx context.Context, userId, message string, cctx concierge.Context) concierge.Reply {
	return concierge.Reply{Content: "ok", Type: "text"}
}
func (stubConcierge) ClearHistory(userId string) {}

func TestServiceErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{models.ErrInvalidUser, http.StatusUnauthorized},
		{models.ErrForbidden, http.StatusForbidden},
		{models.ErrNoRFP, http.StatusNotFound},
		{models.ErrNoOffer, http.StatusNotFound},
		{models.ErrInvalidState, http.StatusBadRequest},
		{models.ErrDuplicateOffer, http.StatusConflict},
		{models.ErrValidation, http.StatusBadRequest},
		{fmt.Errorf("unexpected database failure"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		// wrapped the way the lifecycle layer wraps its errors
		wrapped := fmt.Errorf("service.Service.GetRFP: %w", tc.err)
		c := NewController(&stubService{err: wrapped}, stubConcierge{})

		req := httptest.NewRequest("GET", "/api/rfps/some-id?username=buyer1", nil)
		req.SetPathValue("rfpId", "some-id")
		rec := httptest.NewRecorder()

		c.GetRFP(rec, req)

		if rec.Code != tc.status {
			t.Errorf("error %v should map to status %d, got %d", tc.err, tc.status, rec.Code)
		}
	}
}

func TestMissingUsername(t *testing.T) {
	c := NewController(&stubService{}, stubConcierge{})

	req := httptest.NewRequest("GET", "/api/rfps/some-id", nil)
	req.SetPathValue("rfpId", "some-id")
	rec := httptest.NewRecorder()

	c.GetRFP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing username should map to status 400, got %d", rec.Code)
	}
}

func TestMalformedBody(t *testing.T) {
	c := NewController(&stubService{}, stubConcierge{})

	req := httptest.NewRequest("POST", "/api/rfps/new?username=buyer1", nil)
	rec := httptest.NewRecorder()

	c.NewRFP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty body should map to status 400, got %d", rec.Code)
	}
}
