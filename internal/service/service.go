package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"rfpmarket/internal/ai"
	"rfpmarket/internal/models"
)

// minOfferDescriptionLen is the minimum length of an offer description.
const minOfferDescriptionLen = 10

// Repository is the storage contract the lifecycle logic runs against.
// Missing-row reads fail with an error wrapping sql.ErrNoRows. Conditional
// writes report false when the guarded state no longer holds, which keeps
// read-check-write sequences race-free under concurrent callers.
type Repository interface {
	UserByUsername(ctx context.Context, username string) (models.User, bool, error)
	Sellers(ctx context.Context) ([]models.User, error)

	AddRFP(ctx context.Context, rfp models.RFP) (models.RFP, error)
	GetRFPByUUID(ctx context.Context, rfpId string) (models.RFP, error)
	GetRFPs(ctx context.Context, limit, offset int, filter models.RFPFilter) ([]models.RFP, error)
	UpdateRFP(ctx context.Context, rfp models.RFP) error
	SetRFPStatus(ctx context.Context, rfpId string, from, to models.RFPStatus) (bool, error)
	CloseRFP(ctx context.Context, rfpId string) (bool, error)
	AwardRFP(ctx context.Context, rfpId, offerId string) (bool, error)

	AddOffer(ctx context.Context, offer models.Offer) (models.Offer, error)
	GetOfferByUUID(ctx context.Context, offerId string) (models.Offer, error)
	GetOffers(ctx context.Context, limit, offset int, sellerId, rfpId string) ([]models.Offer, error)
	UpdateOffer(ctx context.Context, offer models.Offer) (bool, error)
	DeleteOffer(ctx context.Context, offerId string) (bool, error)
}

type Service struct {
	repo       Repository
	normalizer *ai.Normalizer
	advisor    *ai.Advisor
	matcher    *ai.Matcher
}

func NewService(repo Repository, normalizer *ai.Normalizer, advisor *ai.Advisor, matcher *ai.Matcher) *Service {
	return &Service{
		repo:       repo,
		normalizer: normalizer,
		advisor:    advisor,
		matcher:    matcher,
	}
}

// GetUser resolves a username to the stored user.
func (s *Service) GetUser(ctx context.Context, username string) (models.User, error) {
	user, err := s.userByUsername(ctx, username)
	if err != nil {
		return models.User{}, fmt.Errorf("service.Service.GetUser: %w", err)
	}
	return user, nil
}

//// RFPs

func (s *Service) CreateRFP(ctx context.Context, username string, rfp models.RFP) (models.RFP, error) {
	// check if username exists
	user, err := s.userByUsername(ctx, username)
	if err != nil {
		return models.RFP{}, fmt.Errorf("service.Service.CreateRFP: %w", err)
	}

	// reject invalid input before any persistence or model call
	if err := validateRFPFields(rfp); err != nil {
		return models.RFP{}, fmt.Errorf("service.Service.CreateRFP: %w", err)
	}

	// AI enrichment happens before the row exists and outside any
	// transaction; both calls are total and cannot fail the creation
	requirements := s.normalizer.Normalize(ctx, rfp.Description)
	summary := s.advisor.Summarize(ctx, ai.RFPFacts{
		Title:       rfp.Title,
		Description: rfp.Description,
		Category:    rfp.Category,
		BudgetMin:   rfp.BudgetMin,
		BudgetMax:   rfp.BudgetMax,
		Deadline:    rfp.Deadline,
	})

	rfp.Requirements = &requirements
	rfp.AISummary = summary
	rfp.BuyerId = user.Id
	rfp.OrganizationId = user.OrganizationId
	rfp.Status = models.RFPDraft
	rfp.AwardedOfferId = ""

	rfp, err = s.repo.AddRFP(ctx, rfp)
	if err != nil {
		return models.RFP{}, fmt.Errorf("service.Service.CreateRFP: %w", err)
	}

	return rfp, nil
}

func (s *Service) GetRFP(ctx context.Context, username, rfpId string) (models.RFP, error) {
	user, err := s.userByUsername(ctx, username)
	if err != nil {
		return models.RFP{}, fmt.Errorf("service.Service.GetRFP: %w", err)
	}

	rfp, err := s.rfpByUUID(ctx, rfpId)
	if err != nil {
		return models.RFP{}, fmt.Errorf("service.Service.GetRFP: %w", err)
	}

	// private RFPs are visible to the owning buyer only
	if rfp.IsPrivate && rfp.BuyerId != user.Id {
		return models.RFP{}, models.ErrForbidden
	}

	return rfp, nil
}

func (s *Service) GetRFPs(ctx context.Context, username string, limit, offset int, category string, status models.RFPStatus) ([]models.RFP, error) {
	user, err := s.userByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("service.Service.GetRFPs: %w", err)
	}

	rfps, err := s.repo.GetRFPs(ctx, limit, offset, models.RFPFilter{
		Category: category,
		Status:   status,
		ViewerId: user.Id,
	})
	if err != nil {
		return nil, fmt.Errorf("service.Service.GetRFPs: %w", err)
	}

	return rfps, nil
}

func (s *Service) GetUserRFPs(ctx context.Context, username string, limit, offset int) ([]models.RFP, error) {
	user, err := s.userByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("service.Service.GetUserRFPs: %w", err)
	}

	rfps, err := s.repo.GetRFPs(ctx, limit, offset, models.RFPFilter{
		BuyerId:  user.Id,
		ViewerId: user.Id,
	})
	if err != nil {
		return nil, fmt.Errorf("service.Service.GetUserRFPs: %w", err)
	}

	return rfps, nil
}

func (s *Service) EditRFP(ctx context.Context, username, rfpId string, patch models.RFPPatch) (models.RFP, error) {
	user, err := s.userByUsername(ctx, username)
	if err != nil {
		return models.RFP{}, fmt.Errorf("service.Service.EditRFP: %w", err)
	}

	rfp, err := s.rfpByUUID(ctx, rfpId)
	if err != nil {
		return models.RFP{}, fmt.Errorf("service.Service.EditRFP: %w", err)
	}

	// only the owning buyer may edit
	if rfp.BuyerId != user.Id {
		return models.RFP{}, models.ErrForbidden
	}

	patch.Apply(&rfp)
	if err := validateRFPFields(rfp); err != nil {
		return models.RFP{}, fmt.Errorf("service.Service.EditRFP: %w", err)
	}

	if err := s.repo.UpdateRFP(ctx, rfp); err != nil {
		return models.RFP{}, fmt.Errorf("service.Service.EditRFP: %w", err)
	}

	return rfp, nil
}

func (s *Service) PublishRFP(ctx context.Context, username, rfpId string) error {
	user, err := s.userByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("service.Service.PublishRFP: %w", err)
	}

	rfp, err := s.rfpByUUID(ctx, rfpId)
	if err != nil {
		return fmt.Errorf("service.Service.PublishRFP: %w", err)
	}

	// ownership is checked before state here
	if rfp.BuyerId != user.Id {
		return models.ErrForbidden
	}

	if rfp.Status != models.RFPDraft {
		return fmt.Errorf("service.Service.PublishRFP: only draft RFPs can be published: %w", models.ErrInvalidState)
	}

	ok, err := s.repo.SetRFPStatus(ctx, rfpId, models.RFPDraft, models.RFPPublished)
	if err != nil {
		return fmt.Errorf("service.Service.PublishRFP: %w", err)
	}
	if !ok {
		// lost the race: someone else moved the RFP out of Draft
		return fmt.Errorf("service.Service.PublishRFP: %w", models.ErrInvalidState)
	}

	return nil
}

func (s *Service) CloseRFP(ctx context.Context, username, rfpId string) error {
	user, err := s.userByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("service.Service.CloseRFP: %w", err)
	}

	rfp, err := s.rfpByUUID(ctx, rfpId)
	if err != nil {
		return fmt.Errorf("service.Service.CloseRFP: %w", err)
	}

	if rfp.BuyerId != user.Id {
		return models.ErrForbidden
	}

	// terminal states are left untouched; close still acks
	if _, err := s.repo.CloseRFP(ctx, rfpId); err != nil {
		return fmt.Errorf("service.Service.CloseRFP: %w", err)
	}

	return nil
}

// MatchSellers ranks the platform's sellers against an RFP. Buyer only.
func (s *Service) MatchSellers(ctx context.Context, username, rfpId string) ([]ai.SellerMatch, error) {
	user, err := s.userByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("service.Service.MatchSellers: %w", err)
	}

	rfp, err := s.rfpByUUID(ctx, rfpId)
	if err != nil {
		return nil, fmt.Errorf("service.Service.MatchSellers: %w", err)
	}

	if rfp.BuyerId != user.Id {
		return nil, models.ErrForbidden
	}

	sellers, err := s.repo.Sellers(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.Service.MatchSellers: %w", err)
	}

	summaries := make([]ai.SellerSummary, len(sellers))
	for i, seller := range sellers {
		summaries[i] = ai.SellerSummary{
			Id:          seller.Id,
			Name:        seller.Username,
			Specialties: seller.Specialties,
			Rating:      seller.Rating,
			Location:    seller.Location,
		}
	}

	return s.matcher.Rank(ctx, rfp.Title, summaries), nil
}

//// Offers

func (s *Service) SubmitOffer(ctx context.Context, username, rfpId string, offer models.Offer) (models.Offer, error) {
	user, err := s.userByUsername(ctx, username)
	if err != nil {
		return models.Offer{}, fmt.Errorf("service.Service.SubmitOffer: %w", err)
	}

	rfp, err := s.rfpByUUID(ctx, rfpId)
	if err != nil {
		return models.Offer{}, fmt.Errorf("service.Service.SubmitOffer: %w", err)
	}

	// offers are accepted against published RFPs only
	if rfp.Status != models.RFPPublished {
		return models.Offer{}, fmt.Errorf("service.Service.SubmitOffer: can only submit offers to published RFPs: %w", models.ErrInvalidState)
	}

	// buyer cannot offer on own RFP
	if rfp.BuyerId == user.Id {
		return models.Offer{}, models.ErrForbidden
	}

	if err := validateOfferFields(offer); err != nil {
		return models.Offer{}, fmt.Errorf("service.Service.SubmitOffer: %w", err)
	}

	offer.RFPId = rfp.Id
	offer.SellerId = user.Id
	offer.OrganizationId = user.OrganizationId
	offer.Status = models.OfferPending

	// the unique (rfp_id, seller_id) index makes the duplicate check
	// race-free; the insert itself re-asserts the Published state
	offer, err = s.repo.AddOffer(ctx, offer)
	if err != nil {
		return models.Offer{}, fmt.Errorf("service.Service.SubmitOffer: %w", err)
	}

	return offer, nil
}

func (s *Service) GetRFPOffers(ctx context.Context, username, rfpId string, limit, offset int) ([]models.Offer, error) {
	user, err := s.userByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("service.Service.GetRFPOffers: %w", err)
	}

	rfp, err := s.rfpByUUID(ctx, rfpId)
	if err != nil {
		return nil, fmt.Errorf("service.Service.GetRFPOffers: %w", err)
	}

	// only the owning buyer may list all offers for an RFP
	if rfp.BuyerId != user.Id {
		return nil, models.ErrForbidden
	}

	offers, err := s.repo.GetOffers(ctx, limit, offset, "", rfp.Id)
	if err != nil {
		return nil, fmt.Errorf("service.Service.GetRFPOffers: %w", err)
	}

	return offers, nil
}

func (s *Service) GetUserOffers(ctx context.Context, username string, limit, offset int) ([]models.Offer, error) {
	user, err := s.userByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("service.Service.GetUserOffers: %w", err)
	}

	offers, err := s.repo.GetOffers(ctx, limit, offset, user.Id, "")
	if err != nil {
		return nil, fmt.Errorf("service.Service.GetUserOffers: %w", err)
	}

	return offers, nil
}

func (s *Service) GetOffer(ctx context.Context, username, offerId string) (models.Offer, error) {
	user, err := s.userByUsername(ctx, username)
	if err != nil {
		return models.Offer{}, fmt.Errorf("service.Service.GetOffer: %w", err)
	}

	offer, err := s.offerByUUID(ctx, offerId)
	if err != nil {
		return models.Offer{}, fmt.Errorf("service.Service.GetOffer: %w", err)
	}

	rfp, err := s.rfpByUUID(ctx, offer.RFPId)
	if err != nil {
		return models.Offer{}, fmt.Errorf("service.Service.GetOffer: %w", err)
	}

	// visible to the offer's seller and the RFP's buyer only
	if offer.SellerId != user.Id && rfp.BuyerId != user.Id {
		return models.Offer{}, models.ErrForbidden
	}

	return offer, nil
}

func (s *Service) EditOffer(ctx context.Context, username, offerId string, patch models.OfferPatch) (models.Offer, error) {
	user, err := s.userByUsername(ctx, username)
	if err != nil {
		return models.Offer{}, fmt.Errorf("service.Service.EditOffer: %w", err)
	}

	offer, err := s.offerByUUID(ctx, offerId)
	if err != nil {
		return models.Offer{}, fmt.Errorf("service.Service.EditOffer: %w", err)
	}

	// only the owning seller may edit
	if offer.SellerId != user.Id {
		return models.Offer{}, models.ErrForbidden
	}

	rfp, err := s.rfpByUUID(ctx, offer.RFPId)
	if err != nil {
		return models.Offer{}, fmt.Errorf("service.Service.EditOffer: %w", err)
	}

	if rfp.Status != models.RFPPublished {
		return models.Offer{}, fmt.Errorf("service.Service.EditOffer: cannot modify offer on closed RFP: %w", models.ErrInvalidState)
	}

	patch.Apply(&offer)
	if err := validateOfferFields(offer); err != nil {
		return models.Offer{}, fmt.Errorf("service.Service.EditOffer: %w", err)
	}

	ok, err := s.repo.UpdateOffer(ctx, offer)
	if err != nil {
		return models.Offer{}, fmt.Errorf("service.Service.EditOffer: %w", err)
	}
	if !ok {
		return models.Offer{}, fmt.Errorf("service.Service.EditOffer: cannot modify offer on closed RFP: %w", models.ErrInvalidState)
	}

	return offer, nil
}

func (s *Service) DeleteOffer(ctx context.Context, username, offerId string) error {
	user, err := s.userByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("service.Service.DeleteOffer: %w", err)
	}

	offer, err := s.offerByUUID(ctx, offerId)
	if err != nil {
		return fmt.Errorf("service.Service.DeleteOffer: %w", err)
	}

	if offer.SellerId != user.Id {
		return models.ErrForbidden
	}

	rfp, err := s.rfpByUUID(ctx, offer.RFPId)
	if err != nil {
		return fmt.Errorf("service.Service.DeleteOffer: %w", err)
	}

	if rfp.Status != models.RFPPublished {
		return fmt.Errorf("service.Service.DeleteOffer: cannot delete offer on closed RFP: %w", models.ErrInvalidState)
	}

	ok, err := s.repo.DeleteOffer(ctx, offerId)
	if err != nil {
		return fmt.Errorf("service.Service.DeleteOffer: %w", err)
	}
	if !ok {
		return fmt.Errorf("service.Service.DeleteOffer: cannot delete offer on closed RFP: %w", models.ErrInvalidState)
	}

	return nil
}

func (s *Service) AcceptOffer(ctx context.Context, username, offerId string) error {
	user, err := s.userByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("service.Service.AcceptOffer: %w", err)
	}

	offer, err := s.offerByUUID(ctx, offerId)
	if err != nil {
		return fmt.Errorf("service.Service.AcceptOffer: %w", err)
	}

	rfp, err := s.rfpByUUID(ctx, offer.RFPId)
	if err != nil {
		return fmt.Errorf("service.Service.AcceptOffer: %w", err)
	}

	// ownership is checked before state here
	if rfp.BuyerId != user.Id {
		return models.ErrForbidden
	}

	if rfp.Status != models.RFPPublished {
		return fmt.Errorf("service.Service.AcceptOffer: cannot accept offer for closed RFP: %w", models.ErrInvalidState)
	}

	// one transaction flips both rows; the conditional update makes
	// acceptance exactly-once under concurrent calls
	ok, err := s.repo.AwardRFP(ctx, rfp.Id, offer.Id)
	if err != nil {
		return fmt.Errorf("service.Service.AcceptOffer: %w", err)
	}
	if !ok {
		return fmt.Errorf("service.Service.AcceptOffer: %w", models.ErrInvalidState)
	}

	return nil
}

// SuggestNegotiation computes counteroffer advice for an offer. Available to
// the offer's seller and the RFP's buyer. The market average is the budget
// midpoint when both bounds are present, else the offer price.
func (s *Service) SuggestNegotiation(ctx context.Context, username, offerId string) (ai.CounterofferSuggestion, error) {
	user, err := s.userByUsername(ctx, username)
	if err != nil {
		return ai.CounterofferSuggestion{}, fmt.Errorf("service.Service.SuggestNegotiation: %w", err)
	}

	offer, err := s.offerByUUID(ctx, offerId)
	if err != nil {
		return ai.CounterofferSuggestion{}, fmt.Errorf("service.Service.SuggestNegotiation: %w", err)
	}

	rfp, err := s.rfpByUUID(ctx, offer.RFPId)
	if err != nil {
		return ai.CounterofferSuggestion{}, fmt.Errorf("service.Service.SuggestNegotiation: %w", err)
	}

	if offer.SellerId != user.Id && rfp.BuyerId != user.Id {
		return ai.CounterofferSuggestion{}, models.ErrForbidden
	}

	marketAverage := offer.Price
	if rfp.BudgetMin != nil && rfp.BudgetMax != nil {
		marketAverage = float64(*rfp.BudgetMin+*rfp.BudgetMax) / 2
	}

	return s.advisor.SuggestCounteroffer(ctx, offer.Price, offer.Price, marketAverage), nil
}

//// Service

func (s *Service) userByUsername(ctx context.Context, username string) (models.User, error) {
	user, ok, err := s.repo.UserByUsername(ctx, username)
	if err != nil {
		return user, err
	}
	if !ok {
		return user, fmt.Errorf("%w: %s", models.ErrInvalidUser, username)
	}
	return user, nil
}

func (s *Service) rfpByUUID(ctx context.Context, rfpId string) (models.RFP, error) {
	rfp, err := s.repo.GetRFPByUUID(ctx, rfpId)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RFP{}, models.ErrNoRFP
	} else if err != nil {
		return models.RFP{}, err
	}
	return rfp, nil
}

func (s *Service) offerByUUID(ctx context.Context, offerId string) (models.Offer, error) {
	offer, err := s.repo.GetOfferByUUID(ctx, offerId)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Offer{}, models.ErrNoOffer
	} else if err != nil {
		return models.Offer{}, err
	}
	return offer, nil
}

func validateRFPFields(rfp models.RFP) error {
	if strings.TrimSpace(rfp.Title) == "" {
		return fmt.Errorf("%w: title is required", models.ErrValidation)
	}
	if strings.TrimSpace(rfp.Description) == "" {
		return fmt.Errorf("%w: description is required", models.ErrValidation)
	}
	if strings.TrimSpace(rfp.Category) == "" {
		return fmt.Errorf("%w: category is required", models.ErrValidation)
	}
	if rfp.Deadline.IsZero() {
		return fmt.Errorf("%w: deadline is required", models.ErrValidation)
	}
	if rfp.BudgetMin != nil && rfp.BudgetMax != nil && *rfp.BudgetMax <= *rfp.BudgetMin {
		return fmt.Errorf("%w: budget_max must be greater than budget_min", models.ErrValidation)
	}
	return nil
}

func validateOfferFields(offer models.Offer) error {
	if offer.Price <= 0 {
		return fmt.Errorf("%w: price must be greater than zero", models.ErrValidation)
	}
	if len(strings.TrimSpace(offer.Description)) < minOfferDescriptionLen {
		return fmt.Errorf("%w: description must be at least %d characters", models.ErrValidation, minOfferDescriptionLen)
	}
	if strings.TrimSpace(offer.DeliveryTime) == "" {
		return fmt.Errorf("%w: delivery_time is required", models.ErrValidation)
	}
	return nil
}
