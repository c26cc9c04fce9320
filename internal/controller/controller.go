package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"rfpmarket/internal/ai"
	"rfpmarket/internal/concierge"
	"rfpmarket/internal/models"
)

type Service interface {
	GetUser(ctx context.Context, username string) (models.User, error)

	CreateRFP(ctx context.Context, username string, rfp models.RFP) (models.RFP, error)
	GetRFP(ctx context.Context, username, rfpId string) (models.RFP, error)
	GetRFPs(ctx context.Context, username string, limit, offset int, category string, status models.RFPStatus) ([]models.RFP, error)
	GetUserRFPs(ctx context.Context, username string, limit, offset int) ([]models.RFP, error)
	EditRFP(ctx context.Context, username, rfpId string, patch models.RFPPatch) (models.RFP, error)
	PublishRFP(ctx context.Context, username, rfpId string) error
	CloseRFP(ctx context.Context, username, rfpId string) error
	MatchSellers(ctx context.Context, username, rfpId string) ([]ai.SellerMatch, error)

	SubmitOffer(ctx context.Context, username, rfpId string, offer models.Offer) (models.Offer, error)
	GetRFPOffers(ctx context.Context, username, rfpId string, limit, offset int) ([]models.Offer, error)
	GetUserOffers(ctx context.Context, username string, limit, offset int) ([]models.Offer, error)
	GetOffer(ctx context.Context, username, offerId string) (models.Offer, error)
	EditOffer(ctx context.Context, username, offerId string, patch models.OfferPatch) (models.Offer, error)
	DeleteOffer(ctx context.Context, username, offerId string) error
	AcceptOffer(ctx context.Context, username, offerId string) error
	SuggestNegotiation(ctx context.Context, username, offerId string) (ai.CounterofferSuggestion, error)
}

type Concierge interface {
	ProcessMessage(ctx context.Context, userId, message string, cctx concierge.Context) concierge.Reply
	ClearHistory(userId string)
}

type Controller struct {
	service   Service
	concierge Concierge
}

func NewController(service Service, conciergeService Concierge) *Controller {
	return &Controller{service: service, concierge: conciergeService}
}

//// RFPs

// GET /api/ping
func (c *Controller) Ping(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ok")
}

// POST /api/rfps/new
func (c *Controller) NewRFP(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if len(username) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty username supplied")
		return
	}

	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseNewRFPReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	rfp, err := c.service.CreateRFP(r.Context(), username, models.RFP{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		BudgetMin:   req.BudgetMin,
		BudgetMax:   req.BudgetMax,
		Deadline:    req.Deadline,
		Location:    req.Location,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, rfp)
}

// GET /api/rfps
func (c *Controller) GetRFPs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, err := c.getQueryInt(query, "limit")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'limit' query parameter: "+query.Get("limit"))
		return
	}

	offset, err := c.getQueryInt(query, "offset")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'offset' query parameter: "+query.Get("offset"))
		return
	}

	username := query.Get("username")
	if len(username) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty username supplied")
		return
	}

	status := models.RFPStatus(query.Get("status"))
	if len(status) > 0 && !models.ValidRFPStatus(status) {
		c.errorResponse(w, http.StatusBadRequest, "invalid status supplied: "+string(status))
		return
	}

	rfps, err := c.service.GetRFPs(r.Context(), username, limit, offset, query.Get("category"), status)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, rfps)
}

// GET /api/rfps/my
func (c *Controller) MyRFPs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, err := c.getQueryInt(query, "limit")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'limit' query parameter: "+query.Get("limit"))
		return
	}

	offset, err := c.getQueryInt(query, "offset")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'offset' query parameter: "+query.Get("offset"))
		return
	}

	username := query.Get("username")
	if len(username) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty username supplied")
		return
	}

	rfps, err := c.service.GetUserRFPs(r.Context(), username, limit, offset)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, rfps)
}

// GET /api/rfps/{rfpId}
func (c *Controller) GetRFP(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if len(username) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty username supplied")
		return
	}

	rfpId := r.PathValue("rfpId")
	if len(rfpId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty rfpId supplied")
		return
	}

	rfp, err := c.service.GetRFP(r.Context(), username, rfpId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, rfp)
}

// PATCH /api/rfps/{rfpId}/edit
func (c *Controller) EditRFP(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if len(username) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty username supplied")
		return
	}

	rfpId := r.PathValue("rfpId")
	if len(rfpId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty rfpId supplied")
		return
	}

	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	patch, err := ParseRFPPatchReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	rfp, err := c.service.EditRFP(r.Context(), username, rfpId, patch)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, rfp)
}

// POST /api/rfps/{rfpId}/publish
func (c *Controller) PublishRFP(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if len(username) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty username supplied")
		return
	}

	rfpId := r.PathValue("rfpId")
	if len(rfpId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty rfpId supplied")
		return
	}

	err := c.service.PublishRFP(r.Context(), username, rfpId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	rfp, err := c.service.GetRFP(r.Context(), username, rfpId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, rfp)
}

// POST /api/rfps/{rfpId}/close
func (c *Controller) CloseRFP(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if len(username) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty username supplied")
		return
	}

	rfpId := r.PathValue("rfpId")
	if len(rfpId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty rfpId supplied")
		return
	}

	err := c.service.CloseRFP(r.Context(), username, rfpId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	rfp, err := c.service.GetRFP(r.Context(), username, rfpId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, rfp)
}

// GET /api/rfps/{rfpId}/matches
func (c *Controller) MatchSellers(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if len(username) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty username supplied")
		return
	}

	rfpId := r.PathValue("rfpId")
	if len(rfpId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty rfpId supplied")
		return
	}

	matches, err := c.service.MatchSellers(r.Context(), username, rfpId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, matches)
}

//// Offers

// POST /api/rfps/{rfpId}/offers/new
func (c *Controller) NewOffer(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if len(username) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty username supplied")
		return
	}

	rfpId := r.PathValue("rfpId")
	if len(rfpId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty rfpId supplied")
		return
	}

	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseNewOfferReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	offer, err := c.service.SubmitOffer(r.Context(), username, rfpId, models.Offer{
		Price:        req.Price,
		Description:  req.Description,
		DeliveryTime: req.DeliveryTime,
		IsPrivate:    req.IsPrivate,
	})
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, offer)
}

// GET /api/rfps/{rfpId}/offers
func (c *Controller) RFPOffers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, err := c.getQueryInt(query, "limit")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'limit' query parameter: "+query.Get("limit"))
		return
	}

	offset, err := c.getQueryInt(query, "offset")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'offset' query parameter: "+query.Get("offset"))
		return
	}

	username := query.Get("username")
	if len(username) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty username supplied")
		return
	}

	rfpId := r.PathValue("rfpId")
	if len(rfpId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty rfpId supplied")
		return
	}

	offers, err := c.service.GetRFPOffers(r.Context(), username, rfpId, limit, offset)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, offers)
}

// GET /api/offers/my
func (c *Controller) MyOffers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, err := c.getQueryInt(query, "limit")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'limit' query parameter: "+query.Get("limit"))
		return
	}

	offset, err := c.getQueryInt(query, "offset")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'offset' query parameter: "+query.Get("offset"))
		return
	}

	username := query.Get("username")
	if len(username) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty username supplied")
		return
	}

	offers, err := c.service.GetUserOffers(r.Context(), username, limit, offset)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, offers)
}

// GET /api/offers/{offerId}
func (c *Controller) GetOffer(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if len(username) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty username supplied")
		return
	}

	offerId := r.PathValue("offerId")
	if len(offerId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty offerId supplied")
		return
	}

	offer, err := c.service.GetOffer(r.Context(), username, offerId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, offer)
}

// PATCH /api/offers/{offerId}/edit
func (c *Controller) EditOffer(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if len(username) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty username supplied")
		return
	}

	offerId := r.PathValue("offerId")
	if len(offerId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty offerId supplied")
		return
	}

	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	patch, err := ParseOfferPatchReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	offer, err := c.service.EditOffer(r.Context(), username, offerId, patch)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, offer)
}

// DELETE /api/offers/{offerId}
func (c *Controller) DeleteOffer(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if len(username) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty username supplied")
		return
	}

	offerId := r.PathValue("offerId")
	if len(offerId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty offerId supplied")
		return
	}

	err := c.service.DeleteOffer(r.Context(), username, offerId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// POST /api/offers/{offerId}/accept
func (c *Controller) AcceptOffer(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if len(username) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty username supplied")
		return
	}

	offerId := r.PathValue("offerId")
	if len(offerId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty offerId supplied")
		return
	}

	err := c.service.AcceptOffer(r.Context(), username, offerId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	offer, err := c.service.GetOffer(r.Context(), username, offerId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, offer)
}

// GET /api/offers/{offerId}/suggestions
func (c *Controller) NegotiationSuggestions(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if len(username) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty username supplied")
		return
	}

	offerId := r.PathValue("offerId")
	if len(offerId) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty offerId supplied")
		return
	}

	suggestion, err := c.service.SuggestNegotiation(r.Context(), username, offerId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, suggestion)
}

//// Concierge

// POST /api/concierge/chat
func (c *Controller) ConciergeChat(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if len(username) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty username supplied")
		return
	}

	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseChatReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := c.service.GetUser(r.Context(), username)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	cctx := req.Context
	cctx.UserRole = user.Role

	reply := c.concierge.ProcessMessage(r.Context(), user.Id, req.Message, cctx)
	c.marshalResponse(w, reply)
}

// GET /api/concierge/templates/{category}
func (c *Controller) ConciergeTemplate(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	if len(category) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty category supplied")
		return
	}

	c.marshalResponse(w, concierge.TemplateFor(category))
}

// POST /api/concierge/analyze-offer
func (c *Controller) ConciergeAnalyzeOffer(w http.ResponseWriter, r *http.Request) {
	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	facts, err := ParseAnalyzeOfferReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	c.marshalResponse(w, concierge.AnalyzeOffer(facts))
}

// GET /api/concierge/suggestions
func (c *Controller) ConciergeSuggestions(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if len(username) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty username supplied")
		return
	}

	user, err := c.service.GetUser(r.Context(), username)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, concierge.QuickSuggestions(user.Role))
}

// DELETE /api/concierge/history
func (c *Controller) ConciergeClearHistory(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if len(username) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty username supplied")
		return
	}

	user, err := c.service.GetUser(r.Context(), username)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.concierge.ClearHistory(user.Id)
	w.WriteHeader(http.StatusNoContent)
}

//// Utils

func (c *Controller) getQueryInt(query url.Values, key string) (int, error) {
	strs, ok := query[key]
	if ok && len(strs) > 0 {
		return strconv.Atoi(strs[0])
	}
	return 0, nil
}

func (c *Controller) errorResponse(w http.ResponseWriter, status int, text string) {
	w.WriteHeader(status)

	data, err := json.Marshal(ErrorResponse{Reason: text})
	if err != nil {
		log.Printf("controller.Controller.errorResponse: %s", err)
		return
	}

	_, err = w.Write(data)
	if err != nil {
		log.Printf("controller.Controller.errorResponse: %s", err)
		return
	}
}

func (c *Controller) serviceErrorResponse(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidUser):
		c.errorResponse(w, http.StatusUnauthorized, "user does not exist or have no rights for requested action")
	case errors.Is(err, models.ErrForbidden):
		c.errorResponse(w, http.StatusForbidden, "user have no permission for requested action")
	case errors.Is(err, models.ErrNoRFP):
		c.errorResponse(w, http.StatusNotFound, "requested RFP does not exist or unacessible")
	case errors.Is(err, models.ErrNoOffer):
		c.errorResponse(w, http.StatusNotFound, "requested offer does not exist or unacessible")
	case errors.Is(err, models.ErrInvalidState):
		c.errorResponse(w, http.StatusBadRequest, "requested action is not allowed in the current lifecycle state")
	case errors.Is(err, models.ErrDuplicateOffer):
		c.errorResponse(w, http.StatusConflict, "an offer for this RFP already exists")
	case errors.Is(err, models.ErrValidation):
		c.errorResponse(w, http.StatusBadRequest, err.Error())
	default:
		log.Println("controller:", err)
		c.errorResponse(w, http.StatusInternalServerError, "internal server error: "+err.Error())
	}
}

func (c *Controller) marshalResponse(w http.ResponseWriter, data any) {
	d, err := json.Marshal(data)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not marhsal response data")
		return
	}

	_, err = w.Write(d)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not write response data")
		return
	}
}

func (c *Controller) readBody(src io.ReadCloser) ([]byte, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	src.Close()
	return data, nil
}
