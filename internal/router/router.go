package router

import (
	"net/http"

	"rfpmarket/internal/controller"
)

func NewRouter(c *controller.Controller) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/ping", c.Ping)

	mux.HandleFunc("POST /api/rfps/new", c.NewRFP)
	mux.HandleFunc("GET /api/rfps", c.GetRFPs)
	mux.HandleFunc("GET /api/rfps/my", c.MyRFPs)
	mux.HandleFunc("GET /api/rfps/{rfpId}", c.GetRFP)
	mux.HandleFunc("PATCH /api/rfps/{rfpId}/edit", c.EditRFP)
	mux.HandleFunc("POST /api/rfps/{rfpId}/publish", c.PublishRFP)
	mux.HandleFunc("POST /api/rfps/{rfpId}/close", c.CloseRFP)
	mux.HandleFunc("GET /api/rfps/{rfpId}/offers", c.RFPOffers)
	mux.HandleFunc("POST /api/rfps/{rfpId}/offers/new", c.NewOffer)
	mux.HandleFunc("GET /api/rfps/{rfpId}/matches", c.MatchSellers)

	mux.HandleFunc("GET /api/offers/my", c.MyOffers)
	mux.HandleFunc("GET /api/offers/{offerId}", c.GetOffer)
	mux.HandleFunc("PATCH /api/offers/{offerId}/edit", c.EditOffer)
	mux.HandleFunc("DELETE /api/offers/{offerId}", c.DeleteOffer)
	mux.HandleFunc("POST /api/offers/{offerId}/accept", c.AcceptOffer)
	mux.HandleFunc("GET /api/offers/{offerId}/suggestions", c.NegotiationSuggestions)

	mux.HandleFunc("POST /api/concierge/chat", c.ConciergeChat)
	mux.HandleFunc("GET /api/concierge/templates/{category}", c.ConciergeTemplate)
	mux.HandleFunc("POST /api/concierge/analyze-offer", c.ConciergeAnalyzeOffer)
	mux.HandleFunc("GET /api/concierge/suggestions", c.ConciergeSuggestions)
	mux.HandleFunc("DELETE /api/concierge/history", c.ConciergeClearHistory)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("page not found"))
	})

	cors := http.NewServeMux()
	cors.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Accept", "*/*")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
		} else {
			mux.ServeHTTP(w, r)
		}
	})

	return cors
}
