package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(h.Identify)

		r.Get("/ping", h.PingHandler)
		r.Get("/categories", h.CategoriesHandler)

		r.Route("/listings", func(r chi.Router) {
			r.Get("/", h.BrowseListingsHandler)
			r.Post("/", h.CreateListingHandler)
			r.Get("/mine", h.MyListingsHandler)
			r.Get("/{listingId}", h.GetListingHandler)
			r.Patch("/{listingId}/visibility", h.SetVisibilityHandler)
			r.Get("/{listingId}/bids", h.ListingBidsHandler)
		})

		r.Route("/bids", func(r chi.Router) {
			r.Post("/", h.CreateBidHandler)
			r.Get("/mine", h.MyBidsHandler)
			r.Post("/{bidId}/accept", h.AcceptBidHandler)
		})

		r.Get("/vendor/profile", h.GetProfileHandler)
		r.Put("/vendor/profile", h.UpsertProfileHandler)

		r.Route("/vendors", func(r chi.Router) {
			r.Get("/map", h.VendorMapHandler)
			r.Put("/{vendorId}/rating", h.RateVendorHandler)
			r.Put("/{vendorId}/review", h.ReviewVendorHandler)
			r.Get("/{vendorId}/reviews", h.VendorReviewsHandler)
			r.Post("/{vendorId}/questions", h.AskVendorHandler)
			r.Get("/{vendorId}/questions", h.VendorQuestionsHandler)
		})

		r.Put("/questions/{questionId}/answer", h.AnswerQuestionHandler)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/listings", h.AdminListingsHandler)
			r.Get("/vendors", h.AdminVendorsHandler)
		})
	})
	return r
}
