package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"eventmarket/models"
)

type createListingRequest struct {
	models.CreateListingInput
	EventDate string `json:"eventDate"`
}

func parseEventDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: eventDate must be YYYY-MM-DD", models.ErrValidation)
	}
	return t, nil
}

func (h *Handler) CreateListingHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req createListingRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	in := req.CreateListingInput
	if in.EventDate, err = parseEventDate(req.EventDate); err != nil {
		h.writeError(w, r, err)
		return
	}

	id, err := h.Market.CreateListing(r.Context(), caller, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (h *Handler) BrowseListingsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := parsePaginationParams(r)
	f := models.ListingFilter{
		Text:     q.Get("q"),
		Location: q.Get("location"),
		Limit:    page.Limit,
		Offset:   page.Offset,
	}
	if v := q.Get("categoryId"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			h.writeError(w, r, fmt.Errorf("%w: invalid categoryId", models.ErrValidation))
			return
		}
		f.CategoryID = id
	}

	listings, err := h.Market.BrowseListings(r.Context(), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (h *Handler) MyListingsHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	listings, err := h.Market.MyListings(r.Context(), caller)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (h *Handler) GetListingHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "listingId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	listing, err := h.Market.GetListing(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *Handler) SetVisibilityHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := uuidParam(r, "listingId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var in models.VisibilityInput
	if err := decodeBody(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Market.SetVisibility(r.Context(), caller, id, in.Visibility); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListingBidsHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := uuidParam(r, "listingId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	bids, err := h.Market.ListingBids(r.Context(), caller, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bids)
}
