package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"eventmarket/models"
)

func (h *Handler) AdminListingsHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	f := models.AdminListingFilter{
		Visibility: models.Visibility(q.Get("visibility")),
		Text:       q.Get("q"),
	}
	listings, err := h.Market.AdminListings(r.Context(), caller, f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (h *Handler) AdminVendorsHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	f := models.AdminVendorFilter{Text: q.Get("q")}
	if v := q.Get("verified"); v != "" {
		verified, err := strconv.ParseBool(v)
		if err != nil {
			h.writeError(w, r, fmt.Errorf("%w: invalid verified", models.ErrValidation))
			return
		}
		f.Verified = &verified
	}

	vendors, err := h.Vendors.AdminVendors(r.Context(), caller, f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vendors)
}
