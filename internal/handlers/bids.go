package handlers

import (
	"net/http"

	"eventmarket/models"
)

func (h *Handler) CreateBidHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var in models.CreateBidInput
	if err := decodeBody(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	id, err := h.Market.CreateBid(r.Context(), caller, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (h *Handler) MyBidsHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	bids, err := h.Market.MyBids(r.Context(), caller)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bids)
}

// AcceptBidHandler settles a bid against its listing.
func (h *Handler) AcceptBidHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := uuidParam(r, "bidId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.Market.AcceptBid(r.Context(), caller, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
