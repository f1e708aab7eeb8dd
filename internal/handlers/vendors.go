package handlers

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"eventmarket/internal/discovery"
	"eventmarket/models"
)

func optionalFloat(q url.Values, key string) (*float64, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: invalid %s", models.ErrValidation, key)
	}
	return &f, nil
}

func (h *Handler) VendorMapHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := discovery.Filters{
		Text:     q.Get("q"),
		Location: q.Get("location"),
		Purpose:  q.Get("purpose"),
		Category: q.Get("category"),
		Service:  q.Get("service"),
	}
	var err error
	if f.MinBudget, err = optionalFloat(q, "minBudget"); err != nil {
		h.writeError(w, r, err)
		return
	}
	if f.MaxBudget, err = optionalFloat(q, "maxBudget"); err != nil {
		h.writeError(w, r, err)
		return
	}

	vendors, err := h.Finder.FindVendors(r.Context(), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vendors)
}

func (h *Handler) CategoriesHandler(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Vendors.Categories(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (h *Handler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := h.Vendors.GetProfile(r.Context(), caller)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) UpsertProfileHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var in models.VendorProfileInput
	if err := decodeBody(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := h.Vendors.UpsertProfile(r.Context(), caller, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) RateVendorHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	vendorID, err := uuidParam(r, "vendorId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var in models.RatingInput
	if err := decodeBody(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Vendors.Rate(r.Context(), caller, vendorID, in); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ReviewVendorHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	vendorID, err := uuidParam(r, "vendorId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var in models.ReviewInput
	if err := decodeBody(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	review, err := h.Vendors.Review(r.Context(), caller, vendorID, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (h *Handler) VendorReviewsHandler(w http.ResponseWriter, r *http.Request) {
	vendorID, err := uuidParam(r, "vendorId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	reviews, err := h.Vendors.Reviews(r.Context(), vendorID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *Handler) AskVendorHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	vendorID, err := uuidParam(r, "vendorId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var in models.QuestionInput
	if err := decodeBody(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	question, err := h.Vendors.Ask(r.Context(), caller, vendorID, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, question)
}

func (h *Handler) VendorQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	vendorID, err := uuidParam(r, "vendorId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	questions, err := h.Vendors.Questions(r.Context(), vendorID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *Handler) AnswerQuestionHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	questionID, err := uuidParam(r, "questionId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var in models.AnswerInput
	if err := decodeBody(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	question, err := h.Vendors.Answer(r.Context(), caller, questionID, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}
