package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Mkaify/Nova-Threads/internal/reviews"
	"github.com/Mkaify/Nova-Threads/internal/supabase"
)

type ReviewHandler struct {
	reviews *reviews.Service
}

func NewReviewHandler(svc *reviews.Service) *ReviewHandler {
	return &ReviewHandler{reviews: svc}
}

type SubmitReviewRequestDTO struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type ReviewListResponseDTO struct {
	Reviews       any     `json:"reviews"`
	AverageRating float64 `json:"average_rating"`
}

func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	fetched, err := h.reviews.FetchForProduct(r.Context(), productID)
	if err != nil {
		handleRemoteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ReviewListResponseDTO{
		Reviews:       fetched,
		AverageRating: h.reviews.Average(productID),
	})
}

func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	user := supabase.UserFromContext(r.Context())

	var req SubmitReviewRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	review, err := h.reviews.Submit(r.Context(), user, productID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrNotSignedIn):
			respondError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
		case errors.Is(err, reviews.ErrInvalidRating):
			respondError(w, http.StatusBadRequest, "invalid_rating", err.Error())
		case errors.Is(err, reviews.ErrAlreadyReviewed):
			respondError(w, http.StatusConflict, "already_reviewed", err.Error())
		default:
			handleRemoteError(w, err)
		}
		return
	}
	respondJSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	reviewID := chi.URLParam(r, "review_id")

	if supabase.UserFromContext(r.Context()) == nil {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "missing user authentication")
		return
	}

	if err := h.reviews.Delete(r.Context(), productID, reviewID); err != nil {
		handleRemoteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Reconcile re-fetches a product's reviews, replacing any optimistic local
// state with the server's view.
func (h *ReviewHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	if err := h.reviews.Reconcile(r.Context(), productID); err != nil {
		handleRemoteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ReviewListResponseDTO{
		Reviews:       h.reviews.Reviews(productID),
		AverageRating: h.reviews.Average(productID),
	})
}
