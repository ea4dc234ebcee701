package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Mkaify/Nova-Threads/internal/newsletter"
)

type NewsletterHandler struct {
	newsletter *newsletter.Service
}

func NewNewsletterHandler(svc *newsletter.Service) *NewsletterHandler {
	return &NewsletterHandler{newsletter: svc}
}

type SubscribeRequestDTO struct {
	Email string `json:"email"`
}

func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.newsletter.Subscribe(r.Context(), req.Email); err != nil {
		if errors.Is(err, newsletter.ErrEmptyEmail) {
			respondError(w, http.StatusBadRequest, "missing_email", err.Error())
			return
		}
		handleRemoteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "subscribed"})
}
