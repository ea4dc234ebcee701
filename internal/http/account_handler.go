package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Mkaify/Nova-Threads/internal/account"
	"github.com/Mkaify/Nova-Threads/internal/supabase"
)

type AccountHandler struct {
	accounts *account.Service
}

func NewAccountHandler(svc *account.Service) *AccountHandler {
	return &AccountHandler{accounts: svc}
}

type UpdateProfileRequestDTO struct {
	FullName string `json:"full_name"`
}

func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := supabase.UserFromContext(r.Context())
	if user == nil {
		w.Header().Set("Location", "/auth")
		respondError(w, http.StatusUnauthorized, "unauthenticated", "missing user authentication")
		return
	}

	profile, err := h.accounts.GetProfile(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, account.ErrProfileNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "profile not found")
			return
		}
		handleRemoteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := supabase.UserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "missing user authentication")
		return
	}

	var req UpdateProfileRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.accounts.UpdateFullName(r.Context(), user.ID, req.FullName); err != nil {
		handleRemoteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
