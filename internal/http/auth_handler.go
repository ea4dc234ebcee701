package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Mkaify/Nova-Threads/internal/supabase"
)

// AuthClient is the slice of the remote auth API the handler needs.
type AuthClient interface {
	SignUp(ctx context.Context, email, password string) (*supabase.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*supabase.Session, error)
	SignOut(ctx context.Context) error
}

type AuthHandler struct {
	auth AuthClient
}

func NewAuthHandler(auth AuthClient) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type CredentialsDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	creds, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	session, err := h.auth.SignUp(r.Context(), creds.Email, creds.Password)
	if err != nil {
		handleRemoteError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, session)
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	creds, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	session, err := h.auth.SignInWithPassword(r.Context(), creds.Email, creds.Password)
	if err != nil {
		handleRemoteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if supabase.AccessTokenFromContext(r.Context()) == "" {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "missing user authentication")
		return
	}
	if err := h.auth.SignOut(r.Context()); err != nil {
		handleRemoteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (CredentialsDTO, bool) {
	var creds CredentialsDTO
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return creds, false
	}
	if creds.Email == "" || creds.Password == "" {
		respondError(w, http.StatusBadRequest, "missing_credentials", "email and password are required")
		return creds, false
	}
	return creds, true
}
