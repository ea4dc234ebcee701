package http

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Mkaify/Nova-Threads/internal/supabase"
)

const sessionCookie = "nova_sid"

type ctxKey int

const sessionIDKey ctxKey = iota

// SessionMiddleware assigns a session id cookie so an anonymous shopper's
// cart survives reloads. secure marks the cookie HTTPS-only; turn it off only
// for plain-HTTP local development.
func SessionMiddleware(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := ""
			if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
				sid = c.Value
			}
			if sid == "" {
				sid = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookie,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
					Expires:  time.Now().Add(90 * 24 * time.Hour),
				})
			}
			ctx := context.WithValue(r.Context(), sessionIDKey, sid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionIDFromContext(ctx context.Context) string {
	sid, _ := ctx.Value(sessionIDKey).(string)
	return sid
}

// TokenVerifier verifies an access token into an identity.
type TokenVerifier interface {
	UserFromToken(token string) (*supabase.User, error)
}

// AuthMiddleware resolves an optional bearer token into the request identity.
// An invalid token is treated as anonymous, not as an error; handlers that
// require identity reject on their own.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
				user, err := verifier.UserFromToken(token)
				if err != nil {
					log.Printf("auth: rejecting token: %v", err)
				} else {
					ctx := supabase.WithUser(r.Context(), user)
					ctx = supabase.WithAccessToken(ctx, token)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// cartKey is the user id when signed in, the session id otherwise, so the
// cart follows the shopper across sign-in.
func cartKey(ctx context.Context) string {
	if user := supabase.UserFromContext(ctx); user != nil {
		return user.ID
	}
	return sessionIDFromContext(ctx)
}
