package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("supabase: invalid access token")

// User is the authenticated identity: a stable identifier plus email.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the result of a successful sign-up or sign-in.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         User   `json:"user"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a new user with email and password.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	err := c.doAuth(ctx, http.MethodPost, c.authURL+"/signup", credentials{Email: email, Password: password}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// SignInWithPassword exchanges email and password for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	err := c.doAuth(ctx, http.MethodPost, c.authURL+"/token?grant_type=password", credentials{Email: email, Password: password}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// SignOut revokes the access token carried in ctx.
func (c *Client) SignOut(ctx context.Context) error {
	return c.doAuth(ctx, http.MethodPost, c.authURL+"/logout", nil, nil)
}

func (c *Client) doAuth(ctx context.Context, method, url string, body, dest any) error {
	return c.do(ctx, method, url, nil, body, dest)
}

// UserFromToken verifies an access token and extracts the identity claims.
// Requires JWTSecret to be configured.
func (c *Client) UserFromToken(tokenString string) (*User, error) {
	if c.cfg.JWTSecret == "" {
		return nil, fmt.Errorf("supabase: JWT secret not configured")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return []byte(c.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrInvalidToken)
	}
	email, _ := claims["email"].(string)
	return &User{ID: sub, Email: email}, nil
}

type ctxKey int

const (
	accessTokenKey ctxKey = iota
	userKey
)

// WithAccessToken returns a context carrying the user's access token; table
// calls made with it run under that user's row-level security.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey, token)
}

func AccessTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(accessTokenKey).(string)
	return token
}

// WithUser returns a context carrying the verified identity.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext yields the identity placed by the auth middleware, or nil.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userKey).(*User)
	return user
}
