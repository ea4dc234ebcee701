// Package newsletter triggers the welcome email through the remote
// serverless function. No retry: a failed send is reported once and dropped.
package newsletter

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyEmail = errors.New("email address is required")

const functionName = "subscribe-newsletter"

// FunctionInvoker is the slice of the remote service the subscription needs.
type FunctionInvoker interface {
	InvokeFunction(ctx context.Context, name string, payload, dest any) error
}

type Service struct {
	fn FunctionInvoker
}

func New(fn FunctionInvoker) *Service {
	return &Service{fn: fn}
}

type subscribeRequest struct {
	Email string `json:"email"`
}

func (s *Service) Subscribe(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmptyEmail
	}
	if err := s.fn.InvokeFunction(ctx, functionName, subscribeRequest{Email: email}, nil); err != nil {
		return fmt.Errorf("subscribe newsletter: %w", err)
	}
	return nil
}
