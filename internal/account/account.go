// Package account reads and updates the signed-in user's profile row.
package account

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/Mkaify/Nova-Threads/internal/domain"
)

var ErrProfileNotFound = errors.New("profile not found")

type DataClient interface {
	Select(ctx context.Context, table, query string, dest any) error
	Update(ctx context.Context, table, query string, body, dest any) error
}

type Service struct {
	client DataClient
}

func New(client DataClient) *Service {
	return &Service{client: client}
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	var profiles []domain.Profile
	query := "select=*&id=eq." + url.QueryEscape(userID)
	if err := s.client.Select(ctx, "profiles", query, &profiles); err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	if len(profiles) == 0 {
		return nil, ErrProfileNotFound
	}
	return &profiles[0], nil
}

func (s *Service) UpdateFullName(ctx context.Context, userID, fullName string) error {
	body := map[string]string{"full_name": fullName}
	query := "id=eq." + url.QueryEscape(userID)
	if err := s.client.Update(ctx, "profiles", query, body, nil); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}
