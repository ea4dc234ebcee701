// Package reviews fetches, submits and deletes per-product reviews against
// the remote service and keeps a local optimistic cache per product. The
// cache is updated in place after writes; Reconcile re-fetches on demand so
// staleness is explicit rather than implicit.
package reviews

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"sync"

	"github.com/Mkaify/Nova-Threads/internal/domain"
	"github.com/Mkaify/Nova-Threads/internal/supabase"
)

var (
	ErrNotSignedIn     = errors.New("please login to write a review")
	ErrAlreadyReviewed = errors.New("you have already reviewed this product")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

// DataClient is the slice of the remote service the review subsystem needs.
type DataClient interface {
	Select(ctx context.Context, table, query string, dest any) error
	Insert(ctx context.Context, table string, body, dest any) error
	Delete(ctx context.Context, table, query string) error
}

type Service struct {
	client DataClient

	mu        sync.RWMutex
	byProduct map[string][]domain.Review
}

func New(client DataClient) *Service {
	return &Service{
		client:    client,
		byProduct: make(map[string][]domain.Review),
	}
}

// FetchForProduct loads a product's reviews newest-first with the reviewer's
// profile email embedded, replacing the local cache for that product.
func (s *Service) FetchForProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	var fetched []domain.Review
	query := "select=*,profiles:user_id(email)&product_id=eq." + url.QueryEscape(productID) + "&order=created_at.desc"
	if err := s.client.Select(ctx, "Reviews", query, &fetched); err != nil {
		return nil, fmt.Errorf("fetch reviews: %w", err)
	}

	s.mu.Lock()
	s.byProduct[productID] = fetched
	s.mu.Unlock()

	return s.Reviews(productID), nil
}

// Reconcile discards the optimistic local state and re-fetches from the
// remote service.
func (s *Service) Reconcile(ctx context.Context, productID string) error {
	_, err := s.FetchForProduct(ctx, productID)
	return err
}

// Reviews returns the locally cached reviews for a product.
func (s *Service) Reviews(productID string) []domain.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cached := s.byProduct[productID]
	out := make([]domain.Review, len(cached))
	copy(out, cached)
	return out
}

// Average is the arithmetic mean of the cached ratings, rounded to one
// decimal place. Zero when there are no reviews.
func (s *Service) Average(productID string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cached := s.byProduct[productID]
	if len(cached) == 0 {
		return 0
	}
	var sum int
	for _, r := range cached {
		sum += r.Rating
	}
	mean := float64(sum) / float64(len(cached))
	return math.Round(mean*10) / 10
}

type reviewInsert struct {
	ProductID string `json:"product_id"`
	UserID    string `json:"user_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// Submit writes a review. Rejected locally without an identity; a remote
// uniqueness conflict comes back as ErrAlreadyReviewed with the local list
// untouched. On success the new review is prepended optimistically.
func (s *Service) Submit(ctx context.Context, user *supabase.User, productID string, rating int, comment string) (*domain.Review, error) {
	if user == nil {
		return nil, ErrNotSignedIn
	}
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	var created []domain.Review
	err := s.client.Insert(ctx, "Reviews", reviewInsert{
		ProductID: productID,
		UserID:    user.ID,
		Rating:    rating,
		Comment:   comment,
	}, &created)
	if err != nil {
		if supabase.IsUniqueViolation(err) {
			return nil, ErrAlreadyReviewed
		}
		return nil, fmt.Errorf("submit review: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("submit review: empty response")
	}

	review := created[0]
	if review.Profile == nil && user.Email != "" {
		review.Profile = &domain.ReviewerProfile{Email: user.Email}
	}

	s.mu.Lock()
	s.byProduct[productID] = append([]domain.Review{review}, s.byProduct[productID]...)
	s.mu.Unlock()

	return &review, nil
}

// Delete removes a review remotely, then from the local cache.
func (s *Service) Delete(ctx context.Context, productID, reviewID string) error {
	if err := s.client.Delete(ctx, "Reviews", "id=eq."+url.QueryEscape(reviewID)); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	s.mu.Lock()
	cached := s.byProduct[productID]
	for i, r := range cached {
		if r.ID == reviewID {
			s.byProduct[productID] = append(cached[:i], cached[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}
