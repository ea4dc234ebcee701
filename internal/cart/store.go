// Package cart implements the client-held shopping cart: an ordered set of
// line items with add/remove/update/clear operations, fresh derived totals,
// and best-effort persistence to durable storage after every mutation.
package cart

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/Mkaify/Nova-Threads/internal/domain"
	"github.com/Mkaify/Nova-Threads/internal/notify"
)

const persistTimeout = time.Second

// Store is the sole authority over one session's in-progress order contents.
// It is constructed explicitly and passed to every consumer; there is no
// package-level cart.
//
// Persistence is fire-and-forget by contract: a failed write is logged and
// the next load starts from an older snapshot (degrade-to-stale). Mutations
// therefore never fail.
type Store struct {
	mu       sync.Mutex
	loadOnce sync.Once
	key      string
	items    []domain.CartItem
	storage  Storage
	notifier notify.Notifier
}

func NewStore(key string, storage Storage, notifier notify.Notifier) *Store {
	return &Store{key: key, storage: storage, notifier: notifier}
}

// Load rehydrates the cart from storage. Only the first call reads; repeated
// and concurrent calls wait for that read to finish, so a caller holding the
// store never observes a half-rehydrated cart. A missing entry or corrupt
// payload leaves the cart empty; neither is fatal.
func (s *Store) Load(ctx context.Context) {
	s.loadOnce.Do(func() {
		saved, err := s.storage.Load(ctx, s.key)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				log.Printf("cart %s: load failed, starting empty: %v", s.key, err)
			}
			return
		}

		s.mu.Lock()
		s.items = saved.Items
		s.mu.Unlock()
	})
}

// AddItem merges on product identifier alone: an existing line gets its
// quantity incremented and keeps its original size/color selection; otherwise
// a new line with quantity 1 is appended.
func (s *Store) AddItem(product domain.Product, size, color string) {
	s.mu.Lock()
	merged := false
	for i := range s.items {
		if s.items[i].ProductID == product.ID {
			s.items[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, domain.CartItem{
			ProductID:     product.ID,
			Name:          product.Name,
			Price:         product.Price,
			Image:         product.Image,
			Quantity:      1,
			SelectedSize:  size,
			SelectedColor: color,
		})
	}
	s.mu.Unlock()

	if merged {
		s.notifier.Success("Updated quantity in cart")
	} else {
		s.notifier.Success("Added to cart")
	}
	s.persist()
}

// RemoveItem deletes the line for productID. Removing an absent product is a
// no-op, not an error.
func (s *Store) RemoveItem(productID string) {
	s.mu.Lock()
	for i, item := range s.items {
		if item.ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.notifier.Info("Removed from cart")
	s.persist()
}

// UpdateQuantity replaces the quantity in place. A quantity below 1 is
// policy-equivalent to removal and delegates to RemoveItem.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	if quantity < 1 {
		s.RemoveItem(productID)
		return
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = quantity
			break
		}
	}
	s.mu.Unlock()

	s.persist()
}

// Clear empties the cart unconditionally. Used after a successful checkout.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	s.persist()
}

// Items returns a copy of the current line items in insertion order.
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Total is recomputed from current state on every call, never cached.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := domain.Cart{Items: s.items}
	return cart.Total()
}

// Count is recomputed from current state on every call, never cached.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := domain.Cart{Items: s.items}
	return cart.Count()
}

// persist re-serializes the whole cart to storage. Fire-and-forget: no retry,
// no acknowledgment, failures only logged.
func (s *Store) persist() {
	snapshot := &domain.Cart{Items: s.Items()}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.storage.Save(ctx, s.key, snapshot); err != nil {
		log.Printf("cart %s: persist failed, next load may be stale: %v", s.key, err)
	}
}
