// Package catalog exposes the remote product table as a read-only collection
// for the list, detail and filter views, plus the admin product-entry flow.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Mkaify/Nova-Threads/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// DataClient is the slice of the remote service the catalog needs.
type DataClient interface {
	Select(ctx context.Context, table, query string, dest any) error
	Insert(ctx context.Context, table string, body, dest any) error
}

type Catalog struct {
	client DataClient
	sfg    singleflight.Group // Prevents stampede on concurrent list fetches

	mu        sync.RWMutex
	cached    []domain.Product
	fetchedAt time.Time
	ttl       time.Duration
}

func New(client DataClient) *Catalog {
	return &Catalog{
		client: client,
		ttl:    time.Minute,
	}
}

// List returns all products. Concurrent cold fetches are collapsed through
// singleflight; results are cached briefly and shared by every view.
func (c *Catalog) List(ctx context.Context) ([]domain.Product, error) {
	c.mu.RLock()
	if c.cached != nil && time.Since(c.fetchedAt) < c.ttl {
		products := c.cached
		c.mu.RUnlock()
		return products, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.sfg.Do("products", func() (interface{}, error) {
		var products []domain.Product
		if err := c.client.Select(ctx, "Products", "select=*", &products); err != nil {
			return nil, fmt.Errorf("fetch products: %w", err)
		}

		c.mu.Lock()
		c.cached = products
		c.fetchedAt = time.Now()
		c.mu.Unlock()

		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

// Get returns one product by identifier.
func (c *Catalog) Get(ctx context.Context, id string) (*domain.Product, error) {
	products, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			product := products[i]
			return &product, nil
		}
	}
	return nil, ErrProductNotFound
}

// Filter narrows the list by category and a free-text query. Category "all"
// or "" matches everything; the query is a case-insensitive substring match
// on product name and tags.
func (c *Catalog) Filter(ctx context.Context, category, query string) ([]domain.Product, error) {
	products, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	var out []domain.Product
	for _, p := range products {
		if category != "" && category != "all" && p.Category != category {
			continue
		}
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func matchesQuery(p domain.Product, query string) bool {
	if strings.Contains(strings.ToLower(p.Name), query) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// NewArrivals returns the catalog newest-first.
func (c *Catalog) NewArrivals(ctx context.Context) ([]domain.Product, error) {
	products, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, len(products))
	copy(out, products)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Bestsellers returns products carrying the bestseller tag.
func (c *Catalog) Bestsellers(ctx context.Context) ([]domain.Product, error) {
	products, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.Product
	for _, p := range products {
		for _, tag := range p.Tags {
			if strings.EqualFold(tag, "bestseller") {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

// Categories returns the distinct category labels, sorted, for the
// collections view.
func (c *Catalog) Categories(ctx context.Context) ([]string, error) {
	products, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var out []string
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; !ok {
			seen[p.Category] = struct{}{}
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Invalidate drops the cached list so the next read refetches. Called after
// an admin insert.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	c.cached = nil
	c.mu.Unlock()
	log.Printf("catalog: cache invalidated")
}
