package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Mkaify/Nova-Threads/internal/domain"
)

const imageBucket = "product-images"

var (
	ErrMissingImage = errors.New("please select a product image")
	ErrMissingName  = errors.New("product name is required")
	ErrBadPrice     = errors.New("price must be non-negative")
)

// FileStore is the slice of the remote storage API the admin flow needs.
type FileStore interface {
	Upload(ctx context.Context, bucket, path, contentType string, data []byte) error
	PublicURL(bucket, path string) string
}

// ProductInput is the admin entry form. Tags, colors and sizes arrive as
// comma-separated text.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Tags        string
	Colors      string
	Sizes       string
}

// ProductImage is the uploaded image file.
type ProductImage struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Create validates the form, uploads the image to the product bucket under a
// random name, resolves its public URL and inserts the product row. The
// catalog cache is invalidated on success.
func (c *Catalog) Create(ctx context.Context, files FileStore, input ProductInput, image *ProductImage) (*domain.Product, error) {
	if image == nil || len(image.Data) == 0 {
		return nil, ErrMissingImage
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrMissingName
	}
	if input.Price < 0 {
		return nil, ErrBadPrice
	}

	path := uuid.NewString() + fileExt(image.Filename)
	if err := files.Upload(ctx, imageBucket, path, image.ContentType, image.Data); err != nil {
		return nil, fmt.Errorf("upload product image: %w", err)
	}
	publicURL := files.PublicURL(imageBucket, path)

	row := map[string]any{
		"name":        input.Name,
		"description": input.Description,
		"price":       input.Price,
		"image":       publicURL,
		"category":    input.Category,
		"tags":        splitList(input.Tags),
		"colors":      splitList(input.Colors),
		"sizes":       splitList(input.Sizes),
	}

	var created []domain.Product
	if err := c.client.Insert(ctx, "Products", row, &created); err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("insert product: empty response")
	}

	c.Invalidate()
	return &created[0], nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func fileExt(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}
