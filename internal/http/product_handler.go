package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Mkaify/Nova-Threads/internal/catalog"
	"github.com/Mkaify/Nova-Threads/internal/supabase"
)

const maxImageSize = 5 << 20 // 5MB

type ProductHandler struct {
	catalog *catalog.Catalog
	files   catalog.FileStore
}

func NewProductHandler(cat *catalog.Catalog, files catalog.FileStore) *ProductHandler {
	return &ProductHandler{catalog: cat, files: files}
}

// ListProducts serves the shop view: ?category= and ?q= narrow the list
// client-side, "all" or absent means everything.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	query := r.URL.Query().Get("q")

	products, err := h.catalog.Filter(r.Context(), category, query)
	if err != nil {
		handleRemoteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	product, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		handleRemoteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) NewArrivals(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.NewArrivals(r.Context())
	if err != nil {
		handleRemoteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Bestsellers(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Bestsellers(r.Context())
	if err != nil {
		handleRemoteError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Collections(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		handleRemoteError(w, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	respondJSON(w, http.StatusOK, map[string][]string{"collections": categories})
}

// CreateProduct is the admin entry form: multipart body with the product
// fields plus an image file. Validation failures are reported inline before
// any remote call.
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	if supabase.UserFromContext(r.Context()) == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid multipart form")
		return
	}

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_price", "price must be a number")
		return
	}

	input := catalog.ProductInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Price:       price,
		Category:    r.FormValue("category"),
		Tags:        r.FormValue("tags"),
		Colors:      r.FormValue("colors"),
		Sizes:       r.FormValue("sizes"),
	}

	var image *catalog.ProductImage
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxImageSize))
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_image", "failed to read image")
			return
		}
		image = &catalog.ProductImage{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		}
	}

	product, err := h.catalog.Create(r.Context(), h.files, input, image)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrMissingImage),
			errors.Is(err, catalog.ErrMissingName),
			errors.Is(err, catalog.ErrBadPrice):
			respondError(w, http.StatusBadRequest, "validation_failed", err.Error())
		default:
			handleRemoteError(w, err)
		}
		return
	}
	respondJSON(w, http.StatusCreated, product)
}
