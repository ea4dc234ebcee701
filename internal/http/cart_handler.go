package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Mkaify/Nova-Threads/internal/cart"
	"github.com/Mkaify/Nova-Threads/internal/catalog"
	"github.com/Mkaify/Nova-Threads/internal/domain"
)

type CartHandler struct {
	carts   *cart.Manager
	catalog *catalog.Catalog
}

func NewCartHandler(carts *cart.Manager, cat *catalog.Catalog) *CartHandler {
	return &CartHandler{carts: carts, catalog: cat}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	Items     []domain.CartItem `json:"items"`
	CartTotal float64           `json:"cart_total"`
	CartCount int               `json:"cart_count"`
}

func cartResponse(store *cart.Store) CartResponseDTO {
	items := store.Items()
	if items == nil {
		items = []domain.CartItem{}
	}
	return CartResponseDTO{
		Items:     items,
		CartTotal: store.Total(),
		CartCount: store.Count(),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	store := h.carts.ForSession(r.Context(), cartKey(r.Context()))
	respondJSON(w, http.StatusOK, cartResponse(store))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	product, err := h.catalog.Get(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		handleRemoteError(w, err)
		return
	}

	store := h.carts.ForSession(r.Context(), cartKey(r.Context()))
	store.AddItem(*product, req.Size, req.Color)
	respondJSON(w, http.StatusCreated, cartResponse(store))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// Quantity below 1 removes the line; the store owns that policy.
	store := h.carts.ForSession(r.Context(), cartKey(r.Context()))
	store.UpdateQuantity(productID, req.Quantity)
	respondJSON(w, http.StatusOK, cartResponse(store))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	store := h.carts.ForSession(r.Context(), cartKey(r.Context()))
	store.RemoveItem(productID)
	respondJSON(w, http.StatusOK, cartResponse(store))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	store := h.carts.ForSession(r.Context(), cartKey(r.Context()))
	store.Clear()
	respondJSON(w, http.StatusOK, cartResponse(store))
}
