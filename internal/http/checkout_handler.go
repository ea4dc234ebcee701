package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Mkaify/Nova-Threads/internal/cart"
	"github.com/Mkaify/Nova-Threads/internal/checkout"
	"github.com/Mkaify/Nova-Threads/internal/domain"
	"github.com/Mkaify/Nova-Threads/internal/supabase"
)

type CheckoutHandler struct {
	flow  *checkout.Flow
	carts *cart.Manager
}

func NewCheckoutHandler(flow *checkout.Flow, carts *cart.Manager) *CheckoutHandler {
	return &CheckoutHandler{flow: flow, carts: carts}
}

type CheckoutRequestDTO struct {
	Shipping domain.ShippingDetails `json:"shipping"`
	// Card fields are collected but never charged; there is no payment
	// capture in this flow.
	CardNumber string `json:"cardNumber,omitempty"`
	Expiry     string `json:"expiry,omitempty"`
	CVC        string `json:"cvc,omitempty"`
}

// Submit places the order. An unauthenticated caller is redirected to auth,
// an empty cart back to the shop, mirroring the page-level preconditions.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user := supabase.UserFromContext(r.Context())
	if user == nil {
		w.Header().Set("Location", "/auth")
		respondError(w, http.StatusUnauthorized, "unauthenticated", checkout.ErrNotAuthenticated.Error())
		return
	}

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	store := h.carts.ForSession(r.Context(), cartKey(r.Context()))
	order, err := h.flow.Submit(r.Context(), user, store, req.Shipping)
	if err != nil {
		var incomplete *checkout.OrderIncompleteError
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			w.Header().Set("Location", "/shop")
			respondError(w, http.StatusConflict, "empty_cart", err.Error())
		case errors.As(err, &incomplete):
			// The header exists without items; report it so the order can
			// be reconciled rather than silently lost.
			respondJSON(w, http.StatusBadGateway, ErrorResponse{
				Error:   "order created but items failed, contact support",
				Code:    "order_incomplete",
				Details: incomplete.OrderID,
			})
		default:
			handleRemoteError(w, err)
		}
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

// ListOrders serves the account page's order history.
func (h *CheckoutHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	user := supabase.UserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "missing user authentication")
		return
	}

	orders, err := h.flow.OrdersForUser(r.Context(), user.ID)
	if err != nil {
		handleRemoteError(w, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}
