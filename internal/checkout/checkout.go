// Package checkout turns the cart's contents into an order on the remote
// service: one Order header plus one OrderItem per line, then clears the cart.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Mkaify/Nova-Threads/internal/domain"
	"github.com/Mkaify/Nova-Threads/internal/notify"
	"github.com/Mkaify/Nova-Threads/internal/supabase"
)

var (
	ErrNotAuthenticated = errors.New("please login to complete your purchase")
	ErrEmptyCart        = errors.New("your cart is empty")
)

// OrderIncompleteError reports the two-step write failing between the header
// and the items: the order exists on the remote service but references no
// items. There is no transaction across tables, so the flow surfaces the
// orphaned order instead of pretending nothing was written.
type OrderIncompleteError struct {
	OrderID string
	Err     error
}

func (e *OrderIncompleteError) Error() string {
	return fmt.Sprintf("order %s created but items failed: %v", e.OrderID, e.Err)
}

func (e *OrderIncompleteError) Unwrap() error { return e.Err }

// DataClient is the slice of the remote service the flow needs.
type DataClient interface {
	Insert(ctx context.Context, table string, body, dest any) error
	Select(ctx context.Context, table, query string, dest any) error
}

// CartStore is what checkout needs from the cart: a snapshot of the lines,
// the current total, and the ability to clear it after success.
type CartStore interface {
	Items() []domain.CartItem
	Total() float64
	Clear()
}

type Flow struct {
	client   DataClient
	notifier notify.Notifier
}

func NewFlow(client DataClient, notifier notify.Notifier) *Flow {
	return &Flow{client: client, notifier: notifier}
}

type orderInsert struct {
	UserID          string                 `json:"user_id"`
	TotalAmount     float64                `json:"total_amount"`
	Status          domain.OrderStatus     `json:"status"`
	ShippingDetails domain.ShippingDetails `json:"shipping_details"`
}

// Submit runs the checkout protocol. Preconditions: an authenticated user and
// a non-empty cart; neither triggers any remote write when violated.
//
// Quantities and prices are copied from the cart at this instant; later
// catalog price changes do not affect the order.
func (f *Flow) Submit(ctx context.Context, user *supabase.User, cart CartStore, shipping domain.ShippingDetails) (*domain.Order, error) {
	if user == nil {
		return nil, ErrNotAuthenticated
	}
	items := cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	var created []domain.Order
	err := f.client.Insert(ctx, "Orders", orderInsert{
		UserID:          user.ID,
		TotalAmount:     cart.Total(),
		Status:          domain.OrderStatusPaid,
		ShippingDetails: shipping,
	}, &created)
	if err != nil {
		// Nothing committed remotely; the cart stays intact.
		f.notifier.Error("Failed to place order")
		return nil, fmt.Errorf("create order: %w", err)
	}
	if len(created) == 0 {
		f.notifier.Error("Failed to place order")
		return nil, fmt.Errorf("create order: empty response")
	}
	order := created[0]

	orderItems := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, domain.OrderItem{
			OrderID:         order.ID,
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.Price,
			SelectedSize:    item.SelectedSize,
			SelectedColor:   item.SelectedColor,
		})
	}

	if err := f.client.Insert(ctx, "OrderItems", orderItems, nil); err != nil {
		log.Printf("checkout: order %s header written but items failed: %v", order.ID, err)
		f.notifier.Error("Failed to place order")
		return nil, &OrderIncompleteError{OrderID: order.ID, Err: err}
	}

	cart.Clear()
	f.notifier.Success("Order placed successfully!")
	return &order, nil
}

// OrdersForUser lists a user's past orders, newest first, for the account
// page.
func (f *Flow) OrdersForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	var orders []domain.Order
	query := "select=*&user_id=eq." + userID + "&order=created_at.desc"
	if err := f.client.Select(ctx, "Orders", query, &orders); err != nil {
		return nil, fmt.Errorf("fetch orders: %w", err)
	}
	return orders, nil
}
