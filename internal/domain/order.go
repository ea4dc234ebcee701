package domain

import "time"

type OrderStatus string

const (
	// OrderStatusPaid is the only status the storefront writes today; the
	// checkout form collects card fields but performs no real capture.
	OrderStatusPaid OrderStatus = "paid"
)

type ShippingDetails struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	City      string `json:"city"`
	ZipCode   string `json:"zipCode"`
}

type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	TotalAmount     float64         `json:"total_amount"`
	Status          OrderStatus     `json:"status"`
	ShippingDetails ShippingDetails `json:"shipping_details"`
	CreatedAt       time.Time       `json:"created_at"`
}

// OrderItem captures one cart line at purchase time. PriceAtPurchase is a
// snapshot, not a live reference to the product price.
type OrderItem struct {
	OrderID         string  `json:"order_id"`
	ProductID       string  `json:"product_id"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase float64 `json:"price_at_purchase"`
	SelectedSize    string  `json:"selected_size,omitempty"`
	SelectedColor   string  `json:"selected_color,omitempty"`
}
