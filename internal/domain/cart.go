package domain

// CartItem is one line in the cart: a product reference plus the quantity
// and the variant the shopper picked.
type CartItem struct {
	ProductID     string  `json:"product_id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Image         string  `json:"image"`
	Quantity      int     `json:"quantity"`
	SelectedSize  string  `json:"selected_size,omitempty"`
	SelectedColor string  `json:"selected_color,omitempty"`
}

// Cart holds the line items in insertion order. Order does not matter for
// totals but is kept stable for display.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Total is the sum of price*quantity over all lines, computed fresh.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// Count is the sum of quantities over all lines, computed fresh.
func (c *Cart) Count() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}
