package domain

// OrderItem is one line item of a completed order.
type OrderItem struct {
	MenuID      int     `json:"menuId"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// Order is the slice of a completed order the engine cares about: its
// line items. A nil order or an order without items records nothing.
type Order struct {
	Items []OrderItem `json:"items"`
}
