package models

import "time"

type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a customer sale fulfilled from finished stock. The finished-stock
// deduction happens atomically before the order row is written; an order row
// therefore always has its stock already deducted.
type Order struct {
	ID          int         `json:"id"`
	BuyerID     *int        `json:"buyer_id,omitempty"`
	BuyerName   string      `json:"buyer_name,omitempty"`
	Status      OrderStatus `json:"status"`
	TotalAmount float64     `json:"total_amount"`
	Notes       string      `json:"notes"`
	OrderDate   string      `json:"order_date"`
	Items       []OrderItem `json:"items"`
	CreatedAt   time.Time   `json:"created_at"`
}

type OrderItem struct {
	ID           int     `json:"id"`
	OrderID      int     `json:"order_id"`
	SubProductID int     `json:"sub_product_id"`
	QuantityKg   float64 `json:"quantity_kg"`
	Rate         float64 `json:"rate"`
	Amount       float64 `json:"amount"`
}

type CreateOrderRequest struct {
	BuyerID   *int                   `json:"buyer_id"`
	OrderDate string                 `json:"order_date"`
	Notes     string                 `json:"notes"`
	Items     []CreateOrderItemInput `json:"items"`
}

type CreateOrderItemInput struct {
	SubProductID int           `json:"sub_product_id"`
	Quantity     QuantityInput `json:"quantity"`
	Rate         float64       `json:"rate"`
}
