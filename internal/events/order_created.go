package events

import "time"

const EventTypeOrderCreated = "OrderCreated"

type OrderItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// OrderCreated is emitted after an order is persisted. Consumers (back-office
// dashboards, kitchen displays) get a stream instead of polling GET /orders.
type OrderCreated struct {
	EventType   string      `json:"eventType"`
	OrderID     string      `json:"orderId"`
	OrderNumber string      `json:"orderNumber"`
	Customer    string      `json:"customer"`
	OrderType   string      `json:"orderType"`
	Items       []OrderItem `json:"items"`
	Total       float64     `json:"total"`
	Timestamp   time.Time   `json:"timestamp"`
}
