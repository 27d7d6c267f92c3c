package order

import (
	"errors"
	"fmt"
	"time"
)

type OrderType string

const (
	TypeDelivery OrderType = "delivery"
	TypePickup   OrderType = "pickup"
)

const StatusPending = "pending"

// Customer is the checkout form data. Address is required for deliveries,
// PickupDate for pickups.
type Customer struct {
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	OrderType  OrderType  `json:"orderType"`
	Address    string     `json:"address,omitempty"`
	PickupDate *time.Time `json:"pickupDate,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

// Item is a frozen snapshot of a product at submission time. Name and price
// are copied so later catalog changes do not rewrite history.
type Item struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// Order is append-only: it is created exactly once per checkout and never
// mutated. Status stays "pending"; transitions are out of scope.
type Order struct {
	ID          string    `json:"id"`
	OrderNumber string    `json:"orderNumber"`
	Customer    Customer  `json:"customer"`
	Items       []Item    `json:"items"`
	Total       float64   `json:"total"`
	CreatedAt   time.Time `json:"createdAt"`
	Status      string    `json:"status"`
}

var ErrValidation = errors.New("validation")

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// Validate enforces the required-field rules before the pipeline runs.
func (c Customer) Validate() error {
	if c.Name == "" {
		return validationError("name is required")
	}
	if c.Email == "" {
		return validationError("email is required")
	}
	if c.Phone == "" {
		return validationError("phone is required")
	}
	switch c.OrderType {
	case TypeDelivery:
		if c.Address == "" {
			return validationError("address is required for delivery orders")
		}
	case TypePickup:
		if c.PickupDate == nil {
			return validationError("pickupDate is required for pickup orders")
		}
	default:
		return validationError(`orderType must be "delivery" or "pickup"`)
	}
	return nil
}
