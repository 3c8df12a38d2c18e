package domain

import "time"

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusPaid      OrderStatus = "Paid"
	StatusShipped   OrderStatus = "Shipped"
	StatusCompleted OrderStatus = "Completed"
)

// validTransitions defines the allowed state machine transitions.
// Status only moves forward; the cancel path deletes the order and is
// handled separately (legal from Pending only).
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPending: {StatusPaid},
	StatusPaid:    {StatusShipped},
	StatusShipped: {StatusCompleted},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusCompleted:
		return true
	}
	return false
}

// Cancellable reports whether an order in this status may still be canceled.
func (s OrderStatus) Cancellable() bool {
	return s == StatusPending
}

// OrderItem is a single line of an order. Product references are recorded
// as-is; existence and stock are not checked at order time.
type OrderItem struct {
	ProductID int64 `json:"product_id" bson:"product_id"`
	Quantity  int   `json:"quantity" bson:"quantity"`
}

// Order is the core aggregate root of the order subsystem. CustomerEmail is
// the ownership key and never changes after creation.
type Order struct {
	ID             string      `json:"id" bson:"_id,omitempty"`
	CustomerEmail  string      `json:"customer_email" bson:"customer_email"`
	Items          []OrderItem `json:"items" bson:"items"`
	Status         OrderStatus `json:"status" bson:"status"`
	CreatedAt      time.Time   `json:"created_at" bson:"created_at"`
	IdempotencyKey string      `json:"idempotency_key,omitempty" bson:"idempotency_key,omitempty"`
}
