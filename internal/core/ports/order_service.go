package ports

import (
	"context"

	"github.com/shopcraft/shop-api/internal/core/domain"
)

// OrderItemInput is one line of an order creation request.
type OrderItemInput struct {
	ProductID int64
	Quantity  int
}

// CreateOrderInput carries all data needed to place a new order.
type CreateOrderInput struct {
	CustomerEmail  string
	Items          []OrderItemInput
	IdempotencyKey string
}

// CreateOrderResult is returned by the service after placing an order.
type CreateOrderResult struct {
	Order *domain.Order
	// AlreadyExisted is true when the Idempotency-Key matched a previous order.
	AlreadyExisted bool
}

// OrderService defines use-case operations for the order lifecycle.
//
// Owner-scoped operations take the caller's verified email and report a
// missing order and a foreign order identically (not found).
type OrderService interface {
	Create(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error)

	ListForCustomer(ctx context.Context, customerEmail string) ([]*domain.Order, error)
	GetForCustomer(ctx context.Context, id, customerEmail string) (*domain.Order, error)
	Pay(ctx context.Context, id, customerEmail string) error
	Cancel(ctx context.Context, id, customerEmail string) error

	List(ctx context.Context) ([]*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, next string) error
	Delete(ctx context.Context, id string) error
}
