package ports

import (
	"context"

	"github.com/shopcraft/shop-api/internal/core/domain"
)

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	// FindByID retrieves an order by id. When customerEmail is non-empty, the
	// query is additionally filtered by owner, so an order owned by someone
	// else is indistinguishable from a missing one.
	FindByID(ctx context.Context, id string, customerEmail string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerEmail string) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	// UpdateStatus sets the order's status in a single conditional write that
	// only matches when the stored status still equals from.
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) error
	// DeletePending removes the order only when it is still Pending and owned
	// by customerEmail, as a single conditional operation.
	DeletePending(ctx context.Context, id string, customerEmail string) error
	Delete(ctx context.Context, id string) error
}
