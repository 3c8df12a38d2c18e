package ports

import (
	"context"

	"github.com/shopcraft/shop-api/internal/core/domain"
)

// ProductInput carries product attributes for create and update.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
}

// ProductService defines use-case operations for the catalog.
type ProductService interface {
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Update(ctx context.Context, id string, input ProductInput) error
	Delete(ctx context.Context, id string) error
}
