package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopcraft/shop-api/internal/api/metrics"
	"github.com/shopcraft/shop-api/internal/core/domain"
	"github.com/shopcraft/shop-api/internal/core/ports"
)

// IdempotencyStore abstracts the order-creation replay cache (Redis).
type IdempotencyStore interface {
	// Lookup returns the order id previously recorded for key, or "" when the
	// key has not been seen.
	Lookup(ctx context.Context, key string) (string, error)
	Remember(ctx context.Context, key, orderID string) error
}

// OrderService enforces the order lifecycle: ownership checks, the status
// transition table, and the cancel rules. All domain checks run before any
// mutating store call, and every transition is a single conditional write.
type OrderService struct {
	repo ports.OrderRepository
	idem IdempotencyStore
	log  zerolog.Logger
}

// NewOrderService returns an OrderService. idem may be nil, in which case
// idempotency keys are ignored.
func NewOrderService(repo ports.OrderRepository, idem IdempotencyStore, log zerolog.Logger) *OrderService {
	return &OrderService{repo: repo, idem: idem, log: log}
}

// Create places a new order in Pending status. Product references are
// recorded as-is; stock and existence are deliberately not checked. When an
// idempotency key was already seen, the original order is returned without a
// second insert.
func (s *OrderService) Create(ctx context.Context, input ports.CreateOrderInput) (*ports.CreateOrderResult, error) {
	if input.IdempotencyKey != "" && s.idem != nil {
		id, err := s.idem.Lookup(ctx, input.IdempotencyKey)
		if err != nil {
			s.log.Warn().Err(err).Str("idempotency_key", input.IdempotencyKey).Msg("idempotency lookup failed, creating anyway")
		} else if id != "" {
			existing, err := s.repo.FindByID(ctx, id, "")
			if err == nil {
				s.log.Info().Str("idempotency_key", input.IdempotencyKey).Str("order_id", id).Msg("idempotent replay")
				return &ports.CreateOrderResult{Order: existing, AlreadyExisted: true}, nil
			}
		}
	}

	items := make([]domain.OrderItem, 0, len(input.Items))
	for _, it := range input.Items {
		items = append(items, domain.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	order := &domain.Order{
		CustomerEmail:  input.CustomerEmail,
		Items:          items,
		Status:         domain.StatusPending,
		CreatedAt:      time.Now().UTC(),
		IdempotencyKey: input.IdempotencyKey,
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create order")
		return nil, err
	}

	if input.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.Remember(ctx, input.IdempotencyKey, created.ID); err != nil {
			s.log.Warn().Err(err).Str("order_id", created.ID).Msg("failed to record idempotency key")
		}
	}

	metrics.OrdersCreatedTotal.Inc()
	s.log.Info().Str("order_id", created.ID).Str("customer_email", created.CustomerEmail).Msg("order created")
	return &ports.CreateOrderResult{Order: created}, nil
}

// ListForCustomer returns all orders owned by customerEmail.
func (s *OrderService) ListForCustomer(ctx context.Context, customerEmail string) ([]*domain.Order, error) {
	return s.repo.ListByCustomer(ctx, customerEmail)
}

// GetForCustomer returns the order only when owned by customerEmail; a
// foreign order reads as not found.
func (s *OrderService) GetForCustomer(ctx context.Context, id, customerEmail string) (*domain.Order, error) {
	return s.repo.FindByID(ctx, id, customerEmail)
}

// Pay marks the caller's Pending order as Paid.
func (s *OrderService) Pay(ctx context.Context, id, customerEmail string) error {
	order, err := s.repo.FindByID(ctx, id, customerEmail)
	if err != nil {
		return err
	}
	if !order.Status.CanTransitionTo(domain.StatusPaid) {
		return fmt.Errorf("pay order: %w (from %s)", domain.ErrInvalidTransition, order.Status)
	}
	if err := s.repo.UpdateStatus(ctx, id, order.Status, domain.StatusPaid); err != nil {
		return err
	}

	metrics.OrderTransitionsTotal.WithLabelValues(string(order.Status), string(domain.StatusPaid)).Inc()
	s.log.Info().Str("order_id", id).Msg("order paid")
	return nil
}

// Cancel deletes the caller's order. Only Pending orders can be canceled;
// once paid the order is locked into the forward lifecycle.
func (s *OrderService) Cancel(ctx context.Context, id, customerEmail string) error {
	order, err := s.repo.FindByID(ctx, id, customerEmail)
	if err != nil {
		return err
	}
	if !order.Status.Cancellable() {
		return domain.ErrOrderNotCancellable
	}
	if err := s.repo.DeletePending(ctx, id, customerEmail); err != nil {
		return err
	}

	metrics.OrdersCancelledTotal.Inc()
	s.log.Info().Str("order_id", id).Msg("order canceled")
	return nil
}

// List returns every order (administrative view).
func (s *OrderService) List(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.ListAll(ctx)
}

// Get returns any order by id (administrative view).
func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.FindByID(ctx, id, "")
}

// UpdateStatus applies an administrative status change, still subject to the
// transition table: Shipped and Completed are only reachable through Paid.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, next string) error {
	status := domain.OrderStatus(next)
	if !status.Valid() {
		return fmt.Errorf("update status: %w (unknown status %q)", domain.ErrInvalidTransition, next)
	}

	order, err := s.repo.FindByID(ctx, id, "")
	if err != nil {
		return err
	}
	if !order.Status.CanTransitionTo(status) {
		return fmt.Errorf("update status: %w (from %s to %s)", domain.ErrInvalidTransition, order.Status, status)
	}
	if err := s.repo.UpdateStatus(ctx, id, order.Status, status); err != nil {
		return err
	}

	metrics.OrderTransitionsTotal.WithLabelValues(string(order.Status), string(status)).Inc()
	s.log.Info().Str("order_id", id).Str("status", next).Msg("order status updated")
	return nil
}

// Delete removes any order by id (administrative view, no status constraint).
func (s *OrderService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id, ""); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
