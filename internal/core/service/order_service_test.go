package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/shopcraft/shop-api/internal/core/domain"
	"github.com/shopcraft/shop-api/internal/core/ports"
)

type stubOrderRepo struct {
	orders  map[string]*domain.Order
	nextID  int
	inserts int
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[string]*domain.Order)}
}

func cloneOrder(o *domain.Order) *domain.Order {
	clone := *o
	clone.Items = append([]domain.OrderItem(nil), o.Items...)
	return &clone
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) (*domain.Order, error) {
	r.nextID++
	r.inserts++
	created := cloneOrder(o)
	created.ID = fmt.Sprintf("order-%d", r.nextID)
	r.orders[created.ID] = cloneOrder(created)
	return created, nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string, customerEmail string) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if customerEmail != "" && o.CustomerEmail != customerEmail {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *stubOrderRepo) ListByCustomer(_ context.Context, customerEmail string) ([]*domain.Order, error) {
	out := make([]*domain.Order, 0)
	for _, o := range r.orders {
		if o.CustomerEmail == customerEmail {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

func (r *stubOrderRepo) ListAll(_ context.Context) ([]*domain.Order, error) {
	out := make([]*domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, cloneOrder(o))
	}
	return out, nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id string, from, to domain.OrderStatus) error {
	o, ok := r.orders[id]
	if !ok || o.Status != from {
		return domain.ErrInvalidTransition
	}
	o.Status = to
	return nil
}

func (r *stubOrderRepo) DeletePending(_ context.Context, id string, customerEmail string) error {
	o, ok := r.orders[id]
	if !ok || o.CustomerEmail != customerEmail || o.Status != domain.StatusPending {
		return domain.ErrOrderNotCancellable
	}
	delete(r.orders, id)
	return nil
}

func (r *stubOrderRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.orders, id)
	return nil
}

type stubIdemStore struct {
	keys map[string]string
}

func newStubIdemStore() *stubIdemStore {
	return &stubIdemStore{keys: make(map[string]string)}
}

func (s *stubIdemStore) Lookup(_ context.Context, key string) (string, error) {
	return s.keys[key], nil
}

func (s *stubIdemStore) Remember(_ context.Context, key, orderID string) error {
	s.keys[key] = orderID
	return nil
}

func placeOrder(t *testing.T, svc *OrderService, email string) *domain.Order {
	t.Helper()
	result, err := svc.Create(context.Background(), ports.CreateOrderInput{
		CustomerEmail: email,
		Items:         []ports.OrderItemInput{{ProductID: 1, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return result.Order
}

func TestOrderService_Create(t *testing.T) {
	repo := newStubOrderRepo()
	svc := NewOrderService(repo, nil, zerolog.Nop())

	order := placeOrder(t, svc, "bob@example.com")
	if order.Status != domain.StatusPending {
		t.Fatalf("new order status: got %s, want Pending", order.Status)
	}
	if order.ID == "" {
		t.Fatalf("expected an order id")
	}
	if order.CustomerEmail != "bob@example.com" {
		t.Fatalf("owner email: got %q", order.CustomerEmail)
	}
}

func TestOrderService_Create_IdempotentReplay(t *testing.T) {
	repo := newStubOrderRepo()
	svc := NewOrderService(repo, newStubIdemStore(), zerolog.Nop())

	input := ports.CreateOrderInput{
		CustomerEmail:  "bob@example.com",
		Items:          []ports.OrderItemInput{{ProductID: 1, Quantity: 2}},
		IdempotencyKey: "req-42",
	}

	first, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if first.AlreadyExisted {
		t.Fatalf("first create reported as replay")
	}

	second, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if !second.AlreadyExisted {
		t.Fatalf("replay not detected")
	}
	if second.Order.ID != first.Order.ID {
		t.Fatalf("replay returned a different order: %s vs %s", second.Order.ID, first.Order.ID)
	}
	if repo.inserts != 1 {
		t.Fatalf("expected a single insert, got %d", repo.inserts)
	}
}

func TestOrderService_Pay(t *testing.T) {
	repo := newStubOrderRepo()
	svc := NewOrderService(repo, nil, zerolog.Nop())

	order := placeOrder(t, svc, "bob@example.com")

	if err := svc.Pay(context.Background(), order.ID, "bob@example.com"); err != nil {
		t.Fatalf("pay: %v", err)
	}
	paid, _ := repo.FindByID(context.Background(), order.ID, "")
	if paid.Status != domain.StatusPaid {
		t.Fatalf("status after pay: got %s", paid.Status)
	}

	// paying again is an illegal transition
	if err := svc.Pay(context.Background(), order.ID, "bob@example.com"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on second pay, got %v", err)
	}
}

func TestOrderService_Pay_NotOwner(t *testing.T) {
	repo := newStubOrderRepo()
	svc := NewOrderService(repo, nil, zerolog.Nop())

	order := placeOrder(t, svc, "bob@example.com")

	// a stranger sees the order as missing, not forbidden
	if err := svc.Pay(context.Background(), order.ID, "mallory@example.com"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderService_Cancel_Pending(t *testing.T) {
	repo := newStubOrderRepo()
	svc := NewOrderService(repo, nil, zerolog.Nop())

	order := placeOrder(t, svc, "bob@example.com")

	if err := svc.Cancel(context.Background(), order.ID, "bob@example.com"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := repo.FindByID(context.Background(), order.ID, ""); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("order should be deleted after cancel, got %v", err)
	}
}

func TestOrderService_Cancel_Paid(t *testing.T) {
	repo := newStubOrderRepo()
	svc := NewOrderService(repo, nil, zerolog.Nop())

	order := placeOrder(t, svc, "bob@example.com")
	if err := svc.Pay(context.Background(), order.ID, "bob@example.com"); err != nil {
		t.Fatalf("pay: %v", err)
	}

	if err := svc.Cancel(context.Background(), order.ID, "bob@example.com"); !errors.Is(err, domain.ErrOrderNotCancellable) {
		t.Fatalf("expected ErrOrderNotCancellable, got %v", err)
	}
	// the order survived the rejected cancel
	if _, err := repo.FindByID(context.Background(), order.ID, ""); err != nil {
		t.Fatalf("paid order must still exist: %v", err)
	}
}

func TestOrderService_Cancel_NotOwner(t *testing.T) {
	repo := newStubOrderRepo()
	svc := NewOrderService(repo, nil, zerolog.Nop())

	order := placeOrder(t, svc, "bob@example.com")

	if err := svc.Cancel(context.Background(), order.ID, "mallory@example.com"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderService_UpdateStatus_FullLifecycle(t *testing.T) {
	repo := newStubOrderRepo()
	svc := NewOrderService(repo, nil, zerolog.Nop())

	order := placeOrder(t, svc, "bob@example.com")

	// Shipped is unreachable before Paid
	if err := svc.UpdateStatus(context.Background(), order.ID, "Shipped"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for Pending->Shipped, got %v", err)
	}

	for _, next := range []string{"Paid", "Shipped", "Completed"} {
		if err := svc.UpdateStatus(context.Background(), order.ID, next); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}

	done, _ := repo.FindByID(context.Background(), order.ID, "")
	if done.Status != domain.StatusCompleted {
		t.Fatalf("final status: got %s", done.Status)
	}

	// completed is terminal
	if err := svc.UpdateStatus(context.Background(), order.ID, "Paid"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition from Completed, got %v", err)
	}
}

func TestOrderService_UpdateStatus_UnknownStatus(t *testing.T) {
	repo := newStubOrderRepo()
	svc := NewOrderService(repo, nil, zerolog.Nop())

	order := placeOrder(t, svc, "bob@example.com")

	if err := svc.UpdateStatus(context.Background(), order.ID, "Refunded"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestOrderService_OwnerScopedReads(t *testing.T) {
	repo := newStubOrderRepo()
	svc := NewOrderService(repo, nil, zerolog.Nop())

	bob := placeOrder(t, svc, "bob@example.com")
	placeOrder(t, svc, "carol@example.com")

	mine, err := svc.ListForCustomer(context.Background(), "bob@example.com")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != bob.ID {
		t.Fatalf("expected only bob's order, got %d orders", len(mine))
	}

	if _, err := svc.GetForCustomer(context.Background(), bob.ID, "carol@example.com"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("foreign order must read as not found, got %v", err)
	}

	all, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admin list should see both orders, got %d", len(all))
	}
}

func TestOrderService_Delete(t *testing.T) {
	repo := newStubOrderRepo()
	svc := NewOrderService(repo, nil, zerolog.Nop())

	order := placeOrder(t, svc, "bob@example.com")

	if err := svc.Delete(context.Background(), order.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(context.Background(), order.ID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
