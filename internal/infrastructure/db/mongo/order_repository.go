package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shopcraft/shop-api/internal/core/domain"
)

const ordersCollection = "orders"

type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection(ordersCollection)}
}

type mongoOrder struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	CustomerEmail  string             `bson:"customer_email"`
	Items          []domain.OrderItem `bson:"items"`
	Status         string             `bson:"status"`
	CreatedAt      time.Time          `bson:"created_at"`
	IdempotencyKey string             `bson:"idempotency_key,omitempty"`
}

func toDomainOrder(mo *mongoOrder) *domain.Order {
	return &domain.Order{
		ID:             mo.ID.Hex(),
		CustomerEmail:  mo.CustomerEmail,
		Items:          mo.Items,
		Status:         domain.OrderStatus(mo.Status),
		CreatedAt:      mo.CreatedAt,
		IdempotencyKey: mo.IdempotencyKey,
	}
}

// Create inserts a new order document.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoOrder{
		CustomerEmail:  o.CustomerEmail,
		Items:          o.Items,
		Status:         string(o.Status),
		CreatedAt:      o.CreatedAt,
		IdempotencyKey: o.IdempotencyKey,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}

	created := *o
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

// FindByID retrieves an order by id. When customerEmail is non-empty the
// owner filter joins the query, so a foreign order decodes to no documents
// and reads as not found.
func (r *OrderRepository) FindByID(ctx context.Context, id string, customerEmail string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	filter := bson.M{"_id": oid}
	if customerEmail != "" {
		filter["customer_email"] = customerEmail
	}

	var mo mongoOrder
	if err := r.col.FindOne(ctx, filter).Decode(&mo); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return toDomainOrder(&mo), nil
}

// ListByCustomer returns the customer's orders in insertion order.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerEmail string) ([]*domain.Order, error) {
	return r.list(ctx, bson.M{"customer_email": customerEmail})
}

// ListAll returns every order.
func (r *OrderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, bson.M{})
}

func (r *OrderRepository) list(ctx context.Context, filter bson.M) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	orders := make([]*domain.Order, 0)
	for cur.Next(ctx) {
		var mo mongoOrder
		if err := cur.Decode(&mo); err != nil {
			return nil, err
		}
		orders = append(orders, toDomainOrder(&mo))
	}
	return orders, cur.Err()
}

// UpdateStatus applies the transition as one conditional write: the update
// only matches while the stored status still equals from, so a transition is
// never half-applied and never overwrites a concurrent one.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrOrderNotFound
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to)}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// The order vanished or its status moved between read and write.
		return domain.ErrInvalidTransition
	}
	return nil
}

// DeletePending removes the order only while it is still Pending and owned
// by customerEmail, as a single conditional delete.
func (r *OrderRepository) DeletePending(ctx context.Context, id string, customerEmail string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrOrderNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{
		"_id":            oid,
		"customer_email": customerEmail,
		"status":         string(domain.StatusPending),
	})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrOrderNotCancellable
	}
	return nil
}

// Delete removes any order by id.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrOrderNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// EnsureIndexes creates the query indexes on the orders collection.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "customer_email", Value: 1}}},
		{Keys: bson.D{{Key: "idempotency_key", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
