package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sportsgear/internal/models"
)

// SaleRecord is the projection of an order used for revenue reporting.
type SaleRecord struct {
	CreatedAt  time.Time          `bson:"createdAt"`
	TotalPrice float64            `bson:"totalPrice"`
	Status     models.OrderStatus `bson:"status"`
}

type OrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{collection: db.Collection("orders")}
}

func (r *OrderRepository) Insert(ctx context.Context, order *models.Order) error {
	res, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", mapWriteError(err))
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = id
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	return findOne[models.Order](ctx, r.collection, bson.M{"_id": id})
}

// Replace writes the whole order document back.
func (r *OrderRepository) Replace(ctx context.Context, order models.Order) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": order.ID}, order)
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser returns the user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findAll[models.Order](ctx, r.collection, bson.M{"user": userID}, opts)
}

func (r *OrderRepository) List(ctx context.Context) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findAll[models.Order](ctx, r.collection, bson.M{}, opts)
}

func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// Sales streams the reporting projection of every order. Cancelled orders
// are skipped when excludeCancelled is set.
func (r *OrderRepository) Sales(ctx context.Context, excludeCancelled bool) ([]SaleRecord, error) {
	filter := bson.M{}
	if excludeCancelled {
		filter["status"] = bson.M{"$ne": models.OrderStatusCancelled}
	}
	opts := options.Find().
		SetProjection(bson.M{"createdAt": 1, "totalPrice": 1, "status": 1}).
		SetSort(bson.D{{Key: "createdAt", Value: 1}})

	records, err := findAll[SaleRecord](ctx, r.collection, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}
	return records, nil
}
