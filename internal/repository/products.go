package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sportsgear/internal/models"
)

// ProductChanges lists the product fields an admin edit touches. Nil fields
// are left as stored.
type ProductChanges struct {
	Name           *string
	Price          *float64
	Description    *string
	Image          *string
	Brand          *string
	Category       *string
	CountInStock   *int
	Colors         *[]models.ColorVariant
	AvailableSizes *[]string
}

// Empty reports whether no field is set.
func (c ProductChanges) Empty() bool {
	return c == (ProductChanges{})
}

func (c ProductChanges) setDocument(now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if c.Name != nil {
		set["name"] = *c.Name
	}
	if c.Price != nil {
		set["price"] = *c.Price
	}
	if c.Description != nil {
		set["description"] = *c.Description
	}
	if c.Image != nil {
		set["image"] = *c.Image
	}
	if c.Brand != nil {
		set["brand"] = *c.Brand
	}
	if c.Category != nil {
		set["category"] = *c.Category
	}
	if c.CountInStock != nil {
		set["countInStock"] = *c.CountInStock
	}
	if c.Colors != nil {
		set["colors"] = *c.Colors
	}
	if c.AvailableSizes != nil {
		set["availableSizes"] = models.StringList(*c.AvailableSizes)
	}
	return set
}

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{collection: db.Collection("products")}
}

func (r *ProductRepository) Find(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	return findOne[models.Product](ctx, r.collection, bson.M{"_id": id})
}

// List returns one page of products, newest first, optionally filtered by a
// case-insensitive name match.
func (r *ProductRepository) List(ctx context.Context, keyword string, page, size int64) ([]models.Product, int64, error) {
	filter := bson.M{}
	if keyword != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(keyword), "$options": "i"}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * size).
		SetLimit(size)

	products, err := findAll[models.Product](ctx, r.collection, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

func (r *ProductRepository) Top(ctx context.Context, limit int64) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "rating", Value: -1}}).SetLimit(limit)
	return findAll[models.Product](ctx, r.collection, bson.M{}, opts)
}

func (r *ProductRepository) Insert(ctx context.Context, product *models.Product) error {
	res, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", mapWriteError(err))
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		product.ID = id
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, changes ProductChanges) (models.Product, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Product
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": changes.setDocument(time.Now())},
		opts,
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	return updated, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ReserveStock decrements the stock only when enough units remain.
func (r *ProductRepository) ReserveStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "countInStock": bson.M{"$gte": qty}},
		bson.M{
			"$inc": bson.M{"countInStock": -qty},
			"$set": bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to reserve stock: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	if _, err := r.Find(ctx, id); err != nil {
		return err
	}
	return ErrInsufficientStock
}

// DeductStock decrements the stock and clamps it at zero.
func (r *ProductRepository) DeductStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"countInStock": bson.M{"$max": bson.A{0, bson.M{"$subtract": bson.A{"$countInStock", qty}}}},
			"updatedAt":    "$$NOW",
		}}},
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to deduct stock: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddReview appends a review unless the same user already reviewed the
// product, recomputing rating and numReviews in the same write.
func (r *ProductRepository) AddReview(ctx context.Context, id primitive.ObjectID, review models.Review) (models.Product, error) {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"reviews": bson.M{"$concatArrays": bson.A{
				bson.M{"$ifNull": bson.A{"$reviews", bson.A{}}},
				bson.A{bson.M{"$literal": review}},
			}},
		}}},
		{{Key: "$set", Value: bson.M{
			"numReviews": bson.M{"$size": "$reviews"},
			"rating":     bson.M{"$avg": "$reviews.rating"},
			"updatedAt":  "$$NOW",
		}}},
	}

	var updated models.Product
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "reviews.user": bson.M{"$ne": review.User}},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, fmt.Errorf("failed to add review: %w", err)
	}

	if _, err := r.Find(ctx, id); err != nil {
		return models.Product{}, err
	}
	return models.Product{}, ErrDuplicate
}
