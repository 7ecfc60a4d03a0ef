package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sportsgear/internal/models"
)

type BannerRepository struct {
	collection *mongo.Collection
}

func NewBannerRepository(db *mongo.Database) *BannerRepository {
	return &BannerRepository{collection: db.Collection("banners")}
}

func (r *BannerRepository) List(ctx context.Context) ([]models.Banner, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findAll[models.Banner](ctx, r.collection, bson.M{}, opts)
}

func (r *BannerRepository) Insert(ctx context.Context, banner *models.Banner) error {
	res, err := r.collection.InsertOne(ctx, banner)
	if err != nil {
		return fmt.Errorf("failed to insert banner: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		banner.ID = id
	}
	return nil
}

func (r *BannerRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete banner: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
