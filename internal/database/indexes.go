package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureIndexes creates every index the repositories rely on. Failures are
// collected so one bad collection does not hide the others.
func EnsureIndexes(db *mongo.Database, logger *zap.Logger) error {
	return errors.Join(
		EnsureProductIndexes(db, logger),
		EnsureUserIndexes(db, logger),
		EnsureOrderIndexes(db, logger),
		EnsureCategoryIndexes(db, logger),
	)
}

func EnsureProductIndexes(db *mongo.Database, logger *zap.Logger) error {
	return createIndexes(db, "products", logger,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("createdAt_desc"),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "rating", Value: -1}},
			Options: options.Index().SetName("rating_desc"),
		},
	)
}

func EnsureUserIndexes(db *mongo.Database, logger *zap.Logger) error {
	return createIndexes(db, "users", logger,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_unique").SetUnique(true),
		},
	)
}

func EnsureOrderIndexes(db *mongo.Database, logger *zap.Logger) error {
	return createIndexes(db, "orders", logger,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("user_createdAt"),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("createdAt_asc"),
		},
	)
}

func EnsureCategoryIndexes(db *mongo.Database, logger *zap.Logger) error {
	return createIndexes(db, "categories", logger,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("name_unique").SetUnique(true),
		},
	)
}

func createIndexes(db *mongo.Database, collection string, logger *zap.Logger, models ...mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
	if err != nil {
		logger.Warn("index creation failed", zap.String("collection", collection), zap.Error(err))
		return err
	}
	logger.Info("indexes ensured", zap.String("collection", collection), zap.Strings("indexes", names))
	return nil
}
