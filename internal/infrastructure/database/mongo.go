package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	AccountsCollection = "users"
	ListingsCollection = "spaces"
)

// OpenMongo connects to uri and pings the primary
func OpenMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// EnsureIndexes creates the uniqueness indexes the account store relies on
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	accounts := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "googleId", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "resetPasswordToken", Value: 1}},
		},
	}
	if _, err := db.Collection(AccountsCollection).Indexes().CreateMany(ctx, accounts); err != nil {
		return fmt.Errorf("failed to create account indexes: %w", err)
	}

	listings := []mongo.IndexModel{{Keys: bson.D{{Key: "address", Value: 1}}}}
	if _, err := db.Collection(ListingsCollection).Indexes().CreateMany(ctx, listings); err != nil {
		return fmt.Errorf("failed to create listing indexes: %w", err)
	}
	return nil
}
