package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/you/allospace/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoListingRepository implements domain.ListingRepository on a MongoDB collection
type MongoListingRepository struct {
	coll *mongo.Collection
}

type mongoListing struct {
	ID        string    `bson:"_id"`
	OwnerID   string    `bson:"owner"`
	Title     string    `bson:"title"`
	Address   string    `bson:"address"`
	CreatedAt time.Time `bson:"createdAt"`
}

func NewMongoListingRepository(db *mongo.Database, collection string) domain.ListingRepository {
	return &MongoListingRepository{coll: db.Collection(collection)}
}

// Create implements domain.ListingRepository
func (r *MongoListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	if listing.ID == "" {
		listing.ID = uuid.NewString()
	}
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, mongoListing{
		ID:        listing.ID,
		OwnerID:   listing.OwnerID,
		Title:     listing.Title,
		Address:   listing.Address,
		CreatedAt: listing.CreatedAt,
	})
	return err
}

// UpdateAddress implements domain.ListingRepository
func (r *MongoListingRepository) UpdateAddress(ctx context.Context, oldAddress, newAddress string) (int64, error) {
	result, err := r.coll.UpdateMany(ctx,
		bson.M{"address": oldAddress},
		bson.M{"$set": bson.M{"address": newAddress}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}
