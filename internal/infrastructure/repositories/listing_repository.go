package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/you/allospace/domain"
	"gorm.io/gorm"
)

// ListingRepositoryImpl implements domain.ListingRepository using GORM
type ListingRepositoryImpl struct {
	db *gorm.DB
}

// DBListing is the part of a space listing row the identity core touches
type DBListing struct {
	ID        string `gorm:"primaryKey;size:36"`
	OwnerID   string `gorm:"index;size:36"`
	Title     string `gorm:"size:255"`
	Address   string `gorm:"index"`
	CreatedAt time.Time
}

func (DBListing) TableName() string {
	return "spaces"
}

func NewListingRepository(db *gorm.DB) domain.ListingRepository {
	return &ListingRepositoryImpl{db: db}
}

// Create implements domain.ListingRepository
func (r *ListingRepositoryImpl) Create(ctx context.Context, listing *domain.Listing) error {
	if listing.ID == "" {
		listing.ID = uuid.NewString()
	}
	row := &DBListing{
		ID:        listing.ID,
		OwnerID:   listing.OwnerID,
		Title:     listing.Title,
		Address:   listing.Address,
		CreatedAt: listing.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	listing.CreatedAt = row.CreatedAt
	return nil
}

// UpdateAddress implements domain.ListingRepository
func (r *ListingRepositoryImpl) UpdateAddress(ctx context.Context, oldAddress, newAddress string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&DBListing{}).
		Where("address = ?", oldAddress).
		Update("address", newAddress)
	return result.RowsAffected, result.Error
}
