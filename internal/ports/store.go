package ports

import (
	"context"

	"eventmarket/models"

	"github.com/google/uuid"
)

// MarketStore persists listings and bids.
type MarketStore interface {
	// Atomic runs fn against a store bound to one transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	Atomic(ctx context.Context, fn func(tx MarketStore) error) error

	InsertListing(ctx context.Context, l *models.Listing) error
	GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	// LockListing loads the listing with its items and holds a row lock on it
	// until the surrounding transaction ends.
	LockListing(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	SetListingVisibility(ctx context.Context, id, ownerID uuid.UUID, v models.Visibility) error
	SetListingStatus(ctx context.Context, id uuid.UUID, s models.ListingStatus) error
	SetItemsStatus(ctx context.Context, ids []uuid.UUID, s models.ItemStatus) error
	BrowseListings(ctx context.Context, f models.ListingFilter) ([]models.Listing, error)
	ListingsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Listing, error)
	AdminListings(ctx context.Context, f models.AdminListingFilter) ([]models.Listing, error)

	InsertBid(ctx context.Context, b *models.Bid) error
	GetBid(ctx context.Context, id uuid.UUID) (*models.Bid, error)
	SetBidStatus(ctx context.Context, id uuid.UUID, s models.BidStatus) error
	BidsForListing(ctx context.Context, listingID uuid.UUID) ([]models.Bid, error)
	BidsByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Bid, error)
}

// VendorStore persists vendor profiles and feedback.
type VendorStore interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetVendorProfile(ctx context.Context, userID uuid.UUID) (*models.VendorProfile, error)
	UpsertVendorProfile(ctx context.Context, p *models.VendorProfile) error
	UpsertRating(ctx context.Context, r *models.Rating) error
	UpsertReview(ctx context.Context, r *models.Review) error
	ReviewsForVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Review, error)
	InsertQuestion(ctx context.Context, q *models.Question) error
	GetQuestion(ctx context.Context, id uuid.UUID) (*models.Question, error)
	AnswerQuestion(ctx context.Context, q *models.Question) error
	QuestionsForVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Question, error)
	Categories(ctx context.Context) ([]models.ServiceCategory, error)
	AdminVendors(ctx context.Context, f models.AdminVendorFilter) ([]models.AdminVendor, error)
}

// DiscoveryStore is the read side used by vendor discovery.
type DiscoveryStore interface {
	VendorRecords(ctx context.Context) ([]models.VendorRecord, error)
	RatingAggregates(ctx context.Context, vendorIDs []uuid.UUID) (map[uuid.UUID]models.RatingAggregate, error)
}
