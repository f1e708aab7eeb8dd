package handlers

import (
	"context"

	"eventmarket/internal/discovery"
	"eventmarket/models"

	"github.com/google/uuid"
)

type MarketService interface {
	CreateListing(ctx context.Context, caller models.Caller, in models.CreateListingInput) (uuid.UUID, error)
	SetVisibility(ctx context.Context, caller models.Caller, id uuid.UUID, v models.Visibility) error
	GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	BrowseListings(ctx context.Context, f models.ListingFilter) ([]models.Listing, error)
	MyListings(ctx context.Context, caller models.Caller) ([]models.Listing, error)
	AdminListings(ctx context.Context, caller models.Caller, f models.AdminListingFilter) ([]models.Listing, error)

	CreateBid(ctx context.Context, caller models.Caller, in models.CreateBidInput) (uuid.UUID, error)
	AcceptBid(ctx context.Context, caller models.Caller, bidID uuid.UUID) error
	ListingBids(ctx context.Context, caller models.Caller, listingID uuid.UUID) ([]models.Bid, error)
	MyBids(ctx context.Context, caller models.Caller) ([]models.Bid, error)
}

type VendorService interface {
	GetProfile(ctx context.Context, caller models.Caller) (*models.VendorProfile, error)
	UpsertProfile(ctx context.Context, caller models.Caller, in models.VendorProfileInput) (*models.VendorProfile, error)
	Rate(ctx context.Context, caller models.Caller, vendorID uuid.UUID, in models.RatingInput) error
	Review(ctx context.Context, caller models.Caller, vendorID uuid.UUID, in models.ReviewInput) (*models.Review, error)
	Ask(ctx context.Context, caller models.Caller, vendorID uuid.UUID, in models.QuestionInput) (*models.Question, error)
	Answer(ctx context.Context, caller models.Caller, questionID uuid.UUID, in models.AnswerInput) (*models.Question, error)
	Reviews(ctx context.Context, vendorID uuid.UUID) ([]models.Review, error)
	Questions(ctx context.Context, vendorID uuid.UUID) ([]models.Question, error)
	Categories(ctx context.Context) ([]models.ServiceCategory, error)
	AdminVendors(ctx context.Context, caller models.Caller, f models.AdminVendorFilter) ([]models.AdminVendor, error)
}

type VendorFinder interface {
	FindVendors(ctx context.Context, f discovery.Filters) ([]models.VendorMapItem, error)
}
