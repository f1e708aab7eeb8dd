package models

import (
	"time"

	"github.com/google/uuid"
)

type VendorProfile struct {
	ID                   uuid.UUID  `db:"id" json:"id"`
	UserID               uuid.UUID  `db:"user_id" json:"userId"`
	CompanyName          string     `db:"company_name" json:"companyName"`
	Description          string     `db:"description" json:"description"`
	ServiceCategoriesCSV string     `db:"service_categories_csv" json:"serviceCategoriesCsv"`
	SuitableForCSV       string     `db:"suitable_for_csv" json:"suitableForCsv"`
	VenueType            string     `db:"venue_type" json:"venueType"`
	Capacity             *int       `db:"capacity" json:"capacity"`
	Amenities            string     `db:"amenities" json:"amenities"`
	PriceRange           string     `db:"price_range" json:"priceRange"`
	PhoneNumber          string     `db:"phone_number" json:"phoneNumber"`
	Website              string     `db:"website" json:"website"`
	SocialMediaLinks     string     `db:"social_media_links" json:"socialMediaLinks"`
	WorkingHours         string     `db:"working_hours" json:"workingHours"`
	PhotoURLs            string     `db:"photo_urls" json:"photoUrls"`
	IsVerified           bool       `db:"is_verified" json:"isVerified"`
	CreatedAt            time.Time  `db:"created_at" json:"createdAtUtc"`
	UpdatedAt            *time.Time `db:"updated_at" json:"updatedAtUtc"`
	Place                *Place     `db:"-" json:"place,omitempty"`
}

// VendorRecord is a vendor profile joined with the owner's display name.
type VendorRecord struct {
	VendorProfile
	DisplayName string `db:"display_name"`
}

// RatingAggregate is the grouped rating of one vendor.
type RatingAggregate struct {
	VendorUserID uuid.UUID `db:"vendor_user_id" json:"vendorUserId"`
	Average      float64   `db:"average" json:"average"`
	Count        int       `db:"count" json:"count"`
}

type Rating struct {
	ID           uuid.UUID `db:"id" json:"id"`
	VendorUserID uuid.UUID `db:"vendor_user_id" json:"vendorUserId"`
	UserID       uuid.UUID `db:"user_id" json:"userId"`
	Rating       int       `db:"rating" json:"rating"`
	CreatedAt    time.Time `db:"created_at" json:"createdAtUtc"`
}

type Review struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	VendorUserID uuid.UUID  `db:"vendor_user_id" json:"vendorUserId"`
	UserID       uuid.UUID  `db:"user_id" json:"userId"`
	AuthorName   string     `db:"author_name" json:"authorName"`
	Comment      string     `db:"comment" json:"comment"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAtUtc"`
	UpdatedAt    *time.Time `db:"updated_at" json:"updatedAtUtc"`
}

type Question struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	VendorUserID uuid.UUID  `db:"vendor_user_id" json:"vendorUserId"`
	UserID       uuid.UUID  `db:"user_id" json:"userId"`
	AuthorName   string     `db:"author_name" json:"authorName"`
	Question     string     `db:"question" json:"question"`
	Answer       string     `db:"answer" json:"answer"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAtUtc"`
	AnsweredAt   *time.Time `db:"answered_at" json:"answeredAtUtc"`
}

// EntityType is the kind of entity a Place is pinned to.
type EntityType string

const (
	EntityListing EntityType = "Listing"
	EntityVendor  EntityType = "Vendor"
)

// Place is a Geo Directory entry.
type Place struct {
	ID           string     `json:"id"`
	RefType      EntityType `json:"refType"`
	RefID        string     `json:"refId"`
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	Radius       *float64   `json:"radius,omitempty"`
	AddressLabel string     `json:"addressLabel,omitempty"`
}

// VendorMapItem is one vendor as returned by discovery.
type VendorMapItem struct {
	UserID            uuid.UUID `json:"userId"`
	ProfileID         uuid.UUID `json:"profileId"`
	CompanyName       string    `json:"companyName"`
	DisplayName       string    `json:"displayName"`
	ServiceCategories []string  `json:"serviceCategories"`
	SuitableFor       []string  `json:"suitableFor"`
	IsVerified        bool      `json:"isVerified"`
	VenueType         string    `json:"venueType,omitempty"`
	Capacity          *int      `json:"capacity,omitempty"`
	Amenities         string    `json:"amenities,omitempty"`
	PriceRange        string    `json:"priceRange,omitempty"`
	PhoneNumber       string    `json:"phoneNumber,omitempty"`
	Website           string    `json:"website,omitempty"`
	CoverPhotoURL     string    `json:"coverPhotoUrl,omitempty"`
	RatingAverage     float64   `json:"ratingAverage"`
	RatingCount       int       `json:"ratingCount"`
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
	Radius            *float64  `json:"radius,omitempty"`
	AddressLabel      string    `json:"addressLabel,omitempty"`
}

// AdminVendor is a vendor profile with the owner's account details, as
// shown to moderators.
type AdminVendor struct {
	VendorProfile
	Email       string `db:"email" json:"email"`
	DisplayName string `db:"display_name" json:"displayName"`
}

// AdminVendorFilter narrows the moderation view of vendor profiles. A nil
// Verified matches both states.
type AdminVendorFilter struct {
	Verified *bool
	Text     string
}
