package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags and wraps any failure in ErrValidation.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("%w: invalid %s", ErrValidation, strings.Join(fields, ", "))
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

// GeoInput is an optional pin supplied alongside a listing or profile.
type GeoInput struct {
	Latitude     float64  `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude    float64  `json:"longitude" validate:"gte=-180,lte=180"`
	Radius       *float64 `json:"radius" validate:"omitempty,gte=0"`
	AddressLabel string   `json:"addressLabel" validate:"max=200"`
}

type CreateListingInput struct {
	Title       string             `json:"title" validate:"required,max=140"`
	Description string             `json:"description" validate:"max=1000"`
	EventDate   time.Time          `json:"eventDate" validate:"required"`
	Location    string             `json:"location" validate:"max=120"`
	Items       []ListingItemInput `json:"items" validate:"dive"`
	Geo         *GeoInput          `json:"geo" validate:"omitempty"`
}

// Normalize trims free-text fields in place.
func (in *CreateListingInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
}

type ListingItemInput struct {
	CategoryID int     `json:"categoryId" validate:"required,gt=0"`
	Budget     float64 `json:"budget" validate:"gte=0"`
}

type CreateBidInput struct {
	ListingID uuid.UUID      `json:"listingId"`
	Items     []BidItemInput `json:"items" validate:"dive"`
	Message   string         `json:"message" validate:"max=600"`
}

type BidItemInput struct {
	ListingItemID uuid.UUID `json:"listingItemId"`
	Amount        float64   `json:"amount" validate:"gte=0"`
}

type VisibilityInput struct {
	Visibility Visibility `json:"visibility" validate:"required"`
}

type VendorProfileInput struct {
	CompanyName          string    `json:"companyName" validate:"required,max=160"`
	Description          string    `json:"description" validate:"max=2000"`
	ServiceCategoriesCSV string    `json:"serviceCategoriesCsv" validate:"max=500"`
	SuitableForCSV       string    `json:"suitableForCsv" validate:"max=500"`
	VenueType            string    `json:"venueType" validate:"max=80"`
	Capacity             *int      `json:"capacity" validate:"omitempty,gte=0"`
	Amenities            string    `json:"amenities" validate:"max=1000"`
	PriceRange           string    `json:"priceRange" validate:"max=80"`
	PhoneNumber          string    `json:"phoneNumber" validate:"max=40"`
	Website              string    `json:"website" validate:"omitempty,max=300"`
	SocialMediaLinks     string    `json:"socialMediaLinks" validate:"max=1000"`
	WorkingHours         string    `json:"workingHours" validate:"max=300"`
	PhotoURLs            string    `json:"photoUrls" validate:"max=4000"`
	Geo                  *GeoInput `json:"geo" validate:"omitempty"`
	ClearLocation        bool      `json:"clearLocation"`
}

// Apply copies the input onto p.
func (in *VendorProfileInput) Apply(p *VendorProfile) {
	p.CompanyName = strings.TrimSpace(in.CompanyName)
	p.Description = in.Description
	p.ServiceCategoriesCSV = in.ServiceCategoriesCSV
	p.SuitableForCSV = in.SuitableForCSV
	p.VenueType = in.VenueType
	p.Capacity = in.Capacity
	p.Amenities = in.Amenities
	p.PriceRange = in.PriceRange
	p.PhoneNumber = in.PhoneNumber
	p.Website = in.Website
	p.SocialMediaLinks = in.SocialMediaLinks
	p.WorkingHours = in.WorkingHours
	p.PhotoURLs = in.PhotoURLs
}

type RatingInput struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

type ReviewInput struct {
	Comment string `json:"comment" validate:"required,max=1000"`
}

type QuestionInput struct {
	Question string `json:"question" validate:"required,max=500"`
}

type AnswerInput struct {
	Answer string `json:"answer" validate:"required,max=1000"`
}
