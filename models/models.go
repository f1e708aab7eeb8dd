package models

import (
	"time"

	"github.com/google/uuid"
)

// Listing is an organizer's request for event services, split into items.
type Listing struct {
	ID              uuid.UUID     `db:"id" json:"id"`
	Title           string        `db:"title" json:"title"`
	Description     string        `db:"description" json:"description"`
	EventDate       time.Time     `db:"event_date" json:"eventDate"`
	Location        string        `db:"location" json:"location"`
	CreatedByUserID uuid.UUID     `db:"created_by_user_id" json:"createdByUserId"`
	OwnerName       string        `db:"owner_name" json:"ownerDisplayName"`
	Status          ListingStatus `db:"status" json:"status"`
	Visibility      Visibility    `db:"visibility" json:"visibility"`
	CreatedAt       time.Time     `db:"created_at" json:"createdAtUtc"`
	Items           []ListingItem `db:"-" json:"items"`
	Place           *Place        `db:"-" json:"place,omitempty"`
}

// Item returns the listing item with the given id, or nil.
func (l *Listing) Item(id uuid.UUID) *ListingItem {
	for i := range l.Items {
		if l.Items[i].ID == id {
			return &l.Items[i]
		}
	}
	return nil
}

// AllAwarded reports whether the listing has items and every one is awarded.
func (l *Listing) AllAwarded() bool {
	if len(l.Items) == 0 {
		return false
	}
	for _, it := range l.Items {
		if it.Status != ItemAwarded {
			return false
		}
	}
	return true
}

// TotalBudget sums the advisory budgets of all items.
func (l *Listing) TotalBudget() float64 {
	var total float64
	for _, it := range l.Items {
		total += it.Budget
	}
	return total
}

// ListingItem is one category-scoped budget line of a listing.
type ListingItem struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	ListingID    uuid.UUID  `db:"listing_id" json:"listingId"`
	CategoryID   int        `db:"category_id" json:"categoryId"`
	CategoryName string     `db:"category_name" json:"categoryName"`
	Budget       float64    `db:"budget" json:"budget"`
	Status       ItemStatus `db:"status" json:"status"`
}

// Bid is a vendor's proposal covering a subset of a listing's items.
// Amount is derived from Items, see Recompute.
type Bid struct {
	ID           uuid.UUID `db:"id" json:"id"`
	ListingID    uuid.UUID `db:"listing_id" json:"listingId"`
	VendorUserID uuid.UUID `db:"vendor_user_id" json:"vendorUserId"`
	VendorName   string    `db:"vendor_name" json:"vendorName"`
	Amount       float64   `db:"amount" json:"totalAmount"`
	Message      string    `db:"message" json:"message"`
	Status       BidStatus `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"createdAtUtc"`
	Items        []BidItem `db:"-" json:"items"`
}

// Recompute sets Amount to the sum of the item amounts.
func (b *Bid) Recompute() {
	var total float64
	for _, it := range b.Items {
		total += it.Amount
	}
	b.Amount = total
}

// BidItem is the vendor's price for exactly one listing item.
type BidItem struct {
	ID            uuid.UUID `db:"id" json:"id"`
	BidID         uuid.UUID `db:"bid_id" json:"bidId"`
	ListingItemID uuid.UUID `db:"listing_item_id" json:"listingItemId"`
	Amount        float64   `db:"amount" json:"amount"`
}

type ServiceCategory struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// User is read-only here; accounts are managed by the auth service.
type User struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Email       string    `db:"email" json:"email"`
	DisplayName string    `db:"display_name" json:"displayName"`
	Role        Role      `db:"role" json:"role"`
}

// Name is the display name, falling back to the email.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}

// Caller is the already-authenticated identity an operation runs as.
type Caller struct {
	UserID uuid.UUID
	Role   Role
}

func (c Caller) Is(r Role) bool { return c.Role == r }

// ListingFilter narrows the public listing browse.
type ListingFilter struct {
	CategoryID int
	Text       string
	Location   string
	Limit      int
	Offset     int
}

// AdminListingFilter narrows the moderation view, which covers every
// visibility. An empty Visibility matches all.
type AdminListingFilter struct {
	Visibility Visibility
	Text       string
}
