package market

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventmarket/internal/ports"
	"eventmarket/models"

	"github.com/google/uuid"
)

// CreateListing stores a listing with all its items as one unit, then pins
// its location when one is given.
func (s *Service) CreateListing(ctx context.Context, caller models.Caller, in models.CreateListingInput) (uuid.UUID, error) {
	if err := requireRole(caller, models.RoleUser, "create listings"); err != nil {
		return uuid.Nil, err
	}

	in.Normalize()
	if len(in.Items) == 0 {
		return uuid.Nil, fmt.Errorf("%w: a listing needs at least one item", models.ErrValidation)
	}
	if err := models.Validate(in); err != nil {
		return uuid.Nil, err
	}

	eventDay := dateOnly(in.EventDate)
	if !eventDay.After(dateOnly(s.now().UTC())) {
		return uuid.Nil, fmt.Errorf("%w: event date must be after today", models.ErrValidation)
	}

	l := &models.Listing{
		ID:              uuid.New(),
		Title:           in.Title,
		Description:     in.Description,
		EventDate:       eventDay,
		Location:        in.Location,
		CreatedByUserID: caller.UserID,
		Status:          models.ListingOpen,
		Visibility:      models.VisibilityActive,
		Items:           make([]models.ListingItem, 0, len(in.Items)),
	}
	for _, it := range in.Items {
		l.Items = append(l.Items, models.ListingItem{
			ID:         uuid.New(),
			ListingID:  l.ID,
			CategoryID: it.CategoryID,
			Budget:     it.Budget,
			Status:     models.ItemOpen,
		})
	}

	err := s.store.Atomic(ctx, func(tx ports.MarketStore) error {
		return tx.InsertListing(ctx, l)
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("create listing: %w", err)
	}

	s.log.Info("listing created",
		slog.String("listing_id", l.ID.String()),
		slog.String("user_id", caller.UserID.String()),
		slog.Int("items", len(l.Items)),
	)

	if g := in.Geo; g != nil {
		s.pin(ctx, models.Place{
			RefType:      models.EntityListing,
			RefID:        l.ID.String(),
			Latitude:     g.Latitude,
			Longitude:    g.Longitude,
			Radius:       g.Radius,
			AddressLabel: g.AddressLabel,
		})
	}
	return l.ID, nil
}

// SetVisibility changes whether the caller's listing is discoverable. It
// does not affect the allocation status.
func (s *Service) SetVisibility(ctx context.Context, caller models.Caller, id uuid.UUID, v models.Visibility) error {
	if !v.Valid() {
		return fmt.Errorf("%w: unknown visibility %q", models.ErrValidation, v)
	}
	if err := s.store.SetListingVisibility(ctx, id, caller.UserID, v); err != nil {
		return fmt.Errorf("set visibility: %w", err)
	}
	s.log.Info("listing visibility changed",
		slog.String("listing_id", id.String()),
		slog.String("visibility", string(v)),
	)
	return nil
}

// GetListing returns an active listing with its location, if any.
func (s *Service) GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	l, err := s.store.GetListing(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}
	if l.Visibility != models.VisibilityActive {
		return nil, fmt.Errorf("%w: listing %s", models.ErrNotFound, id)
	}
	l.Place = s.place(ctx, models.EntityListing, l.ID.String())
	return l, nil
}

// BrowseListings returns open, active listings newest first.
func (s *Service) BrowseListings(ctx context.Context, f models.ListingFilter) ([]models.Listing, error) {
	f.Limit, f.Offset = clampPage(f.Limit, f.Offset)
	list, err := s.store.BrowseListings(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("browse listings: %w", err)
	}
	for i := range list {
		list[i].Place = s.place(ctx, models.EntityListing, list[i].ID.String())
	}
	return list, nil
}

func (s *Service) MyListings(ctx context.Context, caller models.Caller) ([]models.Listing, error) {
	list, err := s.store.ListingsByOwner(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("my listings: %w", err)
	}
	return list, nil
}

// AdminListings is the moderation view: listings of every visibility,
// optionally narrowed by visibility and a text term matched against title,
// description, location and owner name.
func (s *Service) AdminListings(ctx context.Context, caller models.Caller, f models.AdminListingFilter) ([]models.Listing, error) {
	if err := requireRole(caller, models.RoleAdmin, "moderate listings"); err != nil {
		return nil, err
	}
	if f.Visibility != "" && !f.Visibility.Valid() {
		return nil, fmt.Errorf("%w: unknown visibility %q", models.ErrValidation, f.Visibility)
	}
	f.Text = strings.TrimSpace(f.Text)

	list, err := s.store.AdminListings(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("admin listings: %w", err)
	}
	for i := range list {
		list[i].Place = s.place(ctx, models.EntityListing, list[i].ID.String())
	}
	return list, nil
}

// dateOnly keeps the calendar date of t as seen in t's own location.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
