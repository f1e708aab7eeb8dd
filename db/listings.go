package db

import (
	"context"
	"fmt"
	"strings"

	"eventmarket/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const listingColumns = `
    l.id, l.title, l.description, l.event_date, l.location, l.created_by_user_id,
    COALESCE(NULLIF(u.display_name, ''), u.email, '') AS owner_name,
    l.status, l.visibility, l.created_at`

const listingFrom = `
    FROM listings l
    LEFT JOIN users u ON u.id = l.created_by_user_id`

func (s *Storage) InsertListing(ctx context.Context, l *models.Listing) error {
	query := `
        INSERT INTO listings
            (id, title, description, event_date, location, created_by_user_id, status, visibility)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING created_at`
	err := s.q.QueryRowxContext(ctx, query,
		l.ID, l.Title, l.Description, l.EventDate, l.Location, l.CreatedByUserID, l.Status, l.Visibility).
		Scan(&l.CreatedAt)
	if err != nil {
		return storeErr(err, "insert listing")
	}

	itemQuery := `
        INSERT INTO listing_items (id, listing_id, category_id, budget, status)
        VALUES ($1, $2, $3, $4, $5)`
	for _, it := range l.Items {
		if _, err := s.q.ExecContext(ctx, itemQuery, it.ID, l.ID, it.CategoryID, it.Budget, it.Status); err != nil {
			return storeErr(err, "insert listing item")
		}
	}
	return nil
}

func (s *Storage) GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	return s.loadListing(ctx, `SELECT`+listingColumns+listingFrom+` WHERE l.id = $1`, id)
}

func (s *Storage) LockListing(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	return s.loadListing(ctx, `SELECT`+listingColumns+listingFrom+` WHERE l.id = $1 FOR UPDATE OF l`, id)
}

func (s *Storage) loadListing(ctx context.Context, query string, id uuid.UUID) (*models.Listing, error) {
	l := &models.Listing{}
	if err := sqlx.GetContext(ctx, s.q, l, query, id); err != nil {
		return nil, storeErr(err, "listing "+id.String())
	}
	list := []models.Listing{*l}
	if err := s.attachItems(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (s *Storage) SetListingVisibility(ctx context.Context, id, ownerID uuid.UUID, v models.Visibility) error {
	query := `UPDATE listings SET visibility = $1 WHERE id = $2 AND created_by_user_id = $3`
	res, err := s.q.ExecContext(ctx, query, v, id, ownerID)
	if err != nil {
		return storeErr(err, "set listing visibility")
	}
	return affected(res, "listing "+id.String())
}

func (s *Storage) SetListingStatus(ctx context.Context, id uuid.UUID, st models.ListingStatus) error {
	res, err := s.q.ExecContext(ctx, `UPDATE listings SET status = $1 WHERE id = $2`, st, id)
	if err != nil {
		return storeErr(err, "set listing status")
	}
	return affected(res, "listing "+id.String())
}

func (s *Storage) SetItemsStatus(ctx context.Context, ids []uuid.UUID, st models.ItemStatus) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE listing_items SET status = $1 WHERE id = ANY($2::uuid[])`
	if _, err := s.q.ExecContext(ctx, query, st, idArray(ids)); err != nil {
		return storeErr(err, "set item status")
	}
	return nil
}

// BrowseListings returns open, active listings newest first.
func (s *Storage) BrowseListings(ctx context.Context, f models.ListingFilter) ([]models.Listing, error) {
	var (
		where = []string{"l.status = 'Open'", "l.visibility = 'Active'"}
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.CategoryID > 0 {
		where = append(where, "EXISTS (SELECT 1 FROM listing_items i WHERE i.listing_id = l.id AND i.category_id = "+arg(f.CategoryID)+")")
	}
	if t := strings.TrimSpace(f.Text); t != "" {
		p := arg("%" + t + "%")
		where = append(where, "(l.title ILIKE "+p+" OR l.description ILIKE "+p+")")
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		where = append(where, "l.location ILIKE "+arg("%"+loc+"%"))
	}

	query := `SELECT` + listingColumns + listingFrom +
		` WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY l.created_at DESC LIMIT ` + arg(f.Limit) + ` OFFSET ` + arg(f.Offset)

	return s.selectListings(ctx, query, args...)
}

// ListingsByOwner returns every listing of the owner that is not deleted.
func (s *Storage) ListingsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Listing, error) {
	query := `SELECT` + listingColumns + listingFrom + `
        WHERE l.created_by_user_id = $1 AND l.visibility <> 'Deleted'
        ORDER BY l.created_at DESC`
	return s.selectListings(ctx, query, ownerID)
}

// AdminListings returns listings of any visibility for moderation, newest
// first and capped at adminLimit.
func (s *Storage) AdminListings(ctx context.Context, f models.AdminListingFilter) ([]models.Listing, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Visibility != "" {
		where = append(where, "l.visibility = "+arg(f.Visibility))
	}
	if t := strings.TrimSpace(f.Text); t != "" {
		p := arg("%" + t + "%")
		where = append(where, "(l.title ILIKE "+p+" OR l.description ILIKE "+p+
			" OR l.location ILIKE "+p+" OR COALESCE(NULLIF(u.display_name, ''), u.email, '') ILIKE "+p+")")
	}

	query := `SELECT` + listingColumns + listingFrom
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY l.created_at DESC LIMIT ` + arg(adminLimit)

	return s.selectListings(ctx, query, args...)
}

func (s *Storage) selectListings(ctx context.Context, query string, args ...any) ([]models.Listing, error) {
	var list []models.Listing
	if err := sqlx.SelectContext(ctx, s.q, &list, query, args...); err != nil {
		return nil, storeErr(err, "select listings")
	}
	if err := s.attachItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// attachItems loads items for all listings in one query.
func (s *Storage) attachItems(ctx context.Context, list []models.Listing) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(list))
	index := make(map[uuid.UUID]int, len(list))
	for i := range list {
		ids[i] = list[i].ID
		index[list[i].ID] = i
		list[i].Items = []models.ListingItem{}
	}

	query := `
        SELECT i.id, i.listing_id, i.category_id, COALESCE(c.name, '') AS category_name, i.budget, i.status
        FROM listing_items i
        LEFT JOIN service_categories c ON c.id = i.category_id
        WHERE i.listing_id = ANY($1::uuid[])
        ORDER BY i.listing_id, c.name, i.id`
	var items []models.ListingItem
	if err := sqlx.SelectContext(ctx, s.q, &items, query, idArray(ids)); err != nil {
		return storeErr(err, "select listing items")
	}
	for _, it := range items {
		i := index[it.ListingID]
		list[i].Items = append(list[i].Items, it)
	}
	return nil
}
