package db

import (
	"context"

	"eventmarket/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const bidSelect = `
    SELECT b.id, b.listing_id, b.vendor_user_id,
           COALESCE(NULLIF(vp.company_name, ''), NULLIF(u.display_name, ''), u.email, '') AS vendor_name,
           b.amount, b.message, b.status, b.created_at
    FROM bids b
    LEFT JOIN users u ON u.id = b.vendor_user_id
    LEFT JOIN vendor_profiles vp ON vp.user_id = b.vendor_user_id`

// InsertBid stores the bid and its items. Amount is written as computed by
// the caller.
func (s *Storage) InsertBid(ctx context.Context, b *models.Bid) error {
	query := `
        INSERT INTO bids (id, listing_id, vendor_user_id, amount, message, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at`
	err := s.q.QueryRowxContext(ctx, query,
		b.ID, b.ListingID, b.VendorUserID, b.Amount, b.Message, b.Status).
		Scan(&b.CreatedAt)
	if err != nil {
		return storeErr(err, "insert bid")
	}

	itemQuery := `
        INSERT INTO bid_items (id, bid_id, listing_item_id, amount)
        VALUES ($1, $2, $3, $4)`
	for _, it := range b.Items {
		if _, err := s.q.ExecContext(ctx, itemQuery, it.ID, b.ID, it.ListingItemID, it.Amount); err != nil {
			return storeErr(err, "insert bid item")
		}
	}
	return nil
}

func (s *Storage) GetBid(ctx context.Context, id uuid.UUID) (*models.Bid, error) {
	b := &models.Bid{}
	if err := sqlx.GetContext(ctx, s.q, b, bidSelect+` WHERE b.id = $1`, id); err != nil {
		return nil, storeErr(err, "bid "+id.String())
	}
	list := []models.Bid{*b}
	if err := s.attachBidItems(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (s *Storage) SetBidStatus(ctx context.Context, id uuid.UUID, st models.BidStatus) error {
	res, err := s.q.ExecContext(ctx, `UPDATE bids SET status = $1 WHERE id = $2`, st, id)
	if err != nil {
		return storeErr(err, "set bid status")
	}
	return affected(res, "bid "+id.String())
}

func (s *Storage) BidsForListing(ctx context.Context, listingID uuid.UUID) ([]models.Bid, error) {
	return s.selectBids(ctx, bidSelect+` WHERE b.listing_id = $1 ORDER BY b.created_at DESC`, listingID)
}

func (s *Storage) BidsByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Bid, error) {
	return s.selectBids(ctx, bidSelect+` WHERE b.vendor_user_id = $1 ORDER BY b.created_at DESC`, vendorID)
}

func (s *Storage) selectBids(ctx context.Context, query string, args ...any) ([]models.Bid, error) {
	var bids []models.Bid
	if err := sqlx.SelectContext(ctx, s.q, &bids, query, args...); err != nil {
		return nil, storeErr(err, "select bids")
	}
	if err := s.attachBidItems(ctx, bids); err != nil {
		return nil, err
	}
	return bids, nil
}

func (s *Storage) attachBidItems(ctx context.Context, bids []models.Bid) error {
	if len(bids) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(bids))
	index := make(map[uuid.UUID]int, len(bids))
	for i := range bids {
		ids[i] = bids[i].ID
		index[bids[i].ID] = i
		bids[i].Items = []models.BidItem{}
	}

	query := `
        SELECT id, bid_id, listing_item_id, amount
        FROM bid_items
        WHERE bid_id = ANY($1::uuid[])
        ORDER BY bid_id, id`
	var items []models.BidItem
	if err := sqlx.SelectContext(ctx, s.q, &items, query, idArray(ids)); err != nil {
		return storeErr(err, "select bid items")
	}
	for _, it := range items {
		i := index[it.BidID]
		bids[i].Items = append(bids[i].Items, it)
	}
	return nil
}
