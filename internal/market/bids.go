package market

import (
	"context"
	"fmt"
	"log/slog"

	"eventmarket/internal/ports"
	"eventmarket/models"

	"github.com/google/uuid"
)

// CreateBid places a pending bid on an open listing. Items that do not
// belong to the listing are dropped, and so are repeated items after the
// first.
func (s *Service) CreateBid(ctx context.Context, caller models.Caller, in models.CreateBidInput) (uuid.UUID, error) {
	if err := requireRole(caller, models.RoleVendor, "bid"); err != nil {
		return uuid.Nil, err
	}

	var bid *models.Bid
	err := s.store.Atomic(ctx, func(tx ports.MarketStore) error {
		l, err := tx.LockListing(ctx, in.ListingID)
		if err != nil {
			return err
		}
		if l.CreatedByUserID == caller.UserID {
			return fmt.Errorf("%w: cannot bid on your own listing", models.ErrForbidden)
		}
		if l.Status != models.ListingOpen {
			return fmt.Errorf("%w: listing is %s", models.ErrConflict, l.Status)
		}
		if len(in.Items) == 0 {
			return fmt.Errorf("%w: a bid needs at least one item", models.ErrValidation)
		}

		kept := make([]models.BidItemInput, 0, len(in.Items))
		seen := make(map[uuid.UUID]struct{}, len(in.Items))
		for _, it := range in.Items {
			if l.Item(it.ListingItemID) == nil {
				continue
			}
			if _, dup := seen[it.ListingItemID]; dup {
				continue
			}
			seen[it.ListingItemID] = struct{}{}
			kept = append(kept, it)
		}
		if len(kept) == 0 {
			return fmt.Errorf("%w: no bid item matches the listing", models.ErrValidation)
		}
		// dropped items are not validated
		in.Items = kept
		if err := models.Validate(in); err != nil {
			return err
		}

		bid = &models.Bid{
			ID:           uuid.New(),
			ListingID:    l.ID,
			VendorUserID: caller.UserID,
			Message:      in.Message,
			Status:       models.BidPending,
		}
		for _, it := range kept {
			bid.Items = append(bid.Items, models.BidItem{
				ID:            uuid.New(),
				BidID:         bid.ID,
				ListingItemID: it.ListingItemID,
				Amount:        it.Amount,
			})
		}
		bid.Recompute()

		return tx.InsertBid(ctx, bid)
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("create bid: %w", err)
	}

	s.log.Info("bid created",
		slog.String("bid_id", bid.ID.String()),
		slog.String("listing_id", bid.ListingID.String()),
		slog.String("vendor_id", caller.UserID.String()),
		slog.Float64("amount", bid.Amount),
	)
	return bid.ID, nil
}

// AcceptBid awards the bid's items and, once every item of the listing is
// awarded, the listing itself. All reads and writes share one transaction
// that holds the listing lock.
func (s *Service) AcceptBid(ctx context.Context, caller models.Caller, bidID uuid.UUID) error {
	var (
		listingID uuid.UUID
		st        settlement
	)
	err := s.store.Atomic(ctx, func(tx ports.MarketStore) error {
		b, err := tx.GetBid(ctx, bidID)
		if err != nil {
			return err
		}
		l, err := tx.LockListing(ctx, b.ListingID)
		if err != nil {
			return err
		}
		listingID = l.ID
		if l.CreatedByUserID != caller.UserID {
			return fmt.Errorf("%w: only the listing owner can accept bids", models.ErrForbidden)
		}
		if l.Status != models.ListingOpen {
			return fmt.Errorf("%w: listing is %s", models.ErrConflict, l.Status)
		}

		// re-read under the lock
		if b, err = tx.GetBid(ctx, bidID); err != nil {
			return err
		}
		if st, err = settle(l, b, s.policy); err != nil {
			return err
		}
		if st.empty() {
			return nil
		}

		if st.acceptBid {
			if err := tx.SetBidStatus(ctx, b.ID, models.BidAccepted); err != nil {
				return err
			}
		}
		if err := tx.SetItemsStatus(ctx, st.awardItems, models.ItemAwarded); err != nil {
			return err
		}
		if st.listingAwarded {
			return tx.SetListingStatus(ctx, l.ID, models.ListingAwarded)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("accept bid: %w", err)
	}

	s.log.Info("bid accepted",
		slog.String("bid_id", bidID.String()),
		slog.String("listing_id", listingID.String()),
		slog.Int("items_awarded", len(st.awardItems)),
		slog.Bool("listing_awarded", st.listingAwarded),
	)
	return nil
}

// ListingBids returns all bids on the caller's listing, newest first.
func (s *Service) ListingBids(ctx context.Context, caller models.Caller, listingID uuid.UUID) ([]models.Bid, error) {
	l, err := s.store.GetListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("listing bids: %w", err)
	}
	if l.CreatedByUserID != caller.UserID {
		return nil, fmt.Errorf("%w: only the listing owner can view its bids", models.ErrForbidden)
	}
	bids, err := s.store.BidsForListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("listing bids: %w", err)
	}
	return bids, nil
}

func (s *Service) MyBids(ctx context.Context, caller models.Caller) ([]models.Bid, error) {
	if err := requireRole(caller, models.RoleVendor, "list their bids"); err != nil {
		return nil, err
	}
	bids, err := s.store.BidsByVendor(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("my bids: %w", err)
	}
	return bids, nil
}
