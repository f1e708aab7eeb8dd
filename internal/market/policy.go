package market

import (
	"fmt"
	"strings"

	"eventmarket/models"

	"github.com/google/uuid"
)

// AwardPolicy decides what happens when an accepted bid covers items that
// another bid already won.
type AwardPolicy string

const (
	// PolicyPermissive lets a later bid award an already awarded item again.
	// Competing bids are left untouched.
	PolicyPermissive AwardPolicy = "permissive"
	// PolicyBlockReaward rejects the accept when any covered item is already
	// awarded.
	PolicyBlockReaward AwardPolicy = "block-reaward"
)

func ParseAwardPolicy(s string) (AwardPolicy, error) {
	switch p := AwardPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyPermissive, nil
	case PolicyPermissive, PolicyBlockReaward:
		return p, nil
	}
	return "", fmt.Errorf("unknown award policy %q", s)
}

// settlement is the set of writes an accepted bid produces.
type settlement struct {
	acceptBid      bool
	awardItems     []uuid.UUID
	listingAwarded bool
}

func (st settlement) empty() bool {
	return !st.acceptBid && len(st.awardItems) == 0 && !st.listingAwarded
}

// settle computes the effect of accepting b on the open listing l and applies
// it to l in memory. It never touches l when it returns an error.
func settle(l *models.Listing, b *models.Bid, policy AwardPolicy) (settlement, error) {
	var st settlement

	switch b.Status {
	case models.BidRejected:
		return st, fmt.Errorf("%w: bid %s was rejected", models.ErrConflict, b.ID)
	case models.BidAccepted:
		if policy == PolicyBlockReaward {
			return st, fmt.Errorf("%w: bid %s is already accepted", models.ErrConflict, b.ID)
		}
	default:
		st.acceptBid = true
	}

	if policy == PolicyBlockReaward {
		for _, bi := range b.Items {
			if it := l.Item(bi.ListingItemID); it != nil && it.Status == models.ItemAwarded {
				return settlement{}, fmt.Errorf("%w: item %s is already awarded", models.ErrConflict, it.ID)
			}
		}
	}

	for _, bi := range b.Items {
		it := l.Item(bi.ListingItemID)
		if it == nil || it.Status == models.ItemAwarded {
			continue
		}
		it.Status = models.ItemAwarded
		st.awardItems = append(st.awardItems, it.ID)
	}

	if l.AllAwarded() {
		l.Status = models.ListingAwarded
		st.listingAwarded = true
	}
	if st.acceptBid {
		b.Status = models.BidAccepted
	}
	return st, nil
}
