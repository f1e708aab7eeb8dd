package market

import (
	"testing"

	"eventmarket/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAwardPolicy(t *testing.T) {
	p, err := ParseAwardPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyPermissive, p)

	p, err = ParseAwardPolicy(" Block-Reaward ")
	require.NoError(t, err)
	assert.Equal(t, PolicyBlockReaward, p)

	_, err = ParseAwardPolicy("auto-reject")
	require.Error(t, err)
}

func TestSettle_LeavesListingUntouchedOnError(t *testing.T) {
	item := models.ListingItem{ID: uuid.New(), Status: models.ItemAwarded}
	open := models.ListingItem{ID: uuid.New(), Status: models.ItemOpen}
	l := &models.Listing{Status: models.ListingOpen, Items: []models.ListingItem{item, open}}
	b := &models.Bid{ID: uuid.New(), Status: models.BidPending, Items: []models.BidItem{
		{ListingItemID: open.ID}, {ListingItemID: item.ID},
	}}

	_, err := settle(l, b, PolicyBlockReaward)
	require.ErrorIs(t, err, models.ErrConflict)
	assert.Equal(t, models.ItemOpen, l.Items[1].Status)
	assert.Equal(t, models.ListingOpen, l.Status)
	assert.Equal(t, models.BidPending, b.Status)

	st, err := settle(l, b, PolicyPermissive)
	require.NoError(t, err)
	assert.True(t, st.acceptBid)
	assert.Equal(t, []uuid.UUID{open.ID}, st.awardItems)
	assert.True(t, st.listingAwarded)
	assert.Equal(t, models.ListingAwarded, l.Status)
}

func TestSettle_RejectedBid(t *testing.T) {
	l := &models.Listing{Status: models.ListingOpen, Items: []models.ListingItem{{ID: uuid.New()}}}
	b := &models.Bid{Status: models.BidRejected}
	_, err := settle(l, b, PolicyPermissive)
	require.ErrorIs(t, err, models.ErrConflict)
}
