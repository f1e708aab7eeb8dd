package market

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"eventmarket/internal/geo"
	"eventmarket/internal/ports"
	"eventmarket/models"

	"github.com/google/uuid"
)

// memStore keeps listings and bids in maps. Atomic restores a snapshot when
// fn fails, mirroring a rollback.
type memStore struct {
	listings map[uuid.UUID]models.Listing
	bids     map[uuid.UUID]models.Bid
	clock    time.Time
	// failItems makes SetItemsStatus fail, to exercise rollback.
	failItems bool
}

func newMemStore() *memStore {
	return &memStore{
		listings: map[uuid.UUID]models.Listing{},
		bids:     map[uuid.UUID]models.Bid{},
		clock:    time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func cloneListing(l models.Listing) models.Listing {
	l.Items = append([]models.ListingItem(nil), l.Items...)
	return l
}

func cloneBid(b models.Bid) models.Bid {
	b.Items = append([]models.BidItem(nil), b.Items...)
	return b
}

func (m *memStore) snapshot() (map[uuid.UUID]models.Listing, map[uuid.UUID]models.Bid) {
	ls := make(map[uuid.UUID]models.Listing, len(m.listings))
	for k, v := range m.listings {
		ls[k] = cloneListing(v)
	}
	bs := make(map[uuid.UUID]models.Bid, len(m.bids))
	for k, v := range m.bids {
		bs[k] = cloneBid(v)
	}
	return ls, bs
}

func (m *memStore) Atomic(ctx context.Context, fn func(tx ports.MarketStore) error) error {
	ls, bs := m.snapshot()
	if err := fn(m); err != nil {
		m.listings, m.bids = ls, bs
		return err
	}
	return nil
}

func (m *memStore) InsertListing(ctx context.Context, l *models.Listing) error {
	l.CreatedAt = m.tick()
	m.listings[l.ID] = cloneListing(*l)
	return nil
}

func (m *memStore) GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	l, ok := m.listings[id]
	if !ok {
		return nil, fmt.Errorf("%w: listing %s", models.ErrNotFound, id)
	}
	c := cloneListing(l)
	return &c, nil
}

func (m *memStore) LockListing(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	return m.GetListing(ctx, id)
}

func (m *memStore) SetListingVisibility(ctx context.Context, id, ownerID uuid.UUID, v models.Visibility) error {
	l, ok := m.listings[id]
	if !ok || l.CreatedByUserID != ownerID {
		return fmt.Errorf("%w: listing %s", models.ErrNotFound, id)
	}
	l.Visibility = v
	m.listings[id] = l
	return nil
}

func (m *memStore) SetListingStatus(ctx context.Context, id uuid.UUID, s models.ListingStatus) error {
	l, ok := m.listings[id]
	if !ok {
		return fmt.Errorf("%w: listing %s", models.ErrNotFound, id)
	}
	l.Status = s
	m.listings[id] = l
	return nil
}

func (m *memStore) SetItemsStatus(ctx context.Context, ids []uuid.UUID, s models.ItemStatus) error {
	if m.failItems {
		return errors.New("disk full")
	}
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	for lid, l := range m.listings {
		for i := range l.Items {
			if want[l.Items[i].ID] {
				l.Items[i].Status = s
			}
		}
		m.listings[lid] = l
	}
	return nil
}

func (m *memStore) BrowseListings(ctx context.Context, f models.ListingFilter) ([]models.Listing, error) {
	var out []models.Listing
	for _, l := range m.listings {
		if l.Status == models.ListingOpen && l.Visibility == models.VisibilityActive {
			out = append(out, cloneListing(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Offset >= len(out) {
		return nil, nil
	}
	out = out[f.Offset:]
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memStore) ListingsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Listing, error) {
	var out []models.Listing
	for _, l := range m.listings {
		if l.CreatedByUserID == ownerID && l.Visibility != models.VisibilityDeleted {
			out = append(out, cloneListing(l))
		}
	}
	return out, nil
}

func (m *memStore) AdminListings(ctx context.Context, f models.AdminListingFilter) ([]models.Listing, error) {
	term := strings.ToLower(f.Text)
	var out []models.Listing
	for _, l := range m.listings {
		if f.Visibility != "" && l.Visibility != f.Visibility {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(l.Title+"\n"+l.Description+"\n"+l.Location+"\n"+l.OwnerName), term) {
			continue
		}
		out = append(out, cloneListing(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) InsertBid(ctx context.Context, b *models.Bid) error {
	b.CreatedAt = m.tick()
	m.bids[b.ID] = cloneBid(*b)
	return nil
}

func (m *memStore) GetBid(ctx context.Context, id uuid.UUID) (*models.Bid, error) {
	b, ok := m.bids[id]
	if !ok {
		return nil, fmt.Errorf("%w: bid %s", models.ErrNotFound, id)
	}
	c := cloneBid(b)
	return &c, nil
}

func (m *memStore) SetBidStatus(ctx context.Context, id uuid.UUID, s models.BidStatus) error {
	b, ok := m.bids[id]
	if !ok {
		return fmt.Errorf("%w: bid %s", models.ErrNotFound, id)
	}
	b.Status = s
	m.bids[id] = b
	return nil
}

func (m *memStore) BidsForListing(ctx context.Context, listingID uuid.UUID) ([]models.Bid, error) {
	return m.filterBids(func(b models.Bid) bool { return b.ListingID == listingID }), nil
}

func (m *memStore) BidsByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Bid, error) {
	return m.filterBids(func(b models.Bid) bool { return b.VendorUserID == vendorID }), nil
}

func (m *memStore) filterBids(keep func(models.Bid) bool) []models.Bid {
	var out []models.Bid
	for _, b := range m.bids {
		if keep(b) {
			out = append(out, cloneBid(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// fakeGeo records upserts and can be made to fail.
type fakeGeo struct {
	places map[string]models.Place
	fail   bool
}

func newFakeGeo() *fakeGeo {
	return &fakeGeo{places: map[string]models.Place{}}
}

func geoKey(typ models.EntityType, id string) string { return string(typ) + "/" + id }

func (g *fakeGeo) Upsert(ctx context.Context, p models.Place) (*models.Place, error) {
	if g.fail {
		return nil, geo.ErrUnavailable
	}
	p.ID = uuid.NewString()
	g.places[geoKey(p.RefType, p.RefID)] = p
	return &p, nil
}

func (g *fakeGeo) GetByRef(ctx context.Context, typ models.EntityType, id string) (*models.Place, error) {
	if g.fail {
		return nil, geo.ErrUnavailable
	}
	p, ok := g.places[geoKey(typ, id)]
	if !ok {
		return nil, geo.ErrNotFound
	}
	return &p, nil
}

func (g *fakeGeo) ListByType(ctx context.Context, typ models.EntityType) ([]models.Place, error) {
	if g.fail {
		return nil, geo.ErrUnavailable
	}
	var out []models.Place
	for _, p := range g.places {
		if p.RefType == typ {
			out = append(out, p)
		}
	}
	return out, nil
}

func (g *fakeGeo) Delete(ctx context.Context, typ models.EntityType, id string) error {
	if g.fail {
		return geo.ErrUnavailable
	}
	delete(g.places, geoKey(typ, id))
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
