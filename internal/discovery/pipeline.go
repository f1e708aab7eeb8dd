// Package discovery builds the vendor map: vendor profiles joined with
// rating aggregates and pinned locations, filtered and ranked.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"eventmarket/internal/ports"
	"eventmarket/internal/pricerange"
	"eventmarket/models"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Filters narrow the vendor map. Empty fields and nil bounds match all.
type Filters struct {
	Text      string
	Location  string
	Purpose   string
	Category  string
	Service   string
	MinBudget *float64
	MaxBudget *float64
}

func (f Filters) budgetSet() bool { return f.MinBudget != nil || f.MaxBudget != nil }

// Cache holds the projected, unfiltered candidate list.
type Cache interface {
	Get(ctx context.Context) ([]models.VendorMapItem, bool, error)
	Set(ctx context.Context, items []models.VendorMapItem) error
	Invalidate(ctx context.Context) error
}

type Pipeline struct {
	store  ports.DiscoveryStore
	geo    ports.GeoDirectory
	cache  Cache
	locale language.Tag
	log    *slog.Logger
}

// NewPipeline wires discovery. cache may be nil. A nil geo directory means
// no vendor has a location, so every search comes back empty.
func NewPipeline(store ports.DiscoveryStore, geo ports.GeoDirectory, cache Cache, locale language.Tag, log *slog.Logger) *Pipeline {
	return &Pipeline{
		store:  store,
		geo:    geo,
		cache:  cache,
		locale: locale,
		log:    log.With(slog.String("component", "discovery")),
	}
}

// FindVendors returns the pinned vendors matching every filter, verified
// vendors first, then by company name.
func (p *Pipeline) FindVendors(ctx context.Context, f Filters) ([]models.VendorMapItem, error) {
	all, err := p.candidates(ctx)
	if err != nil {
		return nil, err
	}

	m := newMatcher(f)
	out := make([]models.VendorMapItem, 0, len(all))
	for _, it := range all {
		if m.match(it) {
			out = append(out, it)
		}
	}
	sortVendors(out, p.locale)
	return out, nil
}

// Invalidate drops cached candidates so the next search reloads them.
func (p *Pipeline) Invalidate(ctx context.Context) error {
	if p.cache == nil {
		return nil
	}
	return p.cache.Invalidate(ctx)
}

func (p *Pipeline) candidates(ctx context.Context) ([]models.VendorMapItem, error) {
	if p.cache != nil {
		items, ok, err := p.cache.Get(ctx)
		switch {
		case err != nil:
			p.log.Warn("candidate cache read failed", slog.Any("error", err))
		case ok:
			return items, nil
		}
	}

	records, err := p.store.VendorRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load vendors: %w", err)
	}
	ids := make([]uuid.UUID, len(records))
	for i, r := range records {
		ids[i] = r.UserID
	}
	ratings, err := p.store.RatingAggregates(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}

	places, ok := p.places(ctx)
	if !ok {
		return nil, nil
	}

	items := make([]models.VendorMapItem, 0, len(records))
	for _, r := range records {
		place, pinned := places[r.UserID]
		if !pinned {
			continue
		}
		items = append(items, project(r, ratings[r.UserID], place))
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, items); err != nil {
			p.log.Warn("candidate cache write failed", slog.Any("error", err))
		}
	}
	return items, nil
}

// places indexes vendor locations by user id. ok is false when the
// directory could not be read.
func (p *Pipeline) places(ctx context.Context) (map[uuid.UUID]models.Place, bool) {
	if p.geo == nil {
		return nil, false
	}
	list, err := p.geo.ListByType(ctx, models.EntityVendor)
	if err != nil {
		p.log.Warn("geo listing failed, no vendor can be placed", slog.Any("error", err))
		return nil, false
	}
	out := make(map[uuid.UUID]models.Place, len(list))
	for _, pl := range list {
		id, err := uuid.Parse(strings.TrimSpace(pl.RefID))
		if err != nil {
			continue
		}
		out[id] = pl
	}
	return out, true
}

func project(r models.VendorRecord, agg models.RatingAggregate, pl models.Place) models.VendorMapItem {
	display := r.DisplayName
	if strings.TrimSpace(display) == "" {
		display = r.CompanyName
	}
	return models.VendorMapItem{
		UserID:            r.UserID,
		ProfileID:         r.ID,
		CompanyName:       r.CompanyName,
		DisplayName:       display,
		ServiceCategories: splitList(r.ServiceCategoriesCSV),
		SuitableFor:       splitList(r.SuitableForCSV),
		IsVerified:        r.IsVerified,
		VenueType:         r.VenueType,
		Capacity:          r.Capacity,
		Amenities:         r.Amenities,
		PriceRange:        r.PriceRange,
		PhoneNumber:       r.PhoneNumber,
		Website:           r.Website,
		CoverPhotoURL:     coverPhoto(r.PhotoURLs),
		RatingAverage:     agg.Average,
		RatingCount:       agg.Count,
		Latitude:          pl.Latitude,
		Longitude:         pl.Longitude,
		Radius:            pl.Radius,
		AddressLabel:      pl.AddressLabel,
	}
}

// splitList splits a comma-separated list, trimming entries and dropping
// empty ones.
func splitList(csv string) []string {
	out := []string{}
	for _, part := range strings.Split(csv, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// coverPhoto returns the first photo URL. The stored list is either a JSON
// array or comma-separated.
func coverPhoto(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "[") {
		var urls []string
		if err := json.Unmarshal([]byte(raw), &urls); err == nil {
			for _, u := range urls {
				if u = strings.TrimSpace(u); u != "" {
					return u
				}
			}
			return ""
		}
	}
	if list := splitList(raw); len(list) > 0 {
		return list[0]
	}
	return ""
}

func sortVendors(items []models.VendorMapItem, locale language.Tag) {
	col := collate.New(locale, collate.IgnoreCase)
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.IsVerified != b.IsVerified {
			return a.IsVerified
		}
		return col.CompareString(a.CompanyName, b.CompanyName) < 0
	})
}

// matcher applies Filters with Unicode case folding. A Caser keeps state,
// so each search builds its own.
type matcher struct {
	f     Filters
	fold  cases.Caser
	terms map[string]string
}

func newMatcher(f Filters) *matcher {
	m := &matcher{f: f, fold: cases.Fold()}
	m.terms = map[string]string{
		"text":     m.norm(f.Text),
		"location": m.norm(f.Location),
		"purpose":  m.norm(f.Purpose),
		"category": m.norm(f.Category),
		"service":  m.norm(f.Service),
	}
	return m
}

func (m *matcher) norm(s string) string {
	return m.fold.String(strings.TrimSpace(s))
}

func (m *matcher) has(field, term string) bool {
	return strings.Contains(m.norm(field), term)
}

func (m *matcher) anyOf(list []string, term string) bool {
	for _, s := range list {
		if m.has(s, term) {
			return true
		}
	}
	return false
}

func (m *matcher) match(it models.VendorMapItem) bool {
	if t := m.terms["text"]; t != "" {
		if !m.has(it.CompanyName, t) && !m.has(it.DisplayName, t) &&
			!m.has(it.VenueType, t) && !m.anyOf(it.ServiceCategories, t) {
			return false
		}
	}
	if t := m.terms["location"]; t != "" && !m.has(it.AddressLabel, t) {
		return false
	}
	if t := m.terms["purpose"]; t != "" && !m.anyOf(it.SuitableFor, t) {
		return false
	}
	if t := m.terms["category"]; t != "" {
		if !m.anyOf(it.ServiceCategories, t) && !m.has(it.VenueType, t) {
			return false
		}
	}
	if t := m.terms["service"]; t != "" {
		if !m.has(it.Amenities, t) && !m.anyOf(it.ServiceCategories, t) {
			return false
		}
	}
	if m.f.budgetSet() {
		r, ok := pricerange.Parse(it.PriceRange)
		if !ok {
			return false
		}
		lo, hi := pricerange.OpenBounds(m.f.MinBudget, m.f.MaxBudget)
		if !r.Overlaps(lo, hi) {
			return false
		}
	}
	return true
}
