// Package market implements the listing and bid lifecycle: creating
// listings, bidding on their items and settling accepted bids.
package market

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventmarket/internal/geo"
	"eventmarket/internal/ports"
	"eventmarket/models"
)

const (
	defaultPageLimit = 5
	maxPageLimit     = 50
)

type Service struct {
	store  ports.MarketStore
	geo    ports.GeoDirectory
	policy AwardPolicy
	log    *slog.Logger
	now    func() time.Time
}

// NewService wires the engine. geo may be nil, in which case listings are
// never pinned.
func NewService(store ports.MarketStore, geo ports.GeoDirectory, policy AwardPolicy, log *slog.Logger) *Service {
	if policy == "" {
		policy = PolicyPermissive
	}
	return &Service{
		store:  store,
		geo:    geo,
		policy: policy,
		log:    log.With(slog.String("component", "market")),
		now:    time.Now,
	}
}

// pin stores the listing location. Failures are logged and dropped, the
// listing itself is already committed.
func (s *Service) pin(ctx context.Context, p models.Place) {
	if s.geo == nil {
		return
	}
	if _, err := s.geo.Upsert(context.WithoutCancel(ctx), p); err != nil {
		s.log.Warn("geo upsert failed",
			slog.String("ref_type", string(p.RefType)),
			slog.String("ref_id", p.RefID),
			slog.Any("error", err),
		)
	}
}

// place looks up a pinned location, returning nil when there is none or the
// directory cannot be reached.
func (s *Service) place(ctx context.Context, typ models.EntityType, id string) *models.Place {
	if s.geo == nil {
		return nil
	}
	p, err := s.geo.GetByRef(ctx, typ, id)
	if err != nil {
		if !errors.Is(err, geo.ErrNotFound) {
			s.log.Warn("geo lookup failed",
				slog.String("ref_type", string(typ)),
				slog.String("ref_id", id),
				slog.Any("error", err),
			)
		}
		return nil
	}
	return p
}

func requireRole(c models.Caller, r models.Role, action string) error {
	if !c.Is(r) {
		return fmt.Errorf("%w: only %s accounts can %s", models.ErrForbidden, r, action)
	}
	return nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
