// Package vendors manages vendor profiles and the feedback users leave on
// them.
package vendors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"eventmarket/internal/geo"
	"eventmarket/internal/ports"
	"eventmarket/models"

	"github.com/google/uuid"
)

type Service struct {
	store ports.VendorStore
	geo   ports.GeoDirectory
	cache ports.CacheInvalidator
	log   *slog.Logger
}

// NewService wires vendor records. geo and cache may be nil.
func NewService(store ports.VendorStore, geo ports.GeoDirectory, cache ports.CacheInvalidator, log *slog.Logger) *Service {
	return &Service{
		store: store,
		geo:   geo,
		cache: cache,
		log:   log.With(slog.String("component", "vendors")),
	}
}

// GetProfile returns the caller's profile, creating an empty one named after
// the account when none exists yet.
func (s *Service) GetProfile(ctx context.Context, caller models.Caller) (*models.VendorProfile, error) {
	if !caller.Is(models.RoleVendor) {
		return nil, fmt.Errorf("%w: only vendors have a profile", models.ErrForbidden)
	}

	p, err := s.store.GetVendorProfile(ctx, caller.UserID)
	if errors.Is(err, models.ErrNotFound) {
		p, err = s.createDefault(ctx, caller.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	p.Place = s.place(ctx, caller.UserID)
	return p, nil
}

func (s *Service) createDefault(ctx context.Context, userID uuid.UUID) (*models.VendorProfile, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := &models.VendorProfile{ID: uuid.New(), UserID: userID, CompanyName: u.Name()}
	if err := s.store.UpsertVendorProfile(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("vendor profile created", slog.String("user_id", userID.String()))
	return p, nil
}

// UpsertProfile writes the caller's profile, then updates or clears its pin.
func (s *Service) UpsertProfile(ctx context.Context, caller models.Caller, in models.VendorProfileInput) (*models.VendorProfile, error) {
	if !caller.Is(models.RoleVendor) {
		return nil, fmt.Errorf("%w: only vendors have a profile", models.ErrForbidden)
	}
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	if err := models.Validate(in); err != nil {
		return nil, err
	}

	p := &models.VendorProfile{ID: uuid.New(), UserID: caller.UserID}
	in.Apply(p)
	if err := s.store.UpsertVendorProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	s.log.Info("vendor profile saved", slog.String("user_id", caller.UserID.String()))

	ref := caller.UserID.String()
	switch {
	case in.Geo != nil && s.geo != nil:
		place, err := s.geo.Upsert(context.WithoutCancel(ctx), models.Place{
			RefType:      models.EntityVendor,
			RefID:        ref,
			Latitude:     in.Geo.Latitude,
			Longitude:    in.Geo.Longitude,
			Radius:       in.Geo.Radius,
			AddressLabel: in.Geo.AddressLabel,
		})
		if err != nil {
			s.log.Warn("geo upsert failed", slog.String("ref_id", ref), slog.Any("error", err))
		} else {
			p.Place = place
		}
	case in.ClearLocation && s.geo != nil:
		err := s.geo.Delete(context.WithoutCancel(ctx), models.EntityVendor, ref)
		if err != nil && !errors.Is(err, geo.ErrNotFound) {
			s.log.Warn("geo delete failed", slog.String("ref_id", ref), slog.Any("error", err))
		}
	default:
		p.Place = s.place(ctx, caller.UserID)
	}

	s.invalidate(ctx)
	return p, nil
}

// Rate records the caller's 1..5 rating of a vendor, replacing any earlier
// one.
func (s *Service) Rate(ctx context.Context, caller models.Caller, vendorID uuid.UUID, in models.RatingInput) error {
	if caller.UserID == vendorID {
		return fmt.Errorf("%w: vendors cannot rate themselves", models.ErrForbidden)
	}
	if err := models.Validate(in); err != nil {
		return err
	}
	if err := s.requireVendor(ctx, vendorID); err != nil {
		return err
	}

	r := &models.Rating{ID: uuid.New(), VendorUserID: vendorID, UserID: caller.UserID, Rating: in.Rating}
	if err := s.store.UpsertRating(ctx, r); err != nil {
		return fmt.Errorf("rate vendor: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

// Review records the caller's comment on a vendor, replacing any earlier
// one.
func (s *Service) Review(ctx context.Context, caller models.Caller, vendorID uuid.UUID, in models.ReviewInput) (*models.Review, error) {
	in.Comment = strings.TrimSpace(in.Comment)
	if err := models.Validate(in); err != nil {
		return nil, err
	}
	if err := s.requireVendor(ctx, vendorID); err != nil {
		return nil, err
	}

	r := &models.Review{ID: uuid.New(), VendorUserID: vendorID, UserID: caller.UserID, Comment: in.Comment}
	if err := s.store.UpsertReview(ctx, r); err != nil {
		return nil, fmt.Errorf("review vendor: %w", err)
	}
	return r, nil
}

func (s *Service) Ask(ctx context.Context, caller models.Caller, vendorID uuid.UUID, in models.QuestionInput) (*models.Question, error) {
	in.Question = strings.TrimSpace(in.Question)
	if err := models.Validate(in); err != nil {
		return nil, err
	}
	if err := s.requireVendor(ctx, vendorID); err != nil {
		return nil, err
	}

	q := &models.Question{ID: uuid.New(), VendorUserID: vendorID, UserID: caller.UserID, Question: in.Question}
	if err := s.store.InsertQuestion(ctx, q); err != nil {
		return nil, fmt.Errorf("ask vendor: %w", err)
	}
	return q, nil
}

// Answer sets the answer of a question addressed to the caller.
func (s *Service) Answer(ctx context.Context, caller models.Caller, questionID uuid.UUID, in models.AnswerInput) (*models.Question, error) {
	in.Answer = strings.TrimSpace(in.Answer)
	if err := models.Validate(in); err != nil {
		return nil, err
	}
	q, err := s.store.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("answer question: %w", err)
	}
	if q.VendorUserID != caller.UserID {
		return nil, fmt.Errorf("%w: question is addressed to another vendor", models.ErrForbidden)
	}
	q.Answer = in.Answer
	if err := s.store.AnswerQuestion(ctx, q); err != nil {
		return nil, fmt.Errorf("answer question: %w", err)
	}
	return q, nil
}

func (s *Service) Reviews(ctx context.Context, vendorID uuid.UUID) ([]models.Review, error) {
	out, err := s.store.ReviewsForVendor(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("reviews: %w", err)
	}
	return out, nil
}

func (s *Service) Questions(ctx context.Context, vendorID uuid.UUID) ([]models.Question, error) {
	out, err := s.store.QuestionsForVendor(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("questions: %w", err)
	}
	return out, nil
}

func (s *Service) Categories(ctx context.Context) ([]models.ServiceCategory, error) {
	out, err := s.store.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	return out, nil
}

// AdminVendors is the moderation view of vendor profiles. Locations come
// from one directory listing; when the directory is unreachable the
// profiles are returned without them.
func (s *Service) AdminVendors(ctx context.Context, caller models.Caller, f models.AdminVendorFilter) ([]models.AdminVendor, error) {
	if !caller.Is(models.RoleAdmin) {
		return nil, fmt.Errorf("%w: only admins can moderate vendors", models.ErrForbidden)
	}
	f.Text = strings.TrimSpace(f.Text)

	out, err := s.store.AdminVendors(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("admin vendors: %w", err)
	}
	places := s.places(ctx)
	for i := range out {
		if p, ok := places[out[i].UserID]; ok {
			out[i].Place = &p
		}
	}
	return out, nil
}

func (s *Service) requireVendor(ctx context.Context, id uuid.UUID) error {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return fmt.Errorf("vendor: %w", err)
	}
	if u.Role != models.RoleVendor {
		return fmt.Errorf("%w: vendor %s", models.ErrNotFound, id)
	}
	return nil
}

func (s *Service) place(ctx context.Context, userID uuid.UUID) *models.Place {
	if s.geo == nil {
		return nil
	}
	p, err := s.geo.GetByRef(ctx, models.EntityVendor, userID.String())
	if err != nil {
		if !errors.Is(err, geo.ErrNotFound) {
			s.log.Warn("geo lookup failed", slog.String("ref_id", userID.String()), slog.Any("error", err))
		}
		return nil
	}
	return p
}

func (s *Service) places(ctx context.Context) map[uuid.UUID]models.Place {
	out := map[uuid.UUID]models.Place{}
	if s.geo == nil {
		return out
	}
	list, err := s.geo.ListByType(ctx, models.EntityVendor)
	if err != nil {
		s.log.Warn("geo listing failed", slog.Any("error", err))
		return out
	}
	for _, p := range list {
		if id, err := uuid.Parse(p.RefID); err == nil {
			out[id] = p
		}
	}
	return out
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("discovery cache invalidation failed", slog.Any("error", err))
	}
}
