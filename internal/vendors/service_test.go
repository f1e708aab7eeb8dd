package vendors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"eventmarket/internal/geo"
	"eventmarket/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockStore) GetVendorProfile(ctx context.Context, userID uuid.UUID) (*models.VendorProfile, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(*models.VendorProfile)
	return p, args.Error(1)
}

func (m *mockStore) UpsertVendorProfile(ctx context.Context, p *models.VendorProfile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockStore) UpsertRating(ctx context.Context, r *models.Rating) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockStore) UpsertReview(ctx context.Context, r *models.Review) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockStore) ReviewsForVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Review, error) {
	args := m.Called(ctx, vendorID)
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *mockStore) InsertQuestion(ctx context.Context, q *models.Question) error {
	return m.Called(ctx, q).Error(0)
}

func (m *mockStore) GetQuestion(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	args := m.Called(ctx, id)
	q, _ := args.Get(0).(*models.Question)
	return q, args.Error(1)
}

func (m *mockStore) AnswerQuestion(ctx context.Context, q *models.Question) error {
	return m.Called(ctx, q).Error(0)
}

func (m *mockStore) QuestionsForVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Question, error) {
	args := m.Called(ctx, vendorID)
	return args.Get(0).([]models.Question), args.Error(1)
}

func (m *mockStore) Categories(ctx context.Context) ([]models.ServiceCategory, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.ServiceCategory), args.Error(1)
}

func (m *mockStore) AdminVendors(ctx context.Context, f models.AdminVendorFilter) ([]models.AdminVendor, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.AdminVendor), args.Error(1)
}

type mockGeo struct {
	mock.Mock
}

func (m *mockGeo) Upsert(ctx context.Context, p models.Place) (*models.Place, error) {
	args := m.Called(ctx, p)
	pl, _ := args.Get(0).(*models.Place)
	return pl, args.Error(1)
}

func (m *mockGeo) GetByRef(ctx context.Context, typ models.EntityType, id string) (*models.Place, error) {
	args := m.Called(ctx, typ, id)
	pl, _ := args.Get(0).(*models.Place)
	return pl, args.Error(1)
}

func (m *mockGeo) ListByType(ctx context.Context, typ models.EntityType) ([]models.Place, error) {
	args := m.Called(ctx, typ)
	return args.Get(0).([]models.Place), args.Error(1)
}

func (m *mockGeo) Delete(ctx context.Context, typ models.EntityType, id string) error {
	return m.Called(ctx, typ, id).Error(0)
}

type countingCache struct {
	calls int
	err   error
}

func (c *countingCache) Invalidate(ctx context.Context) error {
	c.calls++
	return c.err
}

func newService() (*Service, *mockStore, *mockGeo, *countingCache) {
	store := &mockStore{}
	g := &mockGeo{}
	cache := &countingCache{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, g, cache, log), store, g, cache
}

var (
	vendorCaller = models.Caller{UserID: uuid.New(), Role: models.RoleVendor}
	userCaller   = models.Caller{UserID: uuid.New(), Role: models.RoleUser}
)

func TestGetProfile_CreatesMissingProfile(t *testing.T) {
	svc, store, g, _ := newService()
	ctx := context.Background()

	store.On("GetVendorProfile", ctx, vendorCaller.UserID).
		Return(nil, fmt.Errorf("%w: vendor profile", models.ErrNotFound))
	store.On("GetUser", ctx, vendorCaller.UserID).
		Return(&models.User{ID: vendorCaller.UserID, Email: "dj@example.com"}, nil)
	store.On("UpsertVendorProfile", ctx, mock.MatchedBy(func(p *models.VendorProfile) bool {
		return p.UserID == vendorCaller.UserID && p.CompanyName == "dj@example.com"
	})).Return(nil)
	g.On("GetByRef", ctx, models.EntityVendor, vendorCaller.UserID.String()).Return(nil, geo.ErrNotFound)

	p, err := svc.GetProfile(ctx, vendorCaller)
	require.NoError(t, err)
	assert.Equal(t, "dj@example.com", p.CompanyName)
	assert.Nil(t, p.Place)
	store.AssertExpectations(t)

	_, err = svc.GetProfile(ctx, userCaller)
	require.ErrorIs(t, err, models.ErrForbidden)
}

func TestUpsertProfile_PinsAndInvalidates(t *testing.T) {
	svc, store, g, cache := newService()
	ctx := context.Background()

	store.On("UpsertVendorProfile", ctx, mock.AnythingOfType("*models.VendorProfile")).Return(nil)
	pinned := &models.Place{ID: "p1", RefType: models.EntityVendor, RefID: vendorCaller.UserID.String(), Latitude: 1, Longitude: 2}
	g.On("Upsert", mock.Anything, mock.MatchedBy(func(p models.Place) bool {
		return p.RefType == models.EntityVendor && p.RefID == vendorCaller.UserID.String()
	})).Return(pinned, nil)

	p, err := svc.UpsertProfile(ctx, vendorCaller, models.VendorProfileInput{
		CompanyName: "  Göl Salonu ",
		PriceRange:  "1000-2000",
		Geo:         &models.GeoInput{Latitude: 1, Longitude: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "Göl Salonu", p.CompanyName)
	assert.Equal(t, pinned, p.Place)
	assert.Equal(t, 1, cache.calls)
	g.AssertExpectations(t)
}

func TestUpsertProfile_GeoFailureIsSwallowed(t *testing.T) {
	svc, store, g, cache := newService()
	ctx := context.Background()
	cache.err = errors.New("redis down")

	store.On("UpsertVendorProfile", ctx, mock.Anything).Return(nil)
	g.On("Upsert", mock.Anything, mock.Anything).Return(nil, geo.ErrUnavailable)

	p, err := svc.UpsertProfile(ctx, vendorCaller, models.VendorProfileInput{
		CompanyName: "Göl Salonu",
		Geo:         &models.GeoInput{Latitude: 1, Longitude: 2},
	})
	require.NoError(t, err)
	assert.Nil(t, p.Place)
}

func TestUpsertProfile_ClearLocation(t *testing.T) {
	svc, store, g, _ := newService()
	ctx := context.Background()

	store.On("UpsertVendorProfile", ctx, mock.Anything).Return(nil)
	g.On("Delete", mock.Anything, models.EntityVendor, vendorCaller.UserID.String()).Return(geo.ErrNotFound)

	_, err := svc.UpsertProfile(ctx, vendorCaller, models.VendorProfileInput{CompanyName: "X", ClearLocation: true})
	require.NoError(t, err)
	g.AssertExpectations(t)
}

func TestUpsertProfile_Validation(t *testing.T) {
	svc, _, _, _ := newService()

	_, err := svc.UpsertProfile(context.Background(), vendorCaller, models.VendorProfileInput{CompanyName: "   "})
	require.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.UpsertProfile(context.Background(), userCaller, models.VendorProfileInput{CompanyName: "X"})
	require.ErrorIs(t, err, models.ErrForbidden)
}

func TestRate(t *testing.T) {
	ctx := context.Background()
	vendorID := uuid.New()

	t.Run("self rating", func(t *testing.T) {
		svc, _, _, _ := newService()
		err := svc.Rate(ctx, vendorCaller, vendorCaller.UserID, models.RatingInput{Rating: 5})
		require.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("out of range", func(t *testing.T) {
		svc, _, _, _ := newService()
		err := svc.Rate(ctx, userCaller, vendorID, models.RatingInput{Rating: 6})
		require.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("target is not a vendor", func(t *testing.T) {
		svc, store, _, _ := newService()
		store.On("GetUser", ctx, vendorID).Return(&models.User{ID: vendorID, Role: models.RoleUser}, nil)
		err := svc.Rate(ctx, userCaller, vendorID, models.RatingInput{Rating: 4})
		require.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("upserts", func(t *testing.T) {
		svc, store, _, cache := newService()
		store.On("GetUser", ctx, vendorID).Return(&models.User{ID: vendorID, Role: models.RoleVendor}, nil)
		store.On("UpsertRating", ctx, mock.MatchedBy(func(r *models.Rating) bool {
			return r.VendorUserID == vendorID && r.UserID == userCaller.UserID && r.Rating == 4
		})).Return(nil)

		require.NoError(t, svc.Rate(ctx, userCaller, vendorID, models.RatingInput{Rating: 4}))
		assert.Equal(t, 1, cache.calls)
		store.AssertExpectations(t)
	})
}

func TestAnswer_OnlyAddressedVendor(t *testing.T) {
	svc, store, _, _ := newService()
	ctx := context.Background()
	qid := uuid.New()

	store.On("GetQuestion", ctx, qid).Return(&models.Question{ID: qid, VendorUserID: uuid.New()}, nil).Once()
	_, err := svc.Answer(ctx, vendorCaller, qid, models.AnswerInput{Answer: "Evet"})
	require.ErrorIs(t, err, models.ErrForbidden)

	store.On("GetQuestion", ctx, qid).Return(&models.Question{ID: qid, VendorUserID: vendorCaller.UserID}, nil).Once()
	store.On("AnswerQuestion", ctx, mock.MatchedBy(func(q *models.Question) bool { return q.Answer == "Evet" })).Return(nil)
	q, err := svc.Answer(ctx, vendorCaller, qid, models.AnswerInput{Answer: " Evet "})
	require.NoError(t, err)
	assert.Equal(t, "Evet", q.Answer)
	store.AssertExpectations(t)
}

func TestAskAndReview(t *testing.T) {
	svc, store, _, _ := newService()
	ctx := context.Background()
	vendorID := uuid.New()
	store.On("GetUser", ctx, vendorID).Return(&models.User{ID: vendorID, Role: models.RoleVendor}, nil)
	store.On("InsertQuestion", ctx, mock.Anything).Return(nil)
	store.On("UpsertReview", ctx, mock.Anything).Return(nil)

	q, err := svc.Ask(ctx, userCaller, vendorID, models.QuestionInput{Question: "Otopark var mı?"})
	require.NoError(t, err)
	assert.Equal(t, vendorID, q.VendorUserID)

	_, err = svc.Ask(ctx, userCaller, vendorID, models.QuestionInput{Question: " "})
	require.ErrorIs(t, err, models.ErrValidation)

	r, err := svc.Review(ctx, userCaller, vendorID, models.ReviewInput{Comment: "Harika"})
	require.NoError(t, err)
	assert.Equal(t, userCaller.UserID, r.UserID)
}

func TestAdminVendors(t *testing.T) {
	ctx := context.Background()
	admin := models.Caller{UserID: uuid.New(), Role: models.RoleAdmin}
	pinnedID, bareID := uuid.New(), uuid.New()
	rows := []models.AdminVendor{
		{VendorProfile: models.VendorProfile{UserID: pinnedID, CompanyName: "Göl Salonu", IsVerified: true}, Email: "gol@example.com"},
		{VendorProfile: models.VendorProfile{UserID: bareID, CompanyName: "DJ Ekin"}, Email: "ekin@example.com"},
	}

	t.Run("admins only", func(t *testing.T) {
		svc, _, _, _ := newService()
		_, err := svc.AdminVendors(ctx, vendorCaller, models.AdminVendorFilter{})
		require.ErrorIs(t, err, models.ErrForbidden)
		_, err = svc.AdminVendors(ctx, userCaller, models.AdminVendorFilter{})
		require.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("filters reach the store and places are joined", func(t *testing.T) {
		svc, store, g, _ := newService()
		verified := true
		store.On("AdminVendors", ctx, models.AdminVendorFilter{Verified: &verified, Text: "salon"}).
			Return(rows, nil)
		g.On("ListByType", ctx, models.EntityVendor).Return([]models.Place{
			{RefType: models.EntityVendor, RefID: pinnedID.String(), Latitude: 39.9, Longitude: 32.8},
			{RefType: models.EntityVendor, RefID: "not-a-uuid"},
		}, nil)

		out, err := svc.AdminVendors(ctx, admin, models.AdminVendorFilter{Verified: &verified, Text: " salon "})
		require.NoError(t, err)
		require.Len(t, out, 2)
		require.NotNil(t, out[0].Place)
		assert.InDelta(t, 39.9, out[0].Place.Latitude, 1e-9)
		assert.Nil(t, out[1].Place)
		store.AssertExpectations(t)
	})

	t.Run("geo failure keeps profiles", func(t *testing.T) {
		svc, store, g, _ := newService()
		store.On("AdminVendors", ctx, models.AdminVendorFilter{}).Return(rows, nil)
		g.On("ListByType", ctx, models.EntityVendor).Return([]models.Place(nil), geo.ErrUnavailable)

		out, err := svc.AdminVendors(ctx, admin, models.AdminVendorFilter{})
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Nil(t, out[0].Place)
	})
}
