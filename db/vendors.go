package db

import (
	"context"
	"fmt"
	"strings"

	"eventmarket/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func (s *Storage) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u := &models.User{}
	query := `SELECT id, email, display_name, role FROM users WHERE id = $1`
	if err := sqlx.GetContext(ctx, s.q, u, query, id); err != nil {
		return nil, storeErr(err, "user "+id.String())
	}
	return u, nil
}

const profileColumns = `
    vp.id, vp.user_id, vp.company_name, vp.description, vp.service_categories_csv,
    vp.suitable_for_csv, vp.venue_type, vp.capacity, vp.amenities, vp.price_range,
    vp.phone_number, vp.website, vp.social_media_links, vp.working_hours,
    vp.photo_urls, vp.is_verified, vp.created_at, vp.updated_at`

func (s *Storage) GetVendorProfile(ctx context.Context, userID uuid.UUID) (*models.VendorProfile, error) {
	p := &models.VendorProfile{}
	query := `SELECT` + profileColumns + ` FROM vendor_profiles vp WHERE vp.user_id = $1`
	if err := sqlx.GetContext(ctx, s.q, p, query, userID); err != nil {
		return nil, storeErr(err, "vendor profile "+userID.String())
	}
	return p, nil
}

// UpsertVendorProfile creates the profile of p.UserID or overwrites its
// editable fields. Verification is never changed here.
func (s *Storage) UpsertVendorProfile(ctx context.Context, p *models.VendorProfile) error {
	query := `
        INSERT INTO vendor_profiles
            (id, user_id, company_name, description, service_categories_csv, suitable_for_csv,
             venue_type, capacity, amenities, price_range, phone_number, website,
             social_media_links, working_hours, photo_urls)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
        ON CONFLICT (user_id) DO UPDATE SET
            company_name = EXCLUDED.company_name,
            description = EXCLUDED.description,
            service_categories_csv = EXCLUDED.service_categories_csv,
            suitable_for_csv = EXCLUDED.suitable_for_csv,
            venue_type = EXCLUDED.venue_type,
            capacity = EXCLUDED.capacity,
            amenities = EXCLUDED.amenities,
            price_range = EXCLUDED.price_range,
            phone_number = EXCLUDED.phone_number,
            website = EXCLUDED.website,
            social_media_links = EXCLUDED.social_media_links,
            working_hours = EXCLUDED.working_hours,
            photo_urls = EXCLUDED.photo_urls,
            updated_at = NOW()
        RETURNING id, is_verified, created_at, updated_at`
	err := s.q.QueryRowxContext(ctx, query,
		p.ID, p.UserID, p.CompanyName, p.Description, p.ServiceCategoriesCSV, p.SuitableForCSV,
		p.VenueType, p.Capacity, p.Amenities, p.PriceRange, p.PhoneNumber, p.Website,
		p.SocialMediaLinks, p.WorkingHours, p.PhotoURLs).
		Scan(&p.ID, &p.IsVerified, &p.CreatedAt, &p.UpdatedAt)
	return storeErr(err, "upsert vendor profile")
}

func (s *Storage) UpsertRating(ctx context.Context, r *models.Rating) error {
	query := `
        INSERT INTO vendor_ratings (id, vendor_user_id, user_id, rating)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (vendor_user_id, user_id) DO UPDATE SET rating = EXCLUDED.rating
        RETURNING id, created_at`
	err := s.q.QueryRowxContext(ctx, query, r.ID, r.VendorUserID, r.UserID, r.Rating).
		Scan(&r.ID, &r.CreatedAt)
	return storeErr(err, "upsert rating")
}

func (s *Storage) UpsertReview(ctx context.Context, r *models.Review) error {
	query := `
        INSERT INTO vendor_reviews (id, vendor_user_id, user_id, comment)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (vendor_user_id, user_id) DO UPDATE SET comment = EXCLUDED.comment, updated_at = NOW()
        RETURNING id, created_at, updated_at`
	err := s.q.QueryRowxContext(ctx, query, r.ID, r.VendorUserID, r.UserID, r.Comment).
		Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	return storeErr(err, "upsert review")
}

func (s *Storage) ReviewsForVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Review, error) {
	query := `
        SELECT r.id, r.vendor_user_id, r.user_id,
               COALESCE(NULLIF(u.display_name, ''), u.email, '') AS author_name,
               r.comment, r.created_at, r.updated_at
        FROM vendor_reviews r
        LEFT JOIN users u ON u.id = r.user_id
        WHERE r.vendor_user_id = $1
        ORDER BY r.created_at DESC`
	var out []models.Review
	if err := sqlx.SelectContext(ctx, s.q, &out, query, vendorID); err != nil {
		return nil, storeErr(err, "select reviews")
	}
	return out, nil
}

func (s *Storage) InsertQuestion(ctx context.Context, q *models.Question) error {
	query := `
        INSERT INTO vendor_questions (id, vendor_user_id, user_id, question)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at`
	err := s.q.QueryRowxContext(ctx, query, q.ID, q.VendorUserID, q.UserID, q.Question).
		Scan(&q.CreatedAt)
	return storeErr(err, "insert question")
}

const questionSelect = `
    SELECT q.id, q.vendor_user_id, q.user_id,
           COALESCE(NULLIF(u.display_name, ''), u.email, '') AS author_name,
           q.question, q.answer, q.created_at, q.answered_at
    FROM vendor_questions q
    LEFT JOIN users u ON u.id = q.user_id`

func (s *Storage) GetQuestion(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	q := &models.Question{}
	if err := sqlx.GetContext(ctx, s.q, q, questionSelect+` WHERE q.id = $1`, id); err != nil {
		return nil, storeErr(err, "question "+id.String())
	}
	return q, nil
}

func (s *Storage) AnswerQuestion(ctx context.Context, q *models.Question) error {
	query := `UPDATE vendor_questions SET answer = $1, answered_at = NOW() WHERE id = $2 RETURNING answered_at`
	err := s.q.QueryRowxContext(ctx, query, q.Answer, q.ID).Scan(&q.AnsweredAt)
	return storeErr(err, "question "+q.ID.String())
}

func (s *Storage) QuestionsForVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Question, error) {
	var out []models.Question
	query := questionSelect + ` WHERE q.vendor_user_id = $1 ORDER BY q.created_at DESC`
	if err := sqlx.SelectContext(ctx, s.q, &out, query, vendorID); err != nil {
		return nil, storeErr(err, "select questions")
	}
	return out, nil
}

func (s *Storage) Categories(ctx context.Context) ([]models.ServiceCategory, error) {
	var out []models.ServiceCategory
	if err := sqlx.SelectContext(ctx, s.q, &out, `SELECT id, name FROM service_categories ORDER BY name`); err != nil {
		return nil, storeErr(err, "select categories")
	}
	return out, nil
}

// AdminVendors returns vendor profiles with their owners' account details,
// most recently changed first.
func (s *Storage) AdminVendors(ctx context.Context, f models.AdminVendorFilter) ([]models.AdminVendor, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Verified != nil {
		where = append(where, "vp.is_verified = "+arg(*f.Verified))
	}
	if t := strings.TrimSpace(f.Text); t != "" {
		p := arg("%" + t + "%")
		where = append(where, "(vp.company_name ILIKE "+p+" OR COALESCE(u.display_name, '') ILIKE "+p+" OR u.email ILIKE "+p+")")
	}

	query := `SELECT` + profileColumns + `,
            u.email AS email, COALESCE(u.display_name, '') AS display_name
        FROM vendor_profiles vp
        JOIN users u ON u.id = vp.user_id`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY COALESCE(vp.updated_at, vp.created_at) DESC LIMIT ` + arg(adminLimit)

	var out []models.AdminVendor
	if err := sqlx.SelectContext(ctx, s.q, &out, query, args...); err != nil {
		return nil, storeErr(err, "select admin vendors")
	}
	return out, nil
}

// VendorRecords loads every profile whose owner has the Vendor role, joined
// with the owner's display name.
func (s *Storage) VendorRecords(ctx context.Context) ([]models.VendorRecord, error) {
	query := `SELECT` + profileColumns + `,
            u.display_name AS display_name
        FROM vendor_profiles vp
        JOIN users u ON u.id = vp.user_id
        WHERE u.role = 'Vendor'`
	var out []models.VendorRecord
	if err := sqlx.SelectContext(ctx, s.q, &out, query); err != nil {
		return nil, storeErr(err, "select vendor records")
	}
	return out, nil
}

// RatingAggregates groups ratings of the given vendors in one query.
func (s *Storage) RatingAggregates(ctx context.Context, vendorIDs []uuid.UUID) (map[uuid.UUID]models.RatingAggregate, error) {
	out := make(map[uuid.UUID]models.RatingAggregate, len(vendorIDs))
	if len(vendorIDs) == 0 {
		return out, nil
	}
	query := `
        SELECT vendor_user_id, AVG(rating)::float8 AS average, COUNT(*) AS count
        FROM vendor_ratings
        WHERE vendor_user_id = ANY($1::uuid[])
        GROUP BY vendor_user_id`
	var rows []models.RatingAggregate
	if err := sqlx.SelectContext(ctx, s.q, &rows, query, idArray(vendorIDs)); err != nil {
		return nil, storeErr(err, "aggregate ratings")
	}
	for _, r := range rows {
		out[r.VendorUserID] = r
	}
	return out, nil
}
