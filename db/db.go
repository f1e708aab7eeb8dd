package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventmarket/internal/ports"
	"eventmarket/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// adminLimit caps the moderation views.
const adminLimit = 500

// Storage is the Postgres implementation of the market, vendor and discovery
// stores. Inside Atomic it is rebound to the open transaction.
type Storage struct {
	db *sqlx.DB
	q  sqlx.ExtContext
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{db: db, q: db}
}

// Atomic runs fn in one transaction. Nested calls reuse the outer one.
func (s *Storage) Atomic(ctx context.Context, fn func(tx ports.MarketStore) error) (err error) {
	if s.db == nil {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(&Storage{q: tx}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// storeErr translates driver failures into domain error kinds.
func storeErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", models.ErrNotFound, what)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23503":
			return fmt.Errorf("%w: %s references a missing record", models.ErrValidation, what)
		case "23505":
			return fmt.Errorf("%w: %s already exists", models.ErrConflict, what)
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}

// affected returns ErrNotFound when a write touched no rows.
func affected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", models.ErrNotFound, what)
	}
	return nil
}

func idArray(ids []uuid.UUID) pq.StringArray {
	out := make(pq.StringArray, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
