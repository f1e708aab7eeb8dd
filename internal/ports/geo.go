package ports

import (
	"context"

	"eventmarket/models"
)

// GeoDirectory maps (entity type, entity id) to a single Place.
type GeoDirectory interface {
	Upsert(ctx context.Context, p models.Place) (*models.Place, error)
	GetByRef(ctx context.Context, typ models.EntityType, id string) (*models.Place, error)
	ListByType(ctx context.Context, typ models.EntityType) ([]models.Place, error)
	Delete(ctx context.Context, typ models.EntityType, id string) error
}

// CacheInvalidator drops cached discovery candidates.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}
