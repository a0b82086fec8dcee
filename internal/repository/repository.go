package repository

import (
	"context"

	"github.com/mamadbah2/coilstock/internal/domain/models"
)

// CoilRepository is the typed contract over the coil record store. All
// methods are single round trips; callers own validation and date stamping.
type CoilRepository interface {
	// Create persists a new coil and returns the store-assigned id.
	Create(ctx context.Context, coil models.Coil) (int64, error)

	// GetByID returns the coil for id or models.ErrNotFound.
	GetByID(ctx context.Context, id int64) (models.Coil, error)

	// FilterByRanges returns every coil matching the conjunction of the
	// given inclusive ranges. No ranges means the whole table.
	FilterByRanges(ctx context.Context, ranges []models.FieldRange) ([]models.Coil, error)

	// FindEligible returns the coils in statistics scope for the inclusive
	// window [start, end], per models.Coil.EligibleWithin.
	FindEligible(ctx context.Context, start, end models.Date) ([]models.Coil, error)

	// SoftDelete stamps the coil's delete date if it is not already set and
	// returns the resulting record. Deleting an already-deleted coil is a
	// no-op that returns the existing record; an unknown id returns
	// models.ErrNotFound.
	SoftDelete(ctx context.Context, id int64, date models.Date) (models.Coil, error)
}

// SnapshotRepository persists scheduled daily statistics captures.
type SnapshotRepository interface {
	SaveDailySnapshot(ctx context.Context, snapshot models.DailySnapshot) error
}
