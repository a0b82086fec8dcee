package inventory

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/coilstock/internal/domain/models"
	"github.com/mamadbah2/coilstock/internal/repository"
)

// Service implements the coil lifecycle: create, lookup, range filtering and
// soft delete. Dates are stamped server-side in the configured location, so
// add_date and delete_date are never client-supplied and delete_date >=
// add_date holds by construction.
type Service struct {
	repo   repository.CoilRepository
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires an inventory service instance.
func NewService(repo repository.CoilRepository, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, loc: loc, logger: logger, now: time.Now}
}

func (s *Service) today() models.Date {
	return models.DateOf(s.now().In(s.loc))
}

// Create validates the attributes, stamps today's date and persists the
// coil. Validation happens before any store call.
func (s *Service) Create(ctx context.Context, length, weight int64) (int64, error) {
	if length <= 0 {
		return 0, fmt.Errorf("%w: length must be positive, got %d", models.ErrValidation, length)
	}
	if weight <= 0 {
		return 0, fmt.Errorf("%w: weight must be positive, got %d", models.ErrValidation, weight)
	}

	coil := models.Coil{
		Length:  length,
		Weight:  weight,
		AddDate: s.today(),
	}

	id, err := s.repo.Create(ctx, coil)
	if err != nil {
		return 0, err
	}

	s.logger.Info("coil created",
		zap.Int64("id", id),
		zap.Int64("length", length),
		zap.Int64("weight", weight),
		zap.String("add_date", coil.AddDate.String()))
	return id, nil
}

// Get returns a single coil by id.
func (s *Service) Get(ctx context.Context, id int64) (models.Coil, error) {
	return s.repo.GetByID(ctx, id)
}

// Filter returns the coils matching every given inclusive range. Callers
// pass only fully specified pairs; an empty list returns the whole
// inventory.
func (s *Service) Filter(ctx context.Context, ranges []models.FieldRange) ([]models.Coil, error) {
	return s.repo.FilterByRanges(ctx, ranges)
}

// Delete marks the coil as removed by stamping today's date. Deleting an
// already-deleted coil succeeds without touching the stored date.
func (s *Service) Delete(ctx context.Context, id int64) (int64, error) {
	coil, err := s.repo.SoftDelete(ctx, id, s.today())
	if err != nil {
		return 0, err
	}

	s.logger.Info("coil removed",
		zap.Int64("id", coil.ID),
		zap.String("delete_date", coil.DeleteDate.String()))
	return coil.ID, nil
}
