package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mamadbah2/coilstock/internal/domain/models"
)

// Repository is an in-memory coil store. It evaluates the same domain
// predicates the MongoDB adapter translates to BSON, which keeps the two
// backends interchangeable in tests.
type Repository struct {
	mu        sync.RWMutex
	coils     map[int64]models.Coil
	nextID    int64
	snapshots []models.DailySnapshot
}

// NewRepository builds an empty in-memory repository.
func NewRepository() *Repository {
	return &Repository{coils: make(map[int64]models.Coil)}
}

// Create assigns the next sequential id and stores the coil.
func (r *Repository) Create(_ context.Context, coil models.Coil) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	coil.ID = r.nextID
	r.coils[coil.ID] = coil
	return coil.ID, nil
}

// GetByID returns the coil for id or models.ErrNotFound.
func (r *Repository) GetByID(_ context.Context, id int64) (models.Coil, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	coil, ok := r.coils[id]
	if !ok {
		return models.Coil{}, models.ErrNotFound
	}
	return coil, nil
}

// FilterByRanges returns the coils matching every given range, ordered by id.
func (r *Repository) FilterByRanges(_ context.Context, ranges []models.FieldRange) ([]models.Coil, error) {
	return r.selectCoils(func(c models.Coil) bool {
		for _, rng := range ranges {
			if !rng.Matches(c) {
				return false
			}
		}
		return true
	}), nil
}

// FindEligible returns the coils in statistics scope for [start, end].
func (r *Repository) FindEligible(_ context.Context, start, end models.Date) ([]models.Coil, error) {
	return r.selectCoils(func(c models.Coil) bool {
		return c.EligibleWithin(start, end)
	}), nil
}

// SoftDelete stamps delete_date if unset; repeating it is a no-op.
func (r *Repository) SoftDelete(_ context.Context, id int64, date models.Date) (models.Coil, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	coil, ok := r.coils[id]
	if !ok {
		return models.Coil{}, models.ErrNotFound
	}
	if coil.DeleteDate == nil {
		coil.DeleteDate = &date
		r.coils[id] = coil
	}
	return coil, nil
}

// SaveDailySnapshot appends a statistics capture.
func (r *Repository) SaveDailySnapshot(_ context.Context, snapshot models.DailySnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshots = append(r.snapshots, snapshot)
	return nil
}

// Snapshots returns the captures saved so far.
func (r *Repository) Snapshots() []models.DailySnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.DailySnapshot, len(r.snapshots))
	copy(out, r.snapshots)
	return out
}

func (r *Repository) selectCoils(keep func(models.Coil) bool) []models.Coil {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Coil, 0, len(r.coils))
	for _, coil := range r.coils {
		if keep(coil) {
			out = append(out, coil)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
