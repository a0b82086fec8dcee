package stats

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/mamadbah2/coilstock/internal/domain/models"
	"github.com/mamadbah2/coilstock/internal/repository"
)

// Service computes the interval statistics report. It only ever reads from
// the repository; the row sets come back through typed range predicates and
// the aggregation itself happens here, which keeps the engine independent of
// the store's aggregate dialect.
type Service struct {
	repo   repository.CoilRepository
	logger *zap.Logger
}

// NewService wires a statistics service instance.
func NewService(repo repository.CoilRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Report answers "what happened to the inventory during [start, end]". Both
// bounds are inclusive calendar dates; start must not fall after end.
//
// The eligible set drives the conditional aggregates and the longest stay.
// The added/deleted counts and the per-day extremes come from whole-table
// range predicates instead, so they stay populated even when the eligible
// set is empty.
func (s *Service) Report(ctx context.Context, start, end models.Date) (models.StatsReport, error) {
	if start.After(end) {
		return models.StatsReport{}, fmt.Errorf("%w: interval_start %s is after interval_end %s",
			models.ErrInvalidRange, start, end)
	}

	eligible, err := s.repo.FindEligible(ctx, start, end)
	if err != nil {
		return models.StatsReport{}, err
	}

	added, err := s.repo.FilterByRanges(ctx, []models.FieldRange{
		models.DateRange(models.FieldAddDate, start, end),
	})
	if err != nil {
		return models.StatsReport{}, err
	}

	// A delete_date range never matches a live coil, so this is exactly
	// "non-null delete_date within the window".
	deleted, err := s.repo.FilterByRanges(ctx, []models.FieldRange{
		models.DateRange(models.FieldDeleteDate, start, end),
	})
	if err != nil {
		return models.StatsReport{}, err
	}

	report := models.StatsReport{
		AddedCount:   int64(len(added)),
		DeletedCount: int64(len(deleted)),
	}

	if err := fillAggregates(&report, eligible); err != nil {
		if !errors.Is(err, models.ErrNoData) {
			return models.StatsReport{}, err
		}
		report.NoData = true
		s.logger.Info("no coils in scope for interval",
			zap.String("interval_start", start.String()),
			zap.String("interval_end", end.String()))
	}

	report.LongestStay = longestStay(eligible)
	report.MinCountByDay, report.MaxCountByDay = countExtremes(added)
	report.MinWeightByDay, report.MaxWeightByDay = weightExtremes(added)

	return report, nil
}

// fillAggregates computes the conditional aggregates over the eligible set.
// It returns models.ErrNoData for an empty set, leaving the pointer fields
// null.
func fillAggregates(report *models.StatsReport, eligible []models.Coil) error {
	if len(eligible) == 0 {
		return models.ErrNoData
	}

	var (
		sumLength int64
		sumWeight int64
		minLength = eligible[0].Length
		maxLength = eligible[0].Length
		minWeight = eligible[0].Weight
		maxWeight = eligible[0].Weight
	)

	for _, coil := range eligible {
		sumLength += coil.Length
		sumWeight += coil.Weight
		minLength = min(minLength, coil.Length)
		maxLength = max(maxLength, coil.Length)
		minWeight = min(minWeight, coil.Weight)
		maxWeight = max(maxWeight, coil.Weight)
	}

	n := float64(len(eligible))
	report.AvgLength = round4(float64(sumLength) / n)
	report.AvgWeight = round4(float64(sumWeight) / n)
	report.MaxLength = round4(float64(maxLength))
	report.MaxWeight = round4(float64(maxWeight))
	report.MinLength = round4(float64(minLength))
	report.MinWeight = round4(float64(minWeight))
	report.SumWeight = round4(float64(sumWeight))
	return nil
}

// longestStay finds the longest add-to-delete span, in seconds, among the
// eligible coils that carry a delete date. Coils never deleted contribute
// nothing; if none qualify, HasData stays false.
func longestStay(eligible []models.Coil) models.LongestStay {
	stay := models.LongestStay{}
	for _, coil := range eligible {
		if !coil.Deleted() {
			continue
		}
		seconds := coil.StaySeconds()
		if !stay.HasData || seconds > stay.Seconds {
			stay = models.LongestStay{HasData: true, Seconds: seconds}
		}
	}
	if stay.HasData {
		stay.Seconds = math.Round(stay.Seconds*10000) / 10000
	}
	return stay
}

// countExtremes groups the coils added in the window by add date and returns
// the days with the fewest and the most additions. Ties at either extreme
// break to the earliest date. Nil results mean nothing was added at all.
func countExtremes(added []models.Coil) (*models.DayCount, *models.DayCount) {
	days := groupByAddDate(added)
	if len(days) == 0 {
		return nil, nil
	}

	minDay := days[0]
	maxDay := days[0]
	for _, day := range days[1:] {
		if day.count < minDay.count {
			minDay = day
		}
		if day.count > maxDay.count {
			maxDay = day
		}
	}

	return &models.DayCount{Date: minDay.date, Count: minDay.count},
		&models.DayCount{Date: maxDay.date, Count: maxDay.count}
}

// weightExtremes groups the coils added in the window by add date and
// returns the days with the smallest and the largest summed weight, earliest
// date winning ties.
func weightExtremes(added []models.Coil) (*models.DayWeight, *models.DayWeight) {
	days := groupByAddDate(added)
	if len(days) == 0 {
		return nil, nil
	}

	minDay := days[0]
	maxDay := days[0]
	for _, day := range days[1:] {
		if day.weight < minDay.weight {
			minDay = day
		}
		if day.weight > maxDay.weight {
			maxDay = day
		}
	}

	return &models.DayWeight{Date: minDay.date, TotalWeight: minDay.weight},
		&models.DayWeight{Date: maxDay.date, TotalWeight: maxDay.weight}
}

type dayGroup struct {
	date   models.Date
	count  int64
	weight int64
}

// groupByAddDate buckets coils per add date, ascending by date so the
// strict comparisons above resolve ties toward the earliest day.
func groupByAddDate(coils []models.Coil) []dayGroup {
	if len(coils) == 0 {
		return nil
	}

	ordered := make([]models.Coil, len(coils))
	copy(ordered, coils)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].AddDate.Before(ordered[j].AddDate)
	})

	var days []dayGroup
	for _, coil := range ordered {
		if len(days) > 0 && days[len(days)-1].date.Equal(coil.AddDate) {
			days[len(days)-1].count++
			days[len(days)-1].weight += coil.Weight
			continue
		}
		days = append(days, dayGroup{date: coil.AddDate, count: 1, weight: coil.Weight})
	}
	return days
}

// round4 rounds to four decimal places, the precision every aggregate in the
// report is reported at.
func round4(v float64) *float64 {
	rounded := math.Round(v*10000) / 10000
	return &rounded
}
