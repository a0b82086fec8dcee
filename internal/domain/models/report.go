package models

import "time"

// DayCount is the number of coils added on a single day.
type DayCount struct {
	Date  Date  `json:"date" bson:"date"`
	Count int64 `json:"count" bson:"count"`
}

// DayWeight is the summed weight of coils added on a single day.
type DayWeight struct {
	Date        Date  `json:"date" bson:"date"`
	TotalWeight int64 `json:"total_weight" bson:"total_weight"`
}

// LongestStay reports the longest add-to-delete span among the coils in
// scope. HasData distinguishes "no deleted coils in this interval" from a
// zero-second stay.
type LongestStay struct {
	HasData bool    `json:"has_data" bson:"has_data"`
	Seconds float64 `json:"seconds" bson:"seconds"`
}

// StatsReport is the full statistics answer for one reporting interval.
// The pointer aggregates are null, and NoData is true, when no coil is in
// scope for the interval; the counts are always present because they derive
// from whole-table predicates rather than the eligible set.
type StatsReport struct {
	AddedCount     int64       `json:"added_count" bson:"added_count"`
	DeletedCount   int64       `json:"deleted_count" bson:"deleted_count"`
	NoData         bool        `json:"no_data" bson:"no_data"`
	AvgLength      *float64    `json:"avg_length" bson:"avg_length"`
	AvgWeight      *float64    `json:"avg_weight" bson:"avg_weight"`
	MaxLength      *float64    `json:"max_length" bson:"max_length"`
	MaxWeight      *float64    `json:"max_weight" bson:"max_weight"`
	MinLength      *float64    `json:"min_length" bson:"min_length"`
	MinWeight      *float64    `json:"min_weight" bson:"min_weight"`
	SumWeight      *float64    `json:"sum_weight" bson:"sum_weight"`
	LongestStay    LongestStay `json:"longest_stay" bson:"longest_stay"`
	MinCountByDay  *DayCount   `json:"min_count_by_day" bson:"min_count_by_day"`
	MaxCountByDay  *DayCount   `json:"max_count_by_day" bson:"max_count_by_day"`
	MinWeightByDay *DayWeight  `json:"min_weight_by_day" bson:"min_weight_by_day"`
	MaxWeightByDay *DayWeight  `json:"max_weight_by_day" bson:"max_weight_by_day"`
}

// DailySnapshot is one scheduled capture of the statistics report, persisted
// for later trend inspection and pushed to the optional export targets.
type DailySnapshot struct {
	Date      Date        `json:"date" bson:"date"`
	Report    StatsReport `json:"report" bson:"report"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
}
