package models

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// DateLayout is the wire format for all calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar day without a time component. It marshals to and from
// the YYYY-MM-DD wire format and is stored as a midnight-UTC datetime.
type Date struct {
	t time.Time
}

// NewDate builds a Date from its calendar components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to the calendar day it falls on in the
// instant's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return Date{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", ErrValidation, value)
	}
	return DateOf(t), nil
}

// Time returns the midnight-UTC instant backing the date.
func (d Date) Time() time.Time { return d.t }

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Before reports whether d falls strictly before other.
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// After reports whether d falls strictly after other.
func (d Date) After(other Date) bool { return d.t.After(other.t) }

// Equal reports whether d and other are the same calendar day.
func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

func (d Date) String() string { return d.t.Format(DateLayout) }

// MarshalJSON renders the date as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a quoted YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalBSONValue stores the date as a BSON datetime so the store can run
// range comparisons on it.
func (d Date) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(d.t)
}

// UnmarshalBSONValue restores a Date from a BSON datetime.
func (d *Date) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	var instant time.Time
	if err := raw.Unmarshal(&instant); err != nil {
		return fmt.Errorf("decode date: %w", err)
	}
	*d = DateOf(instant.UTC())
	return nil
}

// Coil is a physical roll of material tracked in inventory. A nil DeleteDate
// means the coil is still on the floor; removal is recorded by stamping
// DeleteDate, never by dropping the row.
type Coil struct {
	ID         int64 `json:"id" bson:"_id"`
	Length     int64 `json:"length" bson:"length"`
	Weight     int64 `json:"weight" bson:"weight"`
	AddDate    Date  `json:"add_date" bson:"add_date"`
	DeleteDate *Date `json:"delete_date" bson:"delete_date"`
}

// Deleted reports whether the coil has been removed from inventory.
func (c Coil) Deleted() bool { return c.DeleteDate != nil }

// EligibleWithin reports whether the coil is in scope for statistics over the
// inclusive window [start, end]. The shape reproduces the store predicate
// NOT(delete_date < start AND add_date < end) OR
// (delete_date IS NULL AND start <= add_date <= end)
// including its three-valued null semantics: a comparison against a null
// delete_date is unknown, so for a live coil the NOT clause only holds when
// add_date >= end, and together with the null clause that reduces to
// add_date >= start. A live coil added before the window is therefore out of
// scope. The asymmetry is intentional compatibility; see DESIGN.md before
// touching it.
func (c Coil) EligibleWithin(start, end Date) bool {
	if c.DeleteDate != nil {
		return !(c.DeleteDate.Before(start) && c.AddDate.Before(end))
	}
	return !c.AddDate.Before(start)
}

// StaySeconds returns the number of seconds the coil spent in inventory.
// It is only meaningful for deleted coils.
func (c Coil) StaySeconds() float64 {
	if c.DeleteDate == nil {
		return 0
	}
	return c.DeleteDate.Time().Sub(c.AddDate.Time()).Seconds()
}

// RangeField names a coil attribute a range predicate can apply to.
type RangeField string

const (
	FieldID         RangeField = "id"
	FieldLength     RangeField = "length"
	FieldWeight     RangeField = "weight"
	FieldAddDate    RangeField = "add_date"
	FieldDeleteDate RangeField = "delete_date"
)

// FieldRange is an inclusive-bounds predicate on a single coil attribute.
// Repositories fold a list of them into one conjunction. Only fully
// specified pairs ever become a FieldRange; a lone bound is dropped by the
// caller before it gets here.
type FieldRange struct {
	Field   RangeField
	MinInt  int64
	MaxInt  int64
	MinDate Date
	MaxDate Date
}

// IntRange builds a numeric range predicate.
func IntRange(field RangeField, min, max int64) FieldRange {
	return FieldRange{Field: field, MinInt: min, MaxInt: max}
}

// DateRange builds a calendar-date range predicate.
func DateRange(field RangeField, min, max Date) FieldRange {
	return FieldRange{Field: field, MinDate: min, MaxDate: max}
}

// IsDate reports whether the predicate targets a date attribute.
func (r FieldRange) IsDate() bool {
	return r.Field == FieldAddDate || r.Field == FieldDeleteDate
}

// Matches evaluates the predicate against a coil. A delete_date range never
// matches a live coil, mirroring how the store compares against null.
func (r FieldRange) Matches(c Coil) bool {
	switch r.Field {
	case FieldID:
		return c.ID >= r.MinInt && c.ID <= r.MaxInt
	case FieldLength:
		return c.Length >= r.MinInt && c.Length <= r.MaxInt
	case FieldWeight:
		return c.Weight >= r.MinInt && c.Weight <= r.MaxInt
	case FieldAddDate:
		return !c.AddDate.Before(r.MinDate) && !c.AddDate.After(r.MaxDate)
	case FieldDeleteDate:
		if c.DeleteDate == nil {
			return false
		}
		return !c.DeleteDate.Before(r.MinDate) && !c.DeleteDate.After(r.MaxDate)
	default:
		return false
	}
}
