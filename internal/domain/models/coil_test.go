package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoilJSONDates(t *testing.T) {
	live := Coil{ID: 1, Length: 100, Weight: 50, AddDate: NewDate(2024, time.January, 5)}

	data, err := json.Marshal(live)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"length":100,"weight":50,"add_date":"2024-01-05","delete_date":null}`, string(data))

	var decoded Coil
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.AddDate.Equal(live.AddDate))
	assert.Nil(t, decoded.DeleteDate)

	deleteDate := NewDate(2024, time.February, 1)
	gone := Coil{ID: 2, Length: 10, Weight: 20, AddDate: live.AddDate, DeleteDate: &deleteDate}

	data, err = json.Marshal(gone)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"delete_date":"2024-02-01"`)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-31", d.String())

	_, err = ParseDate("31-01-2024")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ParseDate("2024-13-99")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestEligibleWithin(t *testing.T) {
	start := NewDate(2024, time.January, 1)
	end := NewDate(2024, time.January, 31)

	deleted := func(add, del Date) Coil {
		return Coil{AddDate: add, DeleteDate: &del}
	}
	live := func(add Date) Coil {
		return Coil{AddDate: add}
	}

	tests := []struct {
		name string
		coil Coil
		want bool
	}{
		{
			name: "deleted before window and added before end is out of scope",
			coil: deleted(NewDate(2023, time.December, 1), NewDate(2023, time.December, 15)),
			want: false,
		},
		{
			name: "deleted inside window is in scope",
			coil: deleted(NewDate(2023, time.December, 1), NewDate(2024, time.January, 5)),
			want: true,
		},
		{
			name: "deleted after window is in scope",
			coil: deleted(NewDate(2024, time.January, 2), NewDate(2024, time.February, 10)),
			want: true,
		},
		{
			// The NOT clause passes whenever add_date >= end, even though
			// the coil was gone before the window opened. Documented
			// compatibility quirk, not a bug to fix here.
			name: "deleted before window but added on end boundary is in scope",
			coil: deleted(NewDate(2024, time.January, 31), NewDate(2023, time.December, 15)),
			want: true,
		},
		{
			name: "live coil added before window is out of scope",
			coil: live(NewDate(2023, time.December, 31)),
			want: false,
		},
		{
			name: "live coil added inside window is in scope",
			coil: live(NewDate(2024, time.January, 15)),
			want: true,
		},
		{
			name: "live coil added on start boundary is in scope",
			coil: live(start),
			want: true,
		},
		{
			// Falls out of the null-comparison reduction: a live coil only
			// needs add_date >= start.
			name: "live coil added after window is in scope",
			coil: live(NewDate(2024, time.February, 15)),
			want: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.coil.EligibleWithin(start, end))
		})
	}
}

func TestFieldRangeMatches(t *testing.T) {
	deleteDate := NewDate(2024, time.January, 10)
	coil := Coil{
		ID:         7,
		Length:     100,
		Weight:     50,
		AddDate:    NewDate(2024, time.January, 2),
		DeleteDate: &deleteDate,
	}

	assert.True(t, IntRange(FieldID, 7, 7).Matches(coil), "bounds are inclusive")
	assert.True(t, IntRange(FieldWeight, 1, 50).Matches(coil))
	assert.False(t, IntRange(FieldLength, 101, 200).Matches(coil))

	assert.True(t, DateRange(FieldAddDate, NewDate(2024, time.January, 1), NewDate(2024, time.January, 2)).Matches(coil))
	assert.True(t, DateRange(FieldDeleteDate, NewDate(2024, time.January, 1), NewDate(2024, time.January, 31)).Matches(coil))

	liveCoil := Coil{ID: 8, Length: 10, Weight: 10, AddDate: NewDate(2024, time.January, 2)}
	assert.False(t, DateRange(FieldDeleteDate, NewDate(2000, time.January, 1), NewDate(2100, time.January, 1)).Matches(liveCoil),
		"a delete_date range never matches a live coil")
}

func TestStaySeconds(t *testing.T) {
	del := NewDate(2024, time.January, 10)
	coil := Coil{AddDate: NewDate(2024, time.January, 2), DeleteDate: &del}
	assert.Equal(t, float64(8*24*3600), coil.StaySeconds())

	assert.Zero(t, Coil{AddDate: del}.StaySeconds())
}
