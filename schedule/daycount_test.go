package schedule_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/hr-scheduler/schedule"
)

func TestTotalDays(t *testing.T) {
	tests := []struct {
		name   string
		ranges []schedule.Range
		want   int
	}{
		{"empty", nil, 0},
		{"single day", []schedule.Range{{Start: date("2024-01-01"), End: date("2024-01-01")}}, 1},
		{"three days", []schedule.Range{{Start: date("2024-01-01"), End: date("2024-01-03")}}, 3},
		{
			"same day twice is not deduplicated",
			[]schedule.Range{
				{Start: date("2024-01-01"), End: date("2024-01-01")},
				{Start: date("2024-01-01"), End: date("2024-01-01")},
			},
			2,
		},
		{"across month end", []schedule.Range{{Start: date("2024-02-28"), End: date("2024-03-01")}}, 3},
		{"inverted counts zero", []schedule.Range{{Start: date("2024-01-03"), End: date("2024-01-01")}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, schedule.TotalDays(tt.ranges))
		})
	}
}

func TestRange_Validate(t *testing.T) {
	assert.NoError(t, schedule.SingleDay(date("2024-01-01")).Validate())

	err := schedule.Range{Start: date("2024-01-03"), End: date("2024-01-01")}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, schedule.ErrValidation))

	err = schedule.Range{Start: date("2024-01-03")}.Validate()
	var vErr *schedule.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "period", vErr.Field)
}

func TestRange_Overlaps(t *testing.T) {
	a := schedule.Range{Start: date("2024-01-01"), End: date("2024-01-05")}

	assert.True(t, a.Overlaps(schedule.SingleDay(date("2024-01-05"))))
	assert.True(t, a.Overlaps(schedule.Range{Start: date("2023-12-30"), End: date("2024-01-01")}))
	assert.False(t, a.Overlaps(schedule.SingleDay(date("2024-01-06"))))
}

func TestSpan(t *testing.T) {
	span, ok := schedule.Span([]schedule.Range{
		schedule.SingleDay(date("2024-01-10")),
		{Start: date("2024-01-02"), End: date("2024-01-04")},
		schedule.SingleDay(date("2024-01-07")),
	})
	require.True(t, ok)
	assert.Equal(t, date("2024-01-02"), span.Start)
	assert.Equal(t, date("2024-01-10"), span.End)

	_, ok = schedule.Span(nil)
	assert.False(t, ok)
}

func TestDate_JSONRoundTrip(t *testing.T) {
	raw, err := json.Marshal(schedule.Range{Start: date("2024-06-08"), End: date("2024-06-14")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2024-06-08","end":"2024-06-14"}`, string(raw))

	var r schedule.Range
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2024-02-29","end":"2024-03-01"}`), &r))
	assert.Equal(t, 2, r.Days())

	assert.Error(t, json.Unmarshal([]byte(`{"start":"2024-02-30","end":"2024-03-01"}`), &r))
}

func TestDate_Normalization(t *testing.T) {
	assert.Equal(t, date("2024-02-01"), schedule.NewDate(2024, 1, 32))
	assert.Equal(t, date("2024-03-01"), date("2024-02-28").AddDays(2))
	assert.Equal(t, -3, date("2024-01-04").DaysUntil(date("2024-01-01")))
	assert.Equal(t, "", schedule.Date{}.String())
}

func TestRange_DaysAcrossCenturies(t *testing.T) {
	// GIVEN: Ranges longer than time.Duration can hold (~292 years)
	// WHEN: Counting days
	// THEN: The count is exact

	assert.Equal(t, 118339, schedule.Range{Start: date("1700-01-01"), End: date("2024-01-01")}.Days())
	assert.Equal(t, 365242, schedule.Range{Start: date("1000-01-01"), End: date("1999-12-31")}.Days())
	assert.Equal(t, 146098, schedule.Range{Start: date("2000-03-01"), End: date("2400-03-01")}.Days())
	assert.Equal(t, -118338, date("2024-01-01").DaysUntil(date("1700-01-01")))
}
