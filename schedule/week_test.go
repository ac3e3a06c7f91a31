package schedule_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/hr-scheduler/schedule"
)

func date(s string) schedule.Date {
	return schedule.MustParseDate(s)
}

// =============================================================================
// DAY INDEX REMAP
// =============================================================================

func TestDayIndex_SaturdayFirst(t *testing.T) {
	expected := map[time.Weekday]int{
		time.Saturday:  0,
		time.Sunday:    1,
		time.Monday:    2,
		time.Tuesday:   3,
		time.Wednesday: 4,
		time.Thursday:  5,
		time.Friday:    6,
	}
	for wd, idx := range expected {
		assert.Equal(t, idx, schedule.DayIndex(wd), wd.String())
	}
}

// =============================================================================
// WEEK WINDOW SCENARIOS
// =============================================================================

func TestResolveWeek_MidWeekReference(t *testing.T) {
	// GIVEN: Wednesday 2024-06-12
	// WHEN: Resolving offset 0
	// THEN: Sat 2024-06-08 .. Fri 2024-06-14, Friday is the holiday

	w := schedule.ResolveWeek(date("2024-06-12"), 0)

	assert.Equal(t, date("2024-06-08"), w.Start)
	assert.Equal(t, date("2024-06-14"), w.End)
	require.Len(t, w.Days, 7)

	holidays := w.Holidays()
	require.Len(t, holidays, 1)
	assert.Equal(t, date("2024-06-14"), holidays[0].Date)
}

func TestResolveWeek_NextWeek(t *testing.T) {
	w := schedule.ResolveWeek(date("2024-06-12"), 1)

	assert.Equal(t, date("2024-06-15"), w.Start)
	assert.Equal(t, date("2024-06-21"), w.End)
}

func TestResolveWeek_PreviousWeek(t *testing.T) {
	w := schedule.ResolveWeek(date("2024-06-12"), -1)

	assert.Equal(t, date("2024-06-01"), w.Start)
	assert.Equal(t, date("2024-06-07"), w.End)
}

func TestResolveWeek_SaturdayIsItsOwnStart(t *testing.T) {
	w := schedule.ResolveWeek(date("2024-06-08"), 0)
	assert.Equal(t, date("2024-06-08"), w.Start)
}

func TestResolveWeek_FridayBelongsToWeekBeforeIt(t *testing.T) {
	w := schedule.ResolveWeek(date("2024-06-14"), 0)
	assert.Equal(t, date("2024-06-08"), w.Start)
	assert.Equal(t, date("2024-06-14"), w.End)
}

func TestResolveWeek_CrossesYearBoundary(t *testing.T) {
	// 2025-01-01 is a Wednesday; its week starts Saturday 2024-12-28
	w := schedule.ResolveWeek(date("2025-01-01"), 0)

	assert.Equal(t, date("2024-12-28"), w.Start)
	assert.Equal(t, date("2025-01-03"), w.End)
}

func TestResolveWeek_ShortNames(t *testing.T) {
	w := schedule.ResolveWeek(date("2024-06-12"), 0)

	names := make([]string, len(w.Days))
	for i, d := range w.Days {
		names[i] = d.ShortName
	}
	assert.Equal(t, []string{"Sat", "Sun", "Mon", "Tue", "Wed", "Thu", "Fri"}, names)
}

func TestResolveWeek_LocalMidnightDoesNotShiftDay(t *testing.T) {
	// GIVEN: 00:30 local time in Cairo (UTC+2/+3), which is the previous day in UTC
	// WHEN: Taking its calendar date
	// THEN: The local day is kept

	cairo := time.FixedZone("EET", 2*60*60)
	ref := schedule.DateOf(time.Date(2024, time.June, 15, 0, 30, 0, 0, cairo))

	assert.Equal(t, date("2024-06-15"), ref)
	w := schedule.ResolveWeek(ref, 0)
	assert.Equal(t, date("2024-06-15"), w.Start)
}

// =============================================================================
// PROPERTIES
// =============================================================================

func TestResolveWeek_Properties(t *testing.T) {
	ref := date("2023-01-01")
	for day := 0; day < 400; day += 3 {
		for offset := -5; offset <= 5; offset++ {
			w := schedule.ResolveWeek(ref.AddDays(day), offset)

			require.Len(t, w.Days, 7)
			assert.Equal(t, time.Saturday, w.Days[0].Date.Weekday())
			assert.Equal(t, time.Friday, w.Days[6].Date.Weekday())
			assert.Equal(t, w.Start, w.Days[0].Date)
			assert.Equal(t, w.End, w.Days[6].Date)

			for i, slot := range w.Days {
				assert.Equal(t, i == 6, slot.IsHoliday, "slot %d of %s", i, w.Start)
				if i > 0 {
					assert.Equal(t, 1, w.Days[i-1].Date.DaysUntil(slot.Date))
				}
			}

			next := schedule.ResolveWeek(ref.AddDays(day), offset+1)
			assert.Equal(t, w.Start.AddDays(7), next.Start)
		}
	}
}

func TestWeekWindow_WorkingDaysAndContains(t *testing.T) {
	w := schedule.ResolveWeek(date("2024-06-12"), 0)

	working := w.WorkingDays()
	require.Len(t, working, 6)
	for _, slot := range working {
		assert.False(t, slot.IsHoliday)
	}

	assert.True(t, w.Contains(date("2024-06-08")))
	assert.True(t, w.Contains(date("2024-06-14")))
	assert.False(t, w.Contains(date("2024-06-07")))
	assert.False(t, w.Contains(date("2024-06-15")))
}

func TestResolveWeek_ExtremeOffsets(t *testing.T) {
	// GIVEN: Offsets whose day count does not fit in an int
	// WHEN: Resolving the window
	// THEN: It is still Saturday..Friday and consecutive offsets are 7 days apart

	ref := date("2024-06-12")
	offsets := []int{
		math.MaxInt64/7 + 1,
		math.MaxInt64 - 1,
		math.MinInt64 + 1,
		-(math.MaxInt64/7 + 1),
		20871,
		-20871,
	}

	for _, k := range offsets {
		w := schedule.ResolveWeek(ref, k)

		require.Len(t, w.Days, 7)
		assert.Equal(t, time.Saturday, w.Start.Weekday(), "offset %d", k)
		assert.Equal(t, time.Friday, w.End.Weekday(), "offset %d", k)
		assert.Equal(t, w.Start.AddDays(6), w.End)
		assert.True(t, w.Days[6].IsHoliday)
		for i := 1; i < len(w.Days); i++ {
			assert.Equal(t, w.Days[i-1].Date.AddDays(1), w.Days[i].Date)
		}

		next := schedule.ResolveWeek(ref, k+1)
		assert.Equal(t, w.Start.AddDays(7), next.Start, "offset %d", k)
	}
}

func TestResolveWeek_FourHundredYearCycle(t *testing.T) {
	// 20871 weeks are exactly 400 years
	w := schedule.ResolveWeek(date("2024-06-12"), 20871)
	assert.Equal(t, date("2424-06-08"), w.Start)

	w = schedule.ResolveWeek(date("2024-06-12"), -20871)
	assert.Equal(t, date("1624-06-08"), w.Start)
}
