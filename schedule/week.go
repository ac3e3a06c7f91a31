package schedule

import "time"

// =============================================================================
// WEEK WINDOW - Saturday to Friday, Friday is the holiday
// =============================================================================

const (
	// WeekStart is the first day of the organization's week.
	WeekStart = time.Saturday

	// HolidayWeekday is the fixed weekly non-working day.
	HolidayWeekday = time.Friday

	// DaysPerWeek is the length of a week window.
	DaysPerWeek = 7
)

// DaySlot is one day of a week window.
type DaySlot struct {
	Date      Date
	ShortName string // "Sat", "Sun", ...
	IsHoliday bool
}

// WeekWindow is the 7-day Saturday..Friday period.
type WeekWindow struct {
	Start Date
	End   Date
	Days  []DaySlot
}

// weeksPerCycle is the number of whole weeks in a 400-year calendar cycle.
const weeksPerCycle = daysPerCycle / DaysPerWeek

// DayIndex maps a weekday to its position in a Saturday-first week:
// Saturday=0, Sunday=1, ..., Friday=6. time.Weekday is Sunday-first, so the
// remap must be explicit.
func DayIndex(wd time.Weekday) int {
	return (int(wd) - int(WeekStart) + DaysPerWeek) % DaysPerWeek
}

// StartOfWeek returns the most recent Saturday on or before d.
func StartOfWeek(d Date) Date {
	return d.AddDays(-DayIndex(d.Weekday()))
}

// ResolveWeek returns the week window containing ref, shifted by weekOffset
// whole weeks. Offset 0 is the week containing ref. Any int offset is
// accepted; whole 400-year cycles are moved by year so weekOffset*7 is
// never computed.
func ResolveWeek(ref Date, weekOffset int) WeekWindow {
	start := StartOfWeek(ref)
	start.Year += weekOffset / weeksPerCycle * yearsPerCycle
	start = start.AddDays(weekOffset % weeksPerCycle * DaysPerWeek)

	days := make([]DaySlot, DaysPerWeek)
	for i := range days {
		date := start.AddDays(i)
		wd := date.Weekday()
		days[i] = DaySlot{
			Date:      date,
			ShortName: wd.String()[:3],
			IsHoliday: wd == HolidayWeekday,
		}
	}

	return WeekWindow{
		Start: start,
		End:   start.AddDays(DaysPerWeek - 1),
		Days:  days,
	}
}

// WorkingDays returns the non-holiday slots in order.
func (w WeekWindow) WorkingDays() []DaySlot {
	var out []DaySlot
	for _, slot := range w.Days {
		if !slot.IsHoliday {
			out = append(out, slot)
		}
	}
	return out
}

// Holidays returns the holiday slots in order.
func (w WeekWindow) Holidays() []DaySlot {
	var out []DaySlot
	for _, slot := range w.Days {
		if slot.IsHoliday {
			out = append(out, slot)
		}
	}
	return out
}

// Contains reports whether d falls inside the window.
func (w WeekWindow) Contains(d Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// Range returns the window as an inclusive date range.
func (w WeekWindow) Range() Range {
	return Range{Start: w.Start, End: w.End}
}
