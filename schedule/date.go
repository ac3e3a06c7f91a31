/*
Package schedule provides the pure scheduling core of the HR scheduler.

PURPOSE:
  Everything in this package is a pure function of its inputs: no I/O,
  no clocks, no shared mutable state. The request service in the requests
  package builds on it.

KEY CONCEPTS:
  - Date:        A plain calendar date (year/month/day), never an instant
  - WeekWindow:  The Saturday-to-Friday week used for WFH planning
  - Range:       An inclusive date range used for day counting
  - Planner:     Randomized WFH day assignment across a roster

DATES, NOT INSTANTS:
  Week boundaries and day counts are calendar questions. Converting a local
  date to a UTC instant and back can move it by a day around midnight, so
  Date carries only the Y/M/D components. Arithmetic is done on UTC
  midnight internally where there is no DST and every day is 24h long.
  Dates far from today are folded into a single 400-year cycle first, so
  day counts and week offsets never overflow time.Duration.

SEE ALSO:
  - week.go: WeekWindowResolver
  - planner.go: RandomAssignmentPlanner
  - daycount.go: Range and TotalDays
*/
package schedule

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for dates (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// =============================================================================
// DATE - Calendar date without time zone
// =============================================================================

// Date is a calendar date. The zero value is not a valid date.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the date for the given components, normalized the way
// time.Date normalizes them (e.g. Jan 32 becomes Feb 1).
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t as seen in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return DateOf(t), nil
}

// MustParseDate is ParseDate for literals; it panics on bad input.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// The Gregorian calendar repeats every 400 years, and 400 years is a whole
// number of weeks. Arithmetic runs on a copy of the date moved into
// [cycleAnchor, cycleAnchor+400) so time.Time never sees a year or day count
// it cannot represent; whole cycles are carried separately.
const (
	yearsPerCycle = 400
	daysPerCycle  = 146097
	cycleAnchor   = 2000
	secondsPerDay = 24 * 60 * 60
)

// anchored returns d moved into the anchor cycle as UTC midnight, and the
// number of years that were subtracted to get there.
func (d Date) anchored() (shift int, t time.Time) {
	off := d.Year % yearsPerCycle
	if off < 0 {
		off += yearsPerCycle
	}
	shift = d.Year - off - cycleAnchor
	return shift, time.Date(off+cycleAnchor, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Time returns midnight of d in loc.
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns d shifted by n calendar days. It is exact for any n.
func (d Date) AddDays(n int) Date {
	cycles, rem := n/daysPerCycle, n%daysPerCycle
	shift, t := d.anchored()
	out := DateOf(t.AddDate(0, 0, rem))
	out.Year += shift + cycles*yearsPerCycle
	return out
}

// DaysUntil returns the number of whole days from d to other (negative if
// other is earlier).
func (d Date) DaysUntil(other Date) int {
	fromShift, from := d.anchored()
	toShift, to := other.anchored()
	cycles := (toShift - fromShift) / yearsPerCycle
	return cycles*daysPerCycle + int((to.Unix()-from.Unix())/secondsPerDay)
}

// Comparison
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }
func (d Date) After(other Date) bool  { return d.Compare(other) > 0 }
func (d Date) Equal(other Date) bool  { return d == other }

// Compare returns -1, 0 or +1.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return cmpInt(d.Year, other.Year)
	case d.Month != other.Month:
		return cmpInt(int(d.Month), int(other.Month))
	default:
		return cmpInt(d.Day, other.Day)
	}
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// Weekday returns the day of the week of d.
func (d Date) Weekday() time.Weekday {
	_, t := d.anchored()
	return t.Weekday()
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// String formats d as YYYY-MM-DD, or "" for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Today returns the current local calendar date.
func Today() Date {
	return DateOf(time.Now())
}
