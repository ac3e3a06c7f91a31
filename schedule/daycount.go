package schedule

// =============================================================================
// DAY COUNT - Inclusive ranges, no dedup
// =============================================================================

// Range is an inclusive [Start, End] date range.
type Range struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// SingleDay returns the range covering just d.
func SingleDay(d Date) Range {
	return Range{Start: d, End: d}
}

// Days returns End - Start + 1, or 0 for an inverted range.
func (r Range) Days() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return r.Start.DaysUntil(r.End) + 1
}

// Contains reports whether d falls inside the range.
func (r Range) Contains(d Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Overlaps reports whether the two ranges share at least one day.
func (r Range) Overlaps(other Range) bool {
	return !r.End.Before(other.Start) && !other.End.Before(r.Start)
}

// Validate rejects zero dates and inverted ranges.
func (r Range) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return invalid("period", "start and end dates are required")
	}
	if r.End.Before(r.Start) {
		return invalid("period", "end %s is before start %s", r.End, r.Start)
	}
	return nil
}

// TotalDays sums the inclusive day count of every range. Overlapping ranges
// are counted once per range: the submission form has one row per day.
func TotalDays(ranges []Range) int {
	total := 0
	for _, r := range ranges {
		total += r.Days()
	}
	return total
}

// Span returns the smallest range covering all of ranges. ok is false when
// ranges is empty.
func Span(ranges []Range) (span Range, ok bool) {
	for i, r := range ranges {
		if i == 0 {
			span = r
			continue
		}
		if r.Start.Before(span.Start) {
			span.Start = r.Start
		}
		if r.End.After(span.End) {
			span.End = r.End
		}
	}
	return span, len(ranges) > 0
}
