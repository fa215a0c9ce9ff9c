/*
Package calendar classifies calendar dates for the payroll engine.

PURPOSE:
  Payroll and billing arithmetic branches on what kind of day an operation
  falls on. This package answers three questions:

  - Is this date a NORMAL day, a SUNDAY, or a HOLIDAY?
  - Does this date range contain at least one Sunday?
  - Which ISO week does this date belong to?

KEY INSIGHT:
  All comparisons happen on NORMALIZED days. A date arriving as
  "2025-07-20T23:30:00-05:00" must classify the same as "2025-07-20";
  weekday arithmetic on raw timestamps produces off-by-one errors at day
  boundaries, so Normalize strips time-of-day and timezone first.

PRECEDENCE:
  HOLIDAY takes precedence over SUNDAY when a holiday lands on a Sunday
  (e.g. Independence Day on a Sunday classifies as HOLIDAY).

SEE ALSO:
  - holidays.go: The national holiday table (memoized per year)
*/
package calendar

import (
	"fmt"
	"time"

	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// DAY CLASSIFICATION
// =============================================================================

type DayType string

const (
	DayNormal  DayType = "NORMAL"
	DaySunday  DayType = "SUNDAY"
	DayHoliday DayType = "HOLIDAY"
)

// Classification is the derived, never-persisted description of one
// calendar day. Recomputed per call; the only cached state is the holiday
// table behind holidays.go.
type Classification struct {
	Date        time.Time
	DayType     DayType
	IsSunday    bool
	IsHoliday   bool
	HolidayName string
}

// Normalize strips the time-of-day and timezone from t, keeping the local
// calendar day. All weekday and holiday arithmetic operates on the result.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Classify maps a date to NORMAL, SUNDAY, or HOLIDAY. A holiday that falls
// on a Sunday classifies as HOLIDAY.
func Classify(t time.Time) Classification {
	day := Normalize(t)
	c := Classification{Date: day, DayType: DayNormal}

	c.IsSunday = day.Weekday() == time.Sunday
	if name, ok := holidayName(day); ok {
		c.IsHoliday = true
		c.HolidayName = name
	}

	switch {
	case c.IsHoliday:
		c.DayType = DayHoliday
	case c.IsSunday:
		c.DayType = DaySunday
	}
	return c
}

// =============================================================================
// DATE RANGES
// =============================================================================

// Range is an inclusive span of calendar days.
type Range struct {
	Start time.Time
	End   time.Time
}

// NewRange normalizes both endpoints.
func NewRange(start, end time.Time) Range {
	return Range{Start: Normalize(start), End: Normalize(end)}
}

// IsZero reports whether the range carries no dates at all.
func (r Range) IsZero() bool { return r.Start.IsZero() && r.End.IsZero() }

// HasSunday walks every day in the range inclusive and returns true on the
// first Sunday found. An inverted or zero range contains no Sundays.
func (r Range) HasSunday() bool {
	return HasSundayInRange(r.Start, r.End)
}

func (r Range) String() string {
	return "[" + Normalize(r.Start).Format("2006-01-02") + ", " + Normalize(r.End).Format("2006-01-02") + "]"
}

// HasSundayInRange reports whether [start, end] contains at least one
// Sunday. This single answer decides which weekly limit applies, whether
// compensatory time accrues, and whether festive hours get the domingo
// provenance tag - so it is computed once per range, not per group.
func HasSundayInRange(start, end time.Time) bool {
	day := Normalize(start)
	last := Normalize(end)
	for !day.After(last) {
		if day.Weekday() == time.Sunday {
			return true
		}
		day = day.AddDate(0, 0, 1)
	}
	return false
}

// WeekNumber returns the ISO 8601 week of the date (weeks start Monday,
// the first week of a year is the one with at least 4 days in it).
func WeekNumber(t time.Time) int {
	_, week := Normalize(t).ISOWeek()
	return week
}

// ParseDay parses a "2006-01-02" date string from a collaborator. Failure
// is a caller error (tier 1), wrapped so the orchestrator can skip the
// offending group.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", engine.ErrUnparsableDate, s)
	}
	return t, nil
}
