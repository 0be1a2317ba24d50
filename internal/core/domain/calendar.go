package domain

import "time"

// Calendar answers business-day questions against a fixed holiday set.
// Dates are normalized to UTC midnight before any comparison, so callers
// may pass timestamps freely.
type Calendar struct {
	holidays map[time.Time]bool
}

// NewCalendar builds a calendar from an explicit holiday list.
func NewCalendar(holidays []time.Time) *Calendar {
	set := make(map[time.Time]bool, len(holidays))
	for _, h := range holidays {
		set[DateOnly(h)] = true
	}
	return &Calendar{holidays: set}
}

// NewComputedCalendar builds a calendar from the fixed company holiday rules
// for every year in [startYear, endYear].
func NewComputedCalendar(startYear, endYear int) *Calendar {
	var holidays []time.Time
	for y := startYear; y <= endYear; y++ {
		holidays = append(holidays, ComputedHolidays(y)...)
	}
	return NewCalendar(holidays)
}

// ComputedHolidays returns the ten company holidays for a single year:
// Jan 1, Jan 2, Memorial Day, Jul 4, Labor Day, Veterans Day, Thanksgiving
// and the day after, Dec 25, Dec 26.
func ComputedHolidays(year int) []time.Time {
	// Memorial Day: last Monday of May.
	may31 := Date(year, time.May, 31)
	memorial := may31.AddDate(0, 0, -((int(may31.Weekday()) + 6) % 7))

	// Labor Day: first Monday of September.
	sep1 := Date(year, time.September, 1)
	labor := sep1.AddDate(0, 0, (8-int(sep1.Weekday()))%7)

	// Thanksgiving: fourth Thursday of November.
	nov1 := Date(year, time.November, 1)
	firstThursday := nov1.AddDate(0, 0, (int(time.Thursday)-int(nov1.Weekday())+7)%7)
	thanksgiving := firstThursday.AddDate(0, 0, 21)

	return []time.Time{
		Date(year, time.January, 1),
		Date(year, time.January, 2),
		memorial,
		Date(year, time.July, 4),
		labor,
		Date(year, time.November, 11),
		thanksgiving,
		thanksgiving.AddDate(0, 0, 1),
		Date(year, time.December, 25),
		Date(year, time.December, 26),
	}
}

// IsHoliday reports whether the given date is in the holiday set.
func (c *Calendar) IsHoliday(d time.Time) bool {
	return c.holidays[DateOnly(d)]
}

// IsBusinessDay reports whether the given date is a weekday outside the
// holiday set.
func (c *Calendar) IsBusinessDay(d time.Time) bool {
	d = DateOnly(d)
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return !c.holidays[d]
}

// PreviousBusinessDay returns the most recent business day strictly before
// the reference date.
func (c *Calendar) PreviousBusinessDay(reference time.Time) time.Time {
	candidate := DateOnly(reference).AddDate(0, 0, -1)
	for !c.IsBusinessDay(candidate) {
		candidate = candidate.AddDate(0, 0, -1)
	}
	return candidate
}

// NthBusinessDayAfter returns the date of the nth business day after the
// reference date. The reference itself is never counted.
func (c *Calendar) NthBusinessDayAfter(reference time.Time, n int) time.Time {
	return c.walk(reference, n, 1)
}

// NthBusinessDayBefore returns the date of the nth business day before the
// reference date. The reference itself is never counted.
func (c *Calendar) NthBusinessDayBefore(reference time.Time, n int) time.Time {
	return c.walk(reference, n, -1)
}

func (c *Calendar) walk(reference time.Time, n, direction int) time.Time {
	candidate := DateOnly(reference)
	counted := 0
	for counted < n {
		candidate = candidate.AddDate(0, 0, direction)
		if c.IsBusinessDay(candidate) {
			counted++
		}
	}
	return candidate
}

// Date constructs a UTC-midnight date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOnly truncates a timestamp to its UTC-midnight date.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
