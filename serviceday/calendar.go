package serviceday

import (
	"fmt"
	"time"
)

const (
	// DefaultTimezone is the agency timezone used when none is configured.
	DefaultTimezone = "America/New_York"

	// CutoverHour is the local hour at which a new service day begins.
	CutoverHour = 3
)

// Date is a calendar date with no time or location attached.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in its own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	// noon avoids landing on a skipped or repeated hour
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 12, 0, 0, 0, time.UTC))
}

// At returns the instant at the given wall-clock time of d in loc.
func (d Date) At(hour, minute, sec int, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, hour, minute, sec, 0, loc)
}

// Format returns the date as YYYYMMDD, the GTFS start_date form.
func (d Date) Format() string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, int(d.Month), d.Day)
}

// ISO returns the date as YYYY-MM-DD.
func (d Date) ISO() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) String() string { return d.ISO() }

// Calendar converts instants to service days in one agency timezone.
type Calendar struct {
	loc *time.Location
}

// NewCalendar returns a calendar for loc. A nil loc means DefaultTimezone.
func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = MustLoadLocation(DefaultTimezone)
	}
	return Calendar{loc: loc}
}

// MustLoadLocation loads an IANA timezone or panics. Intended for constants.
func MustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("serviceday: loading timezone %q: %v", name, err))
	}
	return loc
}

// Location returns the agency timezone.
func (c Calendar) Location() *time.Location { return c.loc }

// Local converts t to the agency timezone.
func (c Calendar) Local(t time.Time) time.Time { return t.In(c.loc) }

// ServiceDay returns the service day that t belongs to. Local times before
// 03:00:00 belong to the previous calendar date.
func (c Calendar) ServiceDay(t time.Time) Date {
	local := t.In(c.loc)
	day := DateOf(local)
	if local.Hour() < CutoverHour {
		return day.AddDays(-1)
	}
	return day
}

// Window returns the operating window of t's service day: 03:00:00 local on
// the service day through 02:59:59 local on the following date, inclusive.
func (c Calendar) Window(t time.Time) Period {
	day := c.ServiceDay(t)
	return Period{
		Start: day.At(CutoverHour, 0, 0, c.loc),
		End:   day.AddDays(1).At(CutoverHour-1, 59, 59, c.loc),
	}
}

// SameServiceDay reports whether a and b fall on the same service day.
func (c Calendar) SameServiceDay(a, b time.Time) bool {
	return c.ServiceDay(a) == c.ServiceDay(b)
}

// ExtendedTime formats t as HH:MM:SS local time, adding 24 to the hour when
// t is before the cutover so it sorts after the rest of the service day.
func (c Calendar) ExtendedTime(t time.Time) string {
	local := t.In(c.loc)
	hour := local.Hour()
	if hour < CutoverHour {
		hour += 24
	}
	return fmt.Sprintf("%02d:%02d:%02d", hour, local.Minute(), local.Second())
}
