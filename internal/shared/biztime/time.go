// Package biztime provides business timezone calculations.
// Storage and transport use UTC. The business timezone only decides calendar
// boundaries: which date "today" is and when a lesson minute falls.
//
// Date-only values (session dates) are represented as UTC midnight of the
// business calendar date.
package biztime

import (
	"fmt"
	"regexp"
	"strconv"
	"sync"
	"time"
)

const (
	// DefaultTimezone is the default business timezone.
	DefaultTimezone = "Asia/Tashkent"

	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"

	MinutesPerDay = 24 * 60
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

var (
	mu          sync.RWMutex
	bizLocation *time.Location
)

// Init sets the business timezone. An empty tz selects DefaultTimezone.
func Init(tz string) error {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("failed to load business timezone %q: %w", tz, err)
	}
	mu.Lock()
	bizLocation = loc
	mu.Unlock()
	return nil
}

// MustInit initializes the business timezone and panics on error.
func MustInit(tz string) {
	if err := Init(tz); err != nil {
		panic(err)
	}
}

// Location returns the business timezone, initializing the default on first use.
func Location() *time.Location {
	mu.RLock()
	loc := bizLocation
	mu.RUnlock()
	if loc != nil {
		return loc
	}
	if err := Init(""); err != nil {
		panic(fmt.Sprintf("biztime: failed to auto-initialize: %v", err))
	}
	return Location()
}

// Clock supplies the current instant. Use cases take a Clock so tests can pin time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c).UTC() }

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// DateOf returns the business calendar date of t as a date-only value.
func DateOf(t time.Time) time.Time {
	b := t.In(Location())
	return time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
}

// AtMinute returns the UTC instant of minute-of-day m on the business
// calendar date d.
func AtMinute(d time.Time, m int) time.Time {
	midnight := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, Location())
	return midnight.Add(time.Duration(m) * time.Minute).UTC()
}

// StartOfDayUTC returns business-timezone midnight of t's business date, in UTC.
func StartOfDayUTC(t time.Time) time.Time {
	return AtMinute(DateOf(t), 0)
}

// ParseDate parses YYYY-MM-DD into a date-only value.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format %q: %w", s, err)
	}
	return d, nil
}

// MonthRange parses "YYYY-MM" and returns the first date of that month and
// the first date of the following month, both date-only values.
func MonthRange(month string) (from, to time.Time, err error) {
	if !monthPattern.MatchString(month) {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q: expected YYYY-MM", month)
	}
	year, _ := strconv.Atoi(month[:4])
	mon, _ := strconv.Atoi(month[5:])
	if year < 1970 || year > 9999 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q: year out of range", month)
	}
	from = time.Date(year, time.Month(mon), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0), nil
}

// FormatDate renders a date-only value.
func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// ToBizTimezone converts a UTC time to business timezone for display.
func ToBizTimezone(t time.Time) time.Time {
	return t.In(Location())
}
