package model

import (
	"sort"
	"time"
)

// Date is a civil calendar date with no time-of-day or timezone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate normalizes its arguments the same way time.Date does, so
// NewDate(2024, 6, 31) is 2024-07-01.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a "2006-01-02" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

func (d Date) utc() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.utc().AddDate(0, 0, n))
}

// DaysSince returns the number of days from other to d. It is negative if d
// is before other.
func (d Date) DaysSince(other Date) int {
	// Both sides are UTC midnights, so the difference is a whole number of days.
	return int(d.utc().Sub(other.utc()).Hours() / 24)
}

func (d Date) Before(other Date) bool {
	return d.utc().Before(other.utc())
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// At returns the wall-clock time h:m on d in loc.
func (d Date) At(h, m int, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, h, m, 0, 0, loc)
}

// In returns local midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return d.At(0, 0, loc)
}

func (d Date) String() string {
	return d.utc().Format(time.DateOnly)
}

// DateSet is an unordered set of dates.
type DateSet map[Date]struct{}

func NewDateSet(dates ...Date) DateSet {
	s := make(DateSet, len(dates))
	for _, d := range dates {
		s.Add(d)
	}
	return s
}

func (s DateSet) Add(d Date) {
	s[d] = struct{}{}
}

func (s DateSet) Has(d Date) bool {
	_, ok := s[d]
	return ok
}

func (s DateSet) Len() int {
	return len(s)
}

// Union returns a new set holding the dates of s and other.
func (s DateSet) Union(other DateSet) DateSet {
	out := make(DateSet, len(s)+len(other))
	for d := range s {
		out.Add(d)
	}
	for d := range other {
		out.Add(d)
	}
	return out
}

// Sorted returns the dates in ascending order.
func (s DateSet) Sorted() []Date {
	out := make([]Date, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
