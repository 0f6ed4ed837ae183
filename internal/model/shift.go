package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time parsed from "HH:MM".
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM" (single-digit hours are accepted).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hs, ms, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return TimeOfDay{}, fmt.Errorf("time of day %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("time of day %q: bad hour: %w", s, err)
	}
	m, err := strconv.Atoi(ms)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("time of day %q: bad minute: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day %q: out of range", s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

func (t TimeOfDay) minutes() int {
	return t.Hour*60 + t.Minute
}

// On returns t on date d in loc.
func (t TimeOfDay) On(d Date, loc *time.Location) time.Time {
	return d.At(t.Hour, t.Minute, loc)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ShiftTimeRange is the wall-clock span of a shift code.
type ShiftTimeRange struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Overnight reports whether the shift ends on the day after it starts,
// i.e. End is not later than Start.
func (r ShiftTimeRange) Overnight() bool {
	return r.End.minutes() <= r.Start.minutes()
}

// ShiftMap maps upper-cased shift codes to their time range.
type ShiftMap map[string]ShiftTimeRange

// Lookup finds the range for the upper-cased roster code. Map keys are matched
// exactly, so a lowercase key is never found.
func (m ShiftMap) Lookup(code string) (ShiftTimeRange, bool) {
	r, ok := m[strings.ToUpper(code)]
	return r, ok
}

// RosterMonth is one month of roster codes, one per day from day 1.
type RosterMonth struct {
	Year  int
	Month time.Month

	// AnchorDay is the day of month the duty cycle starts on. Zero means 1.
	AnchorDay int

	Codes        []string
	HolidayLines []string
}

// First returns the first day of the roster month.
func (r RosterMonth) First() Date {
	return Date{Year: r.Year, Month: r.Month, Day: 1}
}

// CycleStart returns the date the duty cycle is anchored on.
func (r RosterMonth) CycleStart() Date {
	if r.AnchorDay <= 0 {
		return r.First()
	}
	return Date{Year: r.Year, Month: r.Month, Day: r.AnchorDay}
}

// Day returns the calendar date of roster index i (0-based).
func (r RosterMonth) Day(i int) Date {
	return r.First().AddDays(i)
}
