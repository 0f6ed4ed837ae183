package ics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rostercal/internal/model"
)

func dublin(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Dublin")
	require.NoError(t, err)
	return loc
}

func sampleEvents(loc *time.Location) ([]model.ShiftEvent, []model.CycleEvent) {
	shifts := []model.ShiftEvent{
		{
			UID:   "shift-1",
			Name:  "D",
			Code:  "D",
			Day:   model.NewDate(2024, 6, 1),
			Start: time.Date(2024, 6, 1, 8, 0, 0, 0, loc),
			End:   time.Date(2024, 6, 1, 16, 0, 0, 0, loc),
		},
		{
			UID:   "shift-2",
			Name:  "N (OT)",
			Code:  "n",
			Day:   model.NewDate(2024, 6, 4),
			Start: time.Date(2024, 6, 3, 22, 0, 0, 0, loc),
			End:   time.Date(2024, 6, 4, 6, 0, 0, 0, loc),
		},
	}
	cycles := []model.CycleEvent{
		{
			UID:      "cycle-1",
			Label:    "Day 1",
			First:    model.NewDate(2024, 6, 1),
			Interval: 8,
			ExDates:  []model.Date{model.NewDate(2024, 6, 1), model.NewDate(2024, 6, 17)},
		},
		{
			UID:      "cycle-4",
			Label:    "Day 4",
			Position: 3,
			First:    model.NewDate(2024, 6, 4),
			Interval: 8,
			ExDates:  []model.Date{model.NewDate(2024, 6, 4)},
		},
	}
	return shifts, cycles
}

func TestCycleRRule(t *testing.T) {
	assert.Equal(t, "FREQ=DAILY;INTERVAL=8", CycleRRule(8))
}

func TestBuildCalendarSerialization(t *testing.T) {
	loc := dublin(t)
	shifts, cycles := sampleEvents(loc)

	cal := BuildCalendar(shifts, cycles, BuildOptions{
		ProductID: "-//test//EN",
		Now:       time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC),
	})
	body := cal.Serialize()

	for _, want := range []string{
		"PRODID:-//test//EN",
		"METHOD:PUBLISH",
		"UID:shift-1",
		"SUMMARY:D",
		// 08:00 Irish summer time is 07:00 UTC.
		"DTSTART:20240601T070000Z",
		"DTEND:20240601T150000Z",
		"SUMMARY:N (OT)",
		"DTSTART:20240603T210000Z",
		"DTEND:20240604T050000Z",
		"DTSTAMP:20240520T120000Z",
		"SUMMARY:Day 1",
		"DTSTART;VALUE=DATE:20240601",
		"DTEND;VALUE=DATE:20240602",
		"RRULE:FREQ=DAILY;INTERVAL=8",
		"EXDATE;VALUE=DATE:20240601",
		"EXDATE;VALUE=DATE:20240617",
		"EXDATE;VALUE=DATE:20240604",
	} {
		assert.Contains(t, body, want)
	}
	assert.Equal(t, 4, strings.Count(body, "BEGIN:VEVENT"))
	assert.Equal(t, 3, strings.Count(body, "EXDATE"))
}

func TestRoundTripExpansion(t *testing.T) {
	loc := dublin(t)
	shifts, cycles := sampleEvents(loc)
	body := BuildCalendar(shifts, cycles, BuildOptions{}).Serialize()

	events, err := ParseICS(Source{ID: "test"}, []byte(body), loc)
	require.NoError(t, err)
	require.Len(t, events, 4)

	res, err := ExpandOccurrences(events, ExpandConfig{
		DisplayLocation: loc,
		RangeStart:      time.Date(2024, 6, 1, 0, 0, 0, 0, loc),
		RangeEnd:        time.Date(2024, 6, 30, 23, 59, 59, 0, loc),
	})
	require.NoError(t, err)
	assert.Empty(t, res.TruncatedEvents)

	var day1, day4 []int
	var timed []string
	for _, occ := range res.Occurrences {
		switch occ.Summary {
		case "Day 1":
			assert.True(t, occ.AllDay)
			nextMidnight := time.Date(occ.Start.Year(), occ.Start.Month(), occ.Start.Day()+1, 0, 0, 0, 0, loc)
			assert.True(t, occ.End.Equal(nextMidnight), "all-day end %s", occ.End)
			day1 = append(day1, occ.Start.Day())
		case "Day 4":
			day4 = append(day4, occ.Start.Day())
		default:
			assert.False(t, occ.AllDay)
			timed = append(timed, occ.Summary)
		}
	}

	// June 1 and 17 are suppressed.
	assert.Equal(t, []int{9, 25}, day1)
	assert.Equal(t, []int{12, 20, 28}, day4)
	assert.Equal(t, []string{"D", "N (OT)"}, timed)

	for i := 1; i < len(res.Occurrences); i++ {
		assert.False(t, res.Occurrences[i].Start.Before(res.Occurrences[i-1].Start), "occurrences sorted")
	}
}

func TestParseICSSkipsBrokenEvents(t *testing.T) {
	body := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//EN",
		"BEGIN:VEVENT",
		"SUMMARY:no uid",
		"DTSTART:20240601T080000Z",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:ok",
		"SUMMARY:floating all-day",
		"DTSTART:20240602",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	loc := dublin(t)
	events, err := ParseICS(Source{ID: "test"}, []byte(body), loc)
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.True(t, ev.AllDay)
	assert.True(t, ev.Start.Equal(time.Date(2024, 6, 2, 0, 0, 0, 0, loc)), "start %s", ev.Start)
	assert.True(t, ev.End.Equal(time.Date(2024, 6, 3, 0, 0, 0, 0, loc)), "end %s", ev.End)
}

func TestParseICSEmpty(t *testing.T) {
	_, err := ParseICS(Source{ID: "empty"}, nil, time.UTC)
	assert.Error(t, err)
}

func TestExpandRejectsInvertedRange(t *testing.T) {
	now := time.Now()
	_, err := ExpandOccurrences(nil, ExpandConfig{RangeStart: now, RangeEnd: now.Add(-time.Hour)})
	assert.Error(t, err)
}

func TestExpandCapsUnboundedRules(t *testing.T) {
	ev := ParsedEvent{
		UID:      "daily",
		Summary:  "every day",
		Start:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		AllDay:   true,
		RawRRule: "FREQ=DAILY",
	}
	res, err := ExpandOccurrences([]ParsedEvent{ev}, ExpandConfig{
		DisplayLocation:        time.UTC,
		RangeStart:             ev.Start,
		RangeEnd:               ev.Start.AddDate(0, 0, 30),
		MaxOccurrencesPerEvent: 10,
	})
	require.NoError(t, err)
	assert.Len(t, res.Occurrences, 10)
	assert.Equal(t, []string{"daily"}, res.TruncatedEvents)
}

func TestWriteFile(t *testing.T) {
	shifts, cycles := sampleEvents(time.UTC)
	cal := BuildCalendar(shifts, cycles, BuildOptions{})

	path := filepath.Join(t.TempDir(), "out", "roster.ics")
	require.NoError(t, WriteFile(path, cal))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "BEGIN:VCALENDAR"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	events, err := ParseFile(path, time.UTC)
	require.NoError(t, err)
	assert.Len(t, events, 4)

	assert.Error(t, WriteFile("", cal))
	assert.Error(t, WriteFile(path, nil))
}
