package rota

import (
	"fmt"

	"rostercal/internal/model"
)

const (
	DefaultCycleLength   = 8
	DefaultCycleLabelled = 6
	DefaultLabelFormat   = "Day %d"
)

// CycleOptions describes the repeating duty cycle.
type CycleOptions struct {
	// Length is the cycle period in days.
	Length int
	// Labelled is how many leading positions get an event. The remaining
	// positions are cycle rest days.
	Labelled int
	// LabelFormat receives the 1-based position.
	LabelFormat string
}

// DefaultCycleOptions is the 8-day cycle with "Day 1".."Day 6" labelled.
func DefaultCycleOptions() CycleOptions {
	return CycleOptions{
		Length:      DefaultCycleLength,
		Labelled:    DefaultCycleLabelled,
		LabelFormat: DefaultLabelFormat,
	}
}

func (o CycleOptions) normalized() CycleOptions {
	if o.Length <= 0 {
		o.Length = DefaultCycleLength
	}
	if o.Labelled < 0 {
		o.Labelled = 0
	}
	if o.Labelled > o.Length {
		o.Labelled = o.Length
	}
	if o.LabelFormat == "" {
		o.LabelFormat = DefaultLabelFormat
	}
	return o
}

// BuildCycle returns one recurring event per labelled cycle position. The
// cycle is anchored at start: position p first occurs on start+p and repeats
// every Length days with no end.
//
// Each event suppresses the occurrences that land on a date in excluded,
// i.e. every E in excluded with E >= first and (E - first) % Length == 0.
// Dates before the first occurrence are never occurrences and are dropped.
func BuildCycle(start model.Date, excluded model.DateSet, opts CycleOptions) []model.CycleEvent {
	opts = opts.normalized()
	sorted := excluded.Sorted()

	events := make([]model.CycleEvent, 0, opts.Labelled)
	for p := 0; p < opts.Labelled; p++ {
		first := start.AddDays(p)
		label := fmt.Sprintf(opts.LabelFormat, p+1)

		ev := model.CycleEvent{
			UID:      eventUID("cycle", start, label),
			Label:    label,
			Position: p,
			First:    first,
			Interval: opts.Length,
		}
		for _, d := range sorted {
			off := d.DaysSince(first)
			if off >= 0 && off%opts.Length == 0 {
				ev.ExDates = append(ev.ExDates, d)
			}
		}
		events = append(events, ev)
	}
	return events
}

// Excluded is the set of dates the cycle must not show: leave days and days
// that already carry a shift.
func Excluded(holidays, rostered model.DateSet) model.DateSet {
	return holidays.Union(rostered)
}
