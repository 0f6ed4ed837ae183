package ics

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	appLog "rostercal/internal/log"
	"rostercal/internal/model"
)

const (
	defaultMaxOccurrencesPerEvent = 5000
)

// ExpandConfig controls how recurrence expansion is performed.
type ExpandConfig struct {
	// DisplayLocation is the timezone to which all occurrences will be converted.
	// If nil, time.Local is used.
	DisplayLocation *time.Location

	// RangeStart / RangeEnd define the inclusive time window for occurrences.
	RangeStart time.Time
	RangeEnd   time.Time

	// MaxOccurrencesPerEvent caps each recurring event; cycle rules have no
	// end. If zero, defaultMaxOccurrencesPerEvent is used.
	MaxOccurrencesPerEvent int
}

// ExpandResult wraps the list of expanded occurrences and optionally
// information about truncation.
type ExpandResult struct {
	Occurrences []model.Occurrence
	// TruncatedEvents records UIDs that hit the MaxOccurrencesPerEvent cap.
	TruncatedEvents []string
}

// ExpandOccurrences expands events into concrete occurrences within the
// configured window, applying RRULE and EXDATE. Occurrences are sorted by
// start time, then summary.
func ExpandOccurrences(events []ParsedEvent, cfg ExpandConfig) (ExpandResult, error) {
	var result ExpandResult

	if cfg.RangeEnd.Before(cfg.RangeStart) {
		return result, errors.New("expand: RangeEnd is before RangeStart")
	}
	if cfg.DisplayLocation == nil {
		cfg.DisplayLocation = time.Local
	}
	if cfg.MaxOccurrencesPerEvent <= 0 {
		cfg.MaxOccurrencesPerEvent = defaultMaxOccurrencesPerEvent
	}

	all := make([]model.Occurrence, 0)
	for _, ev := range events {
		if ev.RawRRule == "" {
			if timeRangesOverlap(ev.Start, ev.End, cfg.RangeStart, cfg.RangeEnd) {
				all = append(all, makeOccurrence(ev, ev.Start, ev.End, cfg.DisplayLocation))
			}
			continue
		}

		occ, hitCap, err := expandRecurringEvent(ev, cfg)
		if err != nil {
			return result, err
		}
		if hitCap {
			result.TruncatedEvents = append(result.TruncatedEvents, ev.UID)
			appLog.Error("expand: truncated occurrences for UID due to cap",
				errors.New("max occurrences reached"),
				"uid", ev.UID,
				"cap", cfg.MaxOccurrencesPerEvent,
			)
		}
		all = append(all, occ...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].Start.Equal(all[j].Start) {
			return all[i].Start.Before(all[j].Start)
		}
		return all[i].Summary < all[j].Summary
	})

	result.Occurrences = all
	return result, nil
}

func expandRecurringEvent(ev ParsedEvent, cfg ExpandConfig) ([]model.Occurrence, bool, error) {
	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		return nil, false, fmt.Errorf("expand: event %s: RRULE %q: %w", ev.UID, ev.RawRRule, err)
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	rangeStart := cfg.RangeStart.In(ev.Start.Location())
	rangeEnd := cfg.RangeEnd.In(ev.Start.Location())

	occTimes := set.Between(rangeStart, rangeEnd, true)

	hitCap := false
	if len(occTimes) > cfg.MaxOccurrencesPerEvent {
		occTimes = occTimes[:cfg.MaxOccurrencesPerEvent]
		hitCap = true
	}

	out := make([]model.Occurrence, 0, len(occTimes))
	for _, occStart := range occTimes {
		var occEnd time.Time
		if ev.AllDay {
			// All-day spans to the next local midnight, whatever the DST offset.
			occEnd = occStart.AddDate(0, 0, 1)
		} else {
			occEnd = occStart.Add(ev.End.Sub(ev.Start))
		}
		out = append(out, makeOccurrence(ev, occStart, occEnd, cfg.DisplayLocation))
	}
	return out, hitCap, nil
}

// makeOccurrence converts an event instance into a model.Occurrence
// normalized into displayLoc.
func makeOccurrence(ev ParsedEvent, start, end time.Time, displayLoc *time.Location) model.Occurrence {
	startLocal := start.In(displayLoc)
	endLocal := end.In(displayLoc)

	return model.Occurrence{
		SourceID:    ev.Source.ID,
		UID:         ev.UID,
		InstanceKey: startLocal.Format(time.RFC3339Nano),
		Summary:     ev.Summary,
		AllDay:      ev.AllDay,
		Start:       startLocal,
		End:         endLocal,
	}
}

func timeRangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	if aEnd.Before(bStart) {
		return false
	}
	if bEnd.Before(aStart) {
		return false
	}
	return true
}
