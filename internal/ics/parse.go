package ics

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "rostercal/internal/log"
)

// Source identifies where a calendar payload came from.
type Source struct {
	// ID is used in logs and copied onto occurrences.
	ID string
	// Path is the file the payload was read from, if any.
	Path string
}

// ParsedEvent is the normalized representation of a VEVENT as produced
// by the ICS parser. Recurrence expansion operates on this type.
type ParsedEvent struct {
	Source Source

	UID     string
	Summary string

	Start  time.Time
	End    time.Time
	AllDay bool

	RawRRule string
	ExDates  []time.Time
}

// ParseFile reads and parses the calendar at path.
func ParseFile(path string, loc *time.Location) ([]ParsedEvent, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ics: %w", err)
	}
	return ParseICS(Source{ID: path, Path: path}, body, loc)
}

// ParseICS parses a single ICS payload into a list of ParsedEvent.
//
//   - Timed values go through the library's DTSTART/DTEND handling, so UTC
//     ("Z") and TZID forms both produce the right instant.
//   - All-day values (VALUE=DATE or no 'T') are read as midnight in loc.
//   - RRULE and EXDATE are recorded but not expanded; see expand.go.
func ParseICS(src Source, body []byte, loc *time.Location) ([]ParsedEvent, error) {
	if len(body) == 0 {
		return nil, errors.New("ics: empty body")
	}
	if loc == nil {
		loc = time.Local
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ics: parse %s: %w", src.ID, err)
	}

	events := make([]ParsedEvent, 0)
	for _, comp := range cal.Events() {
		ev, perr := parseVEvent(src, comp, loc)
		if perr != nil {
			// Log and skip this event, but keep parsing others.
			appLog.Error("ics vevent parse failed", perr, "id", src.ID)
			continue
		}
		events = append(events, ev)
	}

	appLog.Debug("ics parse completed", "id", src.ID, "event_count", len(events))
	return events, nil
}

func parseVEvent(src Source, ve *ical.VEvent, loc *time.Location) (ParsedEvent, error) {
	var out ParsedEvent
	out.Source = src

	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return out, errors.New("missing UID")
	}
	out.UID = uidProp.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = p.Value
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return out, fmt.Errorf("event %s: missing DTSTART", out.UID)
	}
	out.AllDay = isDateValue(dtStart)

	if out.AllDay {
		start, err := parseICSTime(dtStart.Value, loc)
		if err != nil {
			return out, fmt.Errorf("event %s: DTSTART: %w", out.UID, err)
		}
		out.Start = start
		out.End = start.AddDate(0, 0, 1)
		if dtEnd := ve.GetProperty(ical.ComponentPropertyDtEnd); dtEnd != nil {
			if end, err := parseICSTime(dtEnd.Value, loc); err == nil && end.After(start) {
				out.End = end
			}
		}
	} else {
		start, err := ve.GetStartAt()
		if err != nil {
			return out, fmt.Errorf("event %s: DTSTART: %w", out.UID, err)
		}
		end, err := ve.GetEndAt()
		if err != nil {
			return out, fmt.Errorf("event %s: DTEND: %w", out.UID, err)
		}
		out.Start = start
		out.End = end
	}

	if rruleProp := ve.GetProperty(ical.ComponentPropertyRrule); rruleProp != nil {
		out.RawRRule = rruleProp.Value
	}

	// EXDATE can appear multiple times and hold comma-separated values.
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseICSTime(part, loc); err == nil {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}

	return out, nil
}

// isDateValue reports whether a date property is a whole-day DATE value.
func isDateValue(p *ical.IANAProperty) bool {
	if params := p.ICalParameters; params != nil {
		if vs, ok := params[string(ical.ParameterValue)]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			return true
		}
	}
	return !strings.Contains(p.Value, "T")
}

// parseICSTime parses a basic ICS date/date-time string. Floating and
// date-only values are interpreted in loc.
func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty time value")
	}

	// UTC form, e.g., 20250101T090000Z
	if strings.HasSuffix(v, "Z") {
		return time.Parse("20060102T150405Z", v)
	}

	// Local date-time, e.g., 20250101T090000
	if strings.Contains(v, "T") {
		return time.ParseInLocation("20060102T150405", v, loc)
	}

	// Date-only (all-day), e.g., 20250101
	return time.ParseInLocation(icalDateFormat, v, loc)
}
