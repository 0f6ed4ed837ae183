// Package rota turns a parsed roster into shift events and the recurring
// duty-cycle events.
package rota

import (
	"errors"
	"time"

	"github.com/google/uuid"

	appLog "rostercal/internal/log"
	"rostercal/internal/model"
)

// DefaultRestCode marks a rest day in the roster string.
const DefaultRestCode = "R"

// uidNamespace scopes the name-based UUIDs so regenerating the same roster
// yields the same event UIDs.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:rostercal:events"))

func eventUID(kind string, day model.Date, key string) string {
	return uuid.NewSHA1(uidNamespace, []byte(kind+"/"+day.String()+"/"+key)).String()
}

// ShiftOptions controls shift event construction.
type ShiftOptions struct {
	// Location is the timezone shift times are wall-clock in. If nil,
	// time.Local is used.
	Location *time.Location

	// RestCode is compared against the raw code. If empty, DefaultRestCode
	// is used.
	RestCode string
}

// BuildShifts walks the roster one day at a time and returns one event per
// worked day, plus the set of roster days that got an event.
//
// A day is skipped when it is a holiday, its code is the rest code, or its
// upper-cased code is not in shifts. A shift whose end is not after its
// start (e.g. 22:00-06:00) starts on the previous day and ends on the roster
// day.
func BuildShifts(month model.RosterMonth, shifts model.ShiftMap, holidays model.DateSet, opts ShiftOptions) ([]model.ShiftEvent, model.DateSet) {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.RestCode == "" {
		opts.RestCode = DefaultRestCode
	}

	events := make([]model.ShiftEvent, 0, len(month.Codes))
	rostered := model.NewDateSet()

	for i, code := range month.Codes {
		day := month.Day(i)

		if holidays.Has(day) {
			appLog.Debug("skipping holiday", "day", day, "code", code)
			continue
		}
		if code == opts.RestCode {
			continue
		}
		span, ok := shifts.Lookup(code)
		if !ok {
			appLog.Debug("skipping unmapped code", "day", day, "code", code)
			continue
		}

		startDay := day
		if span.Overnight() {
			startDay = day.AddDays(-1)
		}
		start := span.Start.On(startDay, opts.Location)
		end := span.End.On(day, opts.Location)

		// Only reachable when a start time falls in a DST gap.
		if !end.After(start) {
			appLog.Error("skipping shift with non-positive duration", errors.New("end not after start"),
				"day", day, "code", code, "start", start, "end", end)
			continue
		}

		name, rule := resolveName(code)
		events = append(events, model.ShiftEvent{
			UID:   eventUID("shift", day, code),
			Name:  name,
			Code:  code,
			Day:   day,
			Start: start,
			End:   end,
		})
		rostered.Add(day)

		appLog.Debug("shift event", "day", day, "code", code, "name", name, "rule", rule,
			"overnight", span.Overnight())
	}

	return events, rostered
}
