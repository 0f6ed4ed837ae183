// Package pipeline runs the roster-to-calendar transform from an explicit
// configuration: load inputs, resolve holidays, build shift and cycle
// events, then serialize.
package pipeline

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"rostercal/internal/config"
	"rostercal/internal/ics"
	appLog "rostercal/internal/log"
	"rostercal/internal/model"
	"rostercal/internal/roster"
	"rostercal/internal/rota"
)

// Result holds everything derived from one run.
type Result struct {
	Month    model.RosterMonth
	Holidays model.DateSet
	Rostered model.DateSet

	Shifts []model.ShiftEvent
	Cycles []model.CycleEvent

	Calendar *ical.Calendar
	Location *time.Location
}

// Build loads the configured inputs and assembles the calendar in memory.
func Build(cfg *config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	shiftMap, err := roster.LoadShiftMap(cfg.ShiftsPath)
	if err != nil {
		return nil, err
	}
	month, err := roster.LoadRoster(cfg.RosterPath)
	if err != nil {
		return nil, err
	}

	return BuildFrom(cfg, month, shiftMap, loc)
}

// BuildFrom assembles the calendar from already-parsed inputs.
func BuildFrom(cfg *config.Config, month model.RosterMonth, shiftMap model.ShiftMap, loc *time.Location) (*Result, error) {
	holidays, err := roster.ResolveHolidays(month.Year, month.HolidayLines)
	if err != nil {
		return nil, err
	}

	shifts, rostered := rota.BuildShifts(month, shiftMap, holidays, rota.ShiftOptions{
		Location: loc,
		RestCode: cfg.RestCode,
	})

	cycles := rota.BuildCycle(month.CycleStart(), rota.Excluded(holidays, rostered), rota.CycleOptions{
		Length:      cfg.Cycle.Length,
		Labelled:    cfg.Cycle.LabelledDays,
		LabelFormat: cfg.Cycle.LabelFormat,
	})

	cal := ics.BuildCalendar(shifts, cycles, ics.BuildOptions{ProductID: cfg.ProductID})

	appLog.Info("roster processed",
		"month", fmt.Sprintf("%04d-%02d", month.Year, month.Month),
		"days", len(month.Codes),
		"holidays", holidays.Len(),
		"shifts", len(shifts),
		"cycle_events", len(cycles),
		"timezone", loc.String(),
	)

	return &Result{
		Month:    month,
		Holidays: holidays,
		Rostered: rostered,
		Shifts:   shifts,
		Cycles:   cycles,
		Calendar: cal,
		Location: loc,
	}, nil
}

// Run builds the calendar and writes it to cfg.OutputPath.
func Run(cfg *config.Config) (*Result, error) {
	res, err := Build(cfg)
	if err != nil {
		return nil, err
	}
	if err := ics.WriteFile(cfg.OutputPath, res.Calendar); err != nil {
		return nil, err
	}
	return res, nil
}

// MonthWindow returns the inclusive display window covering the roster month.
func MonthWindow(month model.RosterMonth, loc *time.Location) (time.Time, time.Time) {
	start := month.First().In(loc)
	end := start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end
}

// Preview serializes the result's calendar, parses it back and expands the
// occurrences a calendar client would show for the roster month.
func Preview(res *Result) ([]model.Occurrence, error) {
	body := res.Calendar.Serialize()
	events, err := ics.ParseICS(ics.Source{ID: "generated"}, []byte(body), res.Location)
	if err != nil {
		return nil, err
	}
	return expandMonth(events, res.Month, res.Location)
}

// PreviewFile expands an existing calendar file over the roster month.
func PreviewFile(path string, month model.RosterMonth, loc *time.Location) ([]model.Occurrence, error) {
	events, err := ics.ParseFile(path, loc)
	if err != nil {
		return nil, err
	}
	return expandMonth(events, month, loc)
}

func expandMonth(events []ics.ParsedEvent, month model.RosterMonth, loc *time.Location) ([]model.Occurrence, error) {
	start, end := MonthWindow(month, loc)
	res, err := ics.ExpandOccurrences(events, ics.ExpandConfig{
		DisplayLocation: loc,
		RangeStart:      start,
		RangeEnd:        end,
	})
	if err != nil {
		return nil, err
	}
	return res.Occurrences, nil
}
