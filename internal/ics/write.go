package ics

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	appLog "rostercal/internal/log"
	"rostercal/internal/model"
)

const icalDateFormat = "20060102"

// valueDate marks a DTSTART/DTEND/EXDATE as a whole-day DATE value.
var valueDate = &ical.KeyValues{Key: string(ical.ParameterValue), Value: []string{"DATE"}}

// BuildOptions controls calendar serialization.
type BuildOptions struct {
	// ProductID is written as PRODID. If empty the library default is kept.
	ProductID string

	// Now is written as DTSTAMP on every event. If zero, time.Now is used.
	Now time.Time
}

// CycleRRule renders the recurrence of a cycle event, e.g.
// "FREQ=DAILY;INTERVAL=8". The rule has no COUNT or UNTIL.
func CycleRRule(interval int) string {
	opt := rrule.ROption{Freq: rrule.DAILY, Interval: interval}
	return opt.RRuleString()
}

// BuildCalendar assembles shift and cycle events into a VCALENDAR.
//
//   - Shift events are timed; DTSTART/DTEND are written as UTC instants.
//   - Cycle events are all-day (VALUE=DATE) with an RRULE and one EXDATE per
//     suppressed occurrence.
func BuildCalendar(shifts []model.ShiftEvent, cycles []model.CycleEvent, opts BuildOptions) *ical.Calendar {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	stamp := opts.Now.UTC()

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	if opts.ProductID != "" {
		cal.SetProductId(opts.ProductID)
	}

	for _, s := range shifts {
		ev := cal.AddEvent(s.UID)
		ev.SetDtStampTime(stamp)
		ev.SetSummary(s.Name)
		ev.SetStartAt(s.Start)
		ev.SetEndAt(s.End)
	}

	for _, c := range cycles {
		ev := cal.AddEvent(c.UID)
		ev.SetDtStampTime(stamp)
		ev.SetSummary(c.Label)
		ev.SetProperty(ical.ComponentPropertyDtStart, formatDate(c.First), valueDate)
		ev.SetProperty(ical.ComponentPropertyDtEnd, formatDate(c.First.AddDays(1)), valueDate)
		ev.AddProperty(ical.ComponentPropertyRrule, CycleRRule(c.Interval))
		for _, ex := range c.ExDates {
			ev.AddProperty(ical.ComponentPropertyExdate, formatDate(ex), valueDate)
		}
	}

	return cal
}

func formatDate(d model.Date) string {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format(icalDateFormat)
}

// WriteFile serializes cal to path.
//
// Implementation details:
//   - Ensures parent directory exists.
//   - Writes atomically via a temp file + rename, so a failed run never
//     leaves a half-written calendar behind.
//   - Final file permissions are 0644.
func WriteFile(path string, cal *ical.Calendar) error {
	if path == "" {
		return errors.New("ics: output path is empty")
	}
	if cal == nil {
		return errors.New("ics: calendar is nil")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ics: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".rostercal-*.ics.tmp")
	if err != nil {
		return fmt.Errorf("ics: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	body := cal.Serialize()
	if _, err := tmp.WriteString(body); err != nil {
		tmp.Close()
		return fmt.Errorf("ics: write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("ics: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("ics: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("ics: %w", err)
	}

	appLog.Info("calendar written", "path", path, "bytes", len(body), "events", len(cal.Events()))
	return nil
}
