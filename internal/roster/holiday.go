package roster

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	appLog "rostercal/internal/log"
	"rostercal/internal/model"
)

// HolidayPrefix starts every annual-leave annotation line.
const HolidayPrefix = "AL "

// ResolveHolidays expands annotation lines into the set of leave dates in
// year. A line is either "AL D/M" or an inclusive range "AL D1/M1-D2/M2".
// Lines without the prefix are ignored; a bad date token is an error.
func ResolveHolidays(year int, lines []string) (model.DateSet, error) {
	out := model.NewDateSet()

	for _, line := range lines {
		if !strings.HasPrefix(line, HolidayPrefix) {
			if strings.TrimSpace(line) != "" {
				appLog.Debug("ignoring roster line", "line", line)
			}
			continue
		}
		body := strings.TrimSpace(line[len(HolidayPrefix):])

		startTok, endTok, isRange := strings.Cut(body, "-")
		start, err := parseDayMonth(year, startTok)
		if err != nil {
			return nil, fmt.Errorf("roster: holiday %q: %w", line, err)
		}
		if !isRange {
			out.Add(start)
			continue
		}

		end, err := parseDayMonth(year, endTok)
		if err != nil {
			return nil, fmt.Errorf("roster: holiday %q: %w", line, err)
		}
		// An end before the start yields nothing.
		for d := start; !end.Before(d); d = d.AddDays(1) {
			out.Add(d)
		}
	}

	return out, nil
}

// parseDayMonth parses "D/M" as a date in year.
func parseDayMonth(year int, tok string) (model.Date, error) {
	tok = strings.TrimSpace(tok)
	ds, ms, ok := strings.Cut(tok, "/")
	if !ok {
		return model.Date{}, fmt.Errorf("%w: date %q is not D/M", ErrParse, tok)
	}
	day, err := strconv.Atoi(strings.TrimSpace(ds))
	if err != nil {
		return model.Date{}, fmt.Errorf("%w: date %q: %w", ErrParse, tok, err)
	}
	month, err := strconv.Atoi(strings.TrimSpace(ms))
	if err != nil {
		return model.Date{}, fmt.Errorf("%w: date %q: %w", ErrParse, tok, err)
	}
	if month < 1 || month > 12 || !validDate(year, time.Month(month), day) {
		return model.Date{}, fmt.Errorf("%w: date %q does not exist in %d", ErrParse, tok, year)
	}
	return model.Date{Year: year, Month: time.Month(month), Day: day}, nil
}
