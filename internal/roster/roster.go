// Package roster reads the shift map and roster text files and resolves the
// holiday annotations carried by the roster.
package roster

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	appLog "rostercal/internal/log"
	"rostercal/internal/model"
)

// ErrParse is wrapped by every error caused by malformed input text.
var ErrParse = errors.New("parse error")

// shiftEntry is the on-disk shape of one shift map entry.
type shiftEntry struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// Format selects the shift map decoder.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatForPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadShiftMap reads and parses the shift map file at path.
func LoadShiftMap(path string) (model.ShiftMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("roster: read shift map: %w", err)
	}
	m, err := ParseShiftMap(data, FormatForPath(path))
	if err != nil {
		return nil, err
	}
	appLog.Debug("shift map loaded", "path", path, "codes", len(m))
	return m, nil
}

// ParseShiftMap decodes an object of code -> {"start": "HH:MM", "end": "HH:MM"}.
// Codes are stored exactly as written; see model.ShiftMap.Lookup.
func ParseShiftMap(data []byte, format Format) (model.ShiftMap, error) {
	raw := make(map[string]shiftEntry)

	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("roster: shift map: %w: %w", ErrParse, err)
	}

	out := make(model.ShiftMap, len(raw))
	for code, entry := range raw {
		start, err := model.ParseTimeOfDay(entry.Start)
		if err != nil {
			return nil, fmt.Errorf("roster: shift %q start: %w: %w", code, ErrParse, err)
		}
		end, err := model.ParseTimeOfDay(entry.End)
		if err != nil {
			return nil, fmt.Errorf("roster: shift %q end: %w: %w", code, ErrParse, err)
		}
		out[code] = model.ShiftTimeRange{Start: start, End: end}
	}
	return out, nil
}

// LoadRoster reads and parses the roster file at path.
func LoadRoster(path string) (model.RosterMonth, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.RosterMonth{}, fmt.Errorf("roster: read roster: %w", err)
	}
	return ParseRoster(bytes.NewReader(data))
}

// ParseRoster parses roster text:
//
//	line 1: YYYY-MM, or YYYY-MM-DD where DD anchors the duty cycle
//	line 2: the shift code string, one code per day from day 1
//	rest:   holiday annotations ("AL 3/6", "AL 1/6-3/6")
//
// Whitespace around the whole text is dropped and the header line is trimmed.
// The code line and holiday lines are kept as written, so a leading space on
// the code line is the code for day 1.
func ParseRoster(r io.Reader) (model.RosterMonth, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return model.RosterMonth{}, fmt.Errorf("roster: read: %w", err)
	}

	var lines []string
	sc := bufio.NewScanner(strings.NewReader(strings.TrimSpace(string(data))))
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return model.RosterMonth{}, fmt.Errorf("roster: read: %w", err)
	}
	if len(lines) < 2 {
		return model.RosterMonth{}, fmt.Errorf("roster: %w: need a month line and a shift line, got %d line(s)", ErrParse, len(lines))
	}

	month, err := ParseHeader(lines[0])
	if err != nil {
		return model.RosterMonth{}, err
	}

	for _, c := range lines[1] {
		month.Codes = append(month.Codes, string(c))
	}
	month.HolidayLines = lines[2:]

	return month, nil
}

// ParseHeader parses the "YYYY-MM" or "YYYY-MM-DD" month line.
func ParseHeader(line string) (model.RosterMonth, error) {
	fields := strings.Split(strings.TrimSpace(line), "-")
	if len(fields) < 2 || len(fields) > 3 {
		return model.RosterMonth{}, fmt.Errorf("roster: header %q: %w: expected YYYY-MM or YYYY-MM-DD", line, ErrParse)
	}

	nums := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return model.RosterMonth{}, fmt.Errorf("roster: header %q: %w: %w", line, ErrParse, err)
		}
		nums[i] = n
	}

	year, month := nums[0], nums[1]
	if month < 1 || month > 12 {
		return model.RosterMonth{}, fmt.Errorf("roster: header %q: %w: month %d out of range", line, ErrParse, month)
	}

	out := model.RosterMonth{Year: year, Month: time.Month(month)}
	if len(nums) == 3 {
		day := nums[2]
		if !validDate(year, out.Month, day) {
			return model.RosterMonth{}, fmt.Errorf("roster: header %q: %w: day %d out of range", line, ErrParse, day)
		}
		out.AnchorDay = day
	}
	return out, nil
}

func validDate(year int, month time.Month, day int) bool {
	d := model.NewDate(year, month, day)
	return d == model.Date{Year: year, Month: month, Day: day}
}
