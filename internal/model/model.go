package model

import "time"

// ShiftEvent is one worked shift, ready to be written as a timed VEVENT.
// Start and End are in the configured roster timezone and End is always
// after Start.
type ShiftEvent struct {
	UID string

	// Name is the display summary derived from Code (e.g. "OC3", "N (OT)").
	Name string
	// Code is the raw roster code for the day.
	Code string

	// Day is the roster day the code belongs to. For overnight shifts this is
	// the day the shift ends on.
	Day Date

	Start time.Time
	End   time.Time
}

// CycleEvent is an all-day event repeating every Interval days from First
// with no end bound. ExDates lists the suppressed occurrences.
type CycleEvent struct {
	UID string

	Label    string
	Position int

	First    Date
	Interval int
	ExDates  []Date
}

// Occurrence represents a single concrete instance of an event
// (after recurrence expansion and timezone normalization).
type Occurrence struct {
	SourceID string // calendar source ID
	UID      string // iCalendar UID

	// InstanceKey uniquely identifies a single occurrence of a recurring
	// event, typically derived from the local start time.
	InstanceKey string

	Summary string

	AllDay bool

	// Start / End are in the display timezone.
	Start time.Time
	End   time.Time
}
