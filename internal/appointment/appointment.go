// Package appointment defines the client-side appointment value type shared by
// the cache, the layout engine and the scheduling controller.
package appointment

import (
	"appointment-scheduler/internal/schedule"
	"appointment-scheduler/internal/timeutil"
)

// Priority classifies an appointment for display. It never affects
// scheduling decisions.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Appointment is a single timed appointment on one calendar day.
type Appointment struct {
	// ID is assigned by the remote store and is empty until persisted.
	ID          string
	Date        timeutil.Date
	From        timeutil.TimeOfDay
	To          timeutil.TimeOfDay
	Title       string
	Description string
	Priority    Priority
}

// Interval returns the appointment's half-open [From, To) time range.
func (a Appointment) Interval() schedule.Interval {
	return schedule.Interval{From: a.From, To: a.To}
}

// Intervals extracts the time ranges of a list of appointments, optionally
// skipping one appointment by id. Editing flows pass the edited appointment's
// id so it is not compared against itself.
func Intervals(appts []Appointment, excludeID string) []schedule.Interval {
	intervals := make([]schedule.Interval, 0, len(appts))
	for _, a := range appts {
		if excludeID != "" && a.ID == excludeID {
			continue
		}
		intervals = append(intervals, a.Interval())
	}
	return intervals
}
