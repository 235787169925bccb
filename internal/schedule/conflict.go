// Package schedule decides whether appointment time ranges may coexist on the
// same day.
package schedule

import "appointment-scheduler/internal/timeutil"

// Interval is a half-open time range [From, To) within one day. The end is
// exclusive so that back-to-back appointments (one ending at 10:00, the next
// starting at 10:00) do not conflict.
type Interval struct {
	From timeutil.TimeOfDay
	To   timeutil.TimeOfDay
}

// Duration returns the interval length in minutes.
func (iv Interval) Duration() int {
	return iv.To.Minutes() - iv.From.Minutes()
}

// Overlaps reports whether two half-open intervals intersect. This single
// inequality is the canonical test; every overlap check in the scheduler goes
// through it so boundary handling cannot diverge.
func Overlaps(a, b Interval) bool {
	return a.From < b.To && b.From < a.To
}

// HasConflict reports whether the candidate interval overlaps any existing
// interval on the same date. An empty existing set never conflicts.
//
// When checking an edit, the caller must remove the appointment being edited
// from existing first, otherwise it trivially conflicts with itself.
func HasConflict(candidate Interval, existing []Interval) bool {
	for _, iv := range existing {
		if Overlaps(candidate, iv) {
			return true
		}
	}
	return false
}
