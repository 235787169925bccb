package schedule

import (
	"testing"

	"appointment-scheduler/internal/timeutil"
)

func interval(t *testing.T, from, to string) Interval {
	t.Helper()
	f, err := timeutil.ParseTimeOfDay(from)
	if err != nil {
		t.Fatalf("parse %q: %v", from, err)
	}
	tt, err := timeutil.ParseTimeOfDay(to)
	if err != nil {
		t.Fatalf("parse %q: %v", to, err)
	}
	return Interval{From: f, To: tt}
}

func TestHasConflict(t *testing.T) {
	tests := []struct {
		name      string
		candidate Interval
		existing  []Interval
		want      bool
	}{
		{
			name:      "no existing appointments",
			candidate: interval(t, "09:00", "10:00"),
			existing:  nil,
			want:      false,
		},
		{
			name:      "back to back before is allowed",
			candidate: interval(t, "09:00", "10:00"),
			existing:  []Interval{interval(t, "10:00", "11:00")},
			want:      false,
		},
		{
			name:      "back to back after is allowed",
			candidate: interval(t, "11:00", "12:00"),
			existing:  []Interval{interval(t, "10:00", "11:00")},
			want:      false,
		},
		{
			name:      "overlap at the start",
			candidate: interval(t, "09:30", "10:30"),
			existing:  []Interval{interval(t, "10:00", "11:00")},
			want:      true,
		},
		{
			name:      "overlap at the end",
			candidate: interval(t, "10:30", "11:30"),
			existing:  []Interval{interval(t, "10:00", "11:00")},
			want:      true,
		},
		{
			name:      "candidate contains existing",
			candidate: interval(t, "08:00", "12:00"),
			existing:  []Interval{interval(t, "09:00", "10:00")},
			want:      true,
		},
		{
			name:      "existing contains candidate",
			candidate: interval(t, "09:00", "10:00"),
			existing:  []Interval{interval(t, "08:00", "12:00")},
			want:      true,
		},
		{
			name:      "identical intervals conflict",
			candidate: interval(t, "09:00", "10:00"),
			existing:  []Interval{interval(t, "09:00", "10:00")},
			want:      true,
		},
		{
			name:      "fits in a gap between two bookings",
			candidate: interval(t, "10:00", "11:00"),
			existing:  []Interval{interval(t, "08:00", "10:00"), interval(t, "11:00", "13:00")},
			want:      false,
		},
		{
			name:      "conflicts with second of several",
			candidate: interval(t, "12:30", "13:30"),
			existing:  []Interval{interval(t, "08:00", "10:00"), interval(t, "11:00", "13:00")},
			want:      true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := HasConflict(tc.candidate, tc.existing); got != tc.want {
				t.Errorf("HasConflict = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestOverlapSymmetry(t *testing.T) {
	// hasConflict(A, [B]) must equal hasConflict(B, [A]) for every pairing of
	// quarter-hour intervals in a working day.
	var intervals []Interval
	for start := 8 * 60; start < 12*60; start += 15 {
		for length := 15; length <= 120; length += 45 {
			intervals = append(intervals, Interval{
				From: timeutil.TimeOfDay(start),
				To:   timeutil.TimeOfDay(start + length),
			})
		}
	}
	for _, a := range intervals {
		for _, b := range intervals {
			ab := HasConflict(a, []Interval{b})
			ba := HasConflict(b, []Interval{a})
			if ab != ba {
				t.Fatalf("asymmetric overlap: %v vs %v: %v != %v", a, b, ab, ba)
			}
		}
	}
}
