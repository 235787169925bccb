package layout

import "appointment-scheduler/internal/appointment"

// HourSegment is the slice of an appointment that falls inside one hour row of
// the timeline. Top and Height are percentages of that single hour row.
type HourSegment struct {
	Hour        int
	Top         float64
	Height      float64
	ShowDetails bool // details render only in the row where the appointment starts
}

// HourSegments clips an appointment against the 24 hour rows it crosses. An
// appointment spanning several hours yields one segment per row, so the
// timeline can draw a continuous block across row boundaries.
func HourSegments(a appointment.Appointment) []HourSegment {
	startMinutes := a.From.Minutes()
	endMinutes := a.To.Minutes()

	var segments []HourSegment
	for hour := 0; hour < 24; hour++ {
		rowStart := hour * 60
		rowEnd := rowStart + 60
		if endMinutes <= rowStart || startMinutes >= rowEnd {
			continue
		}
		start := max(startMinutes, rowStart)
		end := min(endMinutes, rowEnd)
		segments = append(segments, HourSegment{
			Hour:        hour,
			Top:         float64(start-rowStart) / 60 * 100,
			Height:      float64(end-start) / 60 * 100,
			ShowDetails: startMinutes >= rowStart && startMinutes < rowEnd,
		})
	}
	return segments
}
