package timeutil

import "strings"

// The appointment service exchanges combined timestamps shaped like
// "2006-01-02T15:04:00.000Z". The trailing Z is a historical artifact of the
// wire format and is NOT a real UTC marker: both sides write and read local
// wall-clock fields verbatim, with no zone conversion. Interpreting the Z
// would shift every displayed time for users outside UTC, so the decoder
// ignores it on purpose.

// EncodeWireTime combines a date and time of day into a wire timestamp.
func EncodeWireTime(d Date, t TimeOfDay) string {
	return d.Key() + "T" + t.String() + ":00.000Z"
}

// DecodeWireTime splits a wire timestamp back into its date and time-of-day
// parts by extracting the literal fields, ignoring the zone marker.
func DecodeWireTime(s string) (Date, TimeOfDay, error) {
	datePart, timePart, found := strings.Cut(s, "T")
	if !found {
		return Date{}, 0, &FormatError{Input: s, Kind: "time"}
	}
	d, err := ParseDate(datePart)
	if err != nil {
		return Date{}, 0, err
	}
	if len(timePart) < 5 {
		return Date{}, 0, &FormatError{Input: s, Kind: "time"}
	}
	t, err := ParseTimeOfDay(timePart[:5])
	if err != nil {
		return Date{}, 0, err
	}
	return d, t, nil
}
