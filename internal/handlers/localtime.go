package handlers

import "time"

// TimeLayout is the wall-clock format used for timestamps in request and response bodies.
// Values are read and rendered in the server's local time zone.
const TimeLayout = "2006-01-02 15:04:05"

// FormatLocal renders t in the local time zone.
func FormatLocal(t time.Time) string {
	return t.In(time.Local).Format(TimeLayout)
}

// ParseLocal reads a wall-clock timestamp in the local time zone.
func ParseLocal(s string) (time.Time, error) {
	return time.ParseInLocation(TimeLayout, s, time.Local)
}

func formatLocalPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}

	s := FormatLocal(*t)

	return &s
}
