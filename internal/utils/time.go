package utils

import "time"

const (
	layoutDisplay     = "02/01/2006 15:04"
	layoutDisplayTime = "15:04"
	layoutDate        = "2006-01-02"
)

// FormatSchedule renders a departure datetime the way every document and
// screen shows it: dd/mm/yyyy hh:mm, local time.
func FormatSchedule(t time.Time) string {
	return t.Local().Format(layoutDisplay)
}

// FormatClock renders just the hh:mm part.
func FormatClock(t time.Time) string {
	return t.Local().Format(layoutDisplayTime)
}

// FormatDate formats time to YYYY-MM-DD, used in generated file names.
func FormatDate(t time.Time) string {
	return t.Local().Format(layoutDate)
}

// ParseSchedule parses operator input in the display layout.
func ParseSchedule(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDisplay, s, time.Local)
}
