package httpapi

import (
	"strings"
	"time"

	"smartlighting-backend-go/internal/services"
)

const (
	dateFormat = "2006-01-02"
	timeFormat = "15:04"
)

// combineDateTime parses a "YYYY-MM-DD" date and an optional "HH:MM"
// time into a single UTC timestamp. The time defaults to midnight.
func combineDateTime(dateRaw string, timeRaw *string) (time.Time, error) {
	day, err := time.Parse(dateFormat, strings.TrimSpace(dateRaw))
	if err != nil {
		return time.Time{}, services.ErrBadRequest("Invalid date format, expected YYYY-MM-DD")
	}
	if timeRaw == nil || strings.TrimSpace(*timeRaw) == "" {
		return day.UTC(), nil
	}
	clock, err := time.Parse(timeFormat, strings.TrimSpace(*timeRaw))
	if err != nil {
		return time.Time{}, services.ErrBadRequest("Invalid time format, expected HH:MM")
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), 0, 0, time.UTC), nil
}

func validPriority(priority string) bool {
	switch priority {
	case "low", "medium", "high", "critical":
		return true
	}
	return false
}
