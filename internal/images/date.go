package images

import (
	"fmt"
	"time"
)

// referenceYear is a leap year so that 29 February is a valid schedule date.
const referenceYear = 2020

const (
	dateKeyLayout   = "01-02"
	humanDateLayout = "January 02"
)

// ValidDate reports whether month and day form a real calendar date.
func ValidDate(month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	t := time.Date(referenceYear, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return int(t.Month()) == month && t.Day() == day
}

// DateKey formats a validated month and day as "MM-DD".
func DateKey(month, day int) (string, error) {
	if !ValidDate(month, day) {
		return "", fmt.Errorf("%w: month %d day %d", ErrInvalidCalendarDate, month, day)
	}
	return fmt.Sprintf("%02d-%02d", month, day), nil
}

// DateKeyFor returns the "MM-DD" key of t in t's location.
func DateKeyFor(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// HumanDate renders a "MM-DD" key as e.g. "December 25".
func HumanDate(key string) (string, error) {
	t, err := time.Parse("2006-"+dateKeyLayout, fmt.Sprintf("%d-%s", referenceYear, key))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidCalendarDate, key)
	}
	return t.Format(humanDateLayout), nil
}

// AllDateKeys returns every valid date key in calendar order.
func AllDateKeys() []string {
	keys := make([]string, 0, 366)
	for t := time.Date(referenceYear, time.January, 1, 0, 0, 0, 0, time.UTC); t.Year() == referenceYear; t = t.AddDate(0, 0, 1) {
		keys = append(keys, DateKeyFor(t))
	}
	return keys
}
