package commission

import (
	"errors"
	"fmt"
	"time"
)

const monthLayout = "2006-01"

var ErrInvalidMonth = errors.New("month must be formatted YYYY-MM")

// MonthKey formats t as YYYY-MM in t's location
func MonthKey(t time.Time) string {
	return t.Format(monthLayout)
}

// PreviousMonthKey returns the YYYY-MM key of the calendar month before t.
// Day overflow (March 31 minus one month) is avoided by anchoring on the 1st.
func PreviousMonthKey(t time.Time) string {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return MonthKey(first.AddDate(0, -1, 0))
}

// ParseMonth validates a YYYY-MM key
func ParseMonth(key string) (time.Time, error) {
	t, err := time.Parse(monthLayout, key)
	if err != nil || len(key) != len(monthLayout) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidMonth, key)
	}
	return t, nil
}
