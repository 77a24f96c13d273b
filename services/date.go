package services

import (
	"fmt"
	"time"
)

// ParseDeadline parses a deadline string in YYYY-MM-DD form. A malformed
// deadline is InvalidCaseData: the case is rejected at the boundary rather
// than silently defaulted, so aggregate statistics stay clean.
func ParseDeadline(dateStr string) (time.Time, error) {
	// ISO 8601 date (standard for HTML5 date inputs)
	layout := "2006-01-02"

	parsedTime, err := time.Parse(layout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid deadline format, expected YYYY-MM-DD", ErrInvalidCaseData)
	}

	return parsedTime, nil
}
