package service

import (
	"strings"
	"time"

	"hardcase/coaching-app/internal/domain"
)

// dayKey validates a YYYY-MM-DD day key and returns it trimmed.
func dayKey(s string) (string, error) {
	s = strings.TrimSpace(s)
	if _, err := time.Parse(domain.DateLayout, s); err != nil {
		return "", validationError("date %q must be formatted as YYYY-MM-DD", s)
	}
	return s, nil
}

// parseDay is dayKey resolved to midnight in loc.
func parseDay(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.ParseInLocation(domain.DateLayout, s, loc)
	if err != nil {
		return time.Time{}, validationError("date %q must be formatted as YYYY-MM-DD", s)
	}
	return t, nil
}

func today(clock Clock, loc *time.Location) string {
	return clock.Now().In(loc).Format(domain.DateLayout)
}
