package gitrepo

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	absoluteDateLayout = "2006-01-02 15:04:05"
	hoursPerDay        = 24
	daysPerWeek        = 7
	daysPerMonth       = 30
	daysPerYear        = 365

	invalidDateErrorFormat = "%w: %q"
)

// ErrInvalidDate is returned for dates that are neither absolute nor relative.
var ErrInvalidDate = errors.New("invalid date format, use 'YYYY-MM-DD HH:MM:SS' or a relative form like '2 days ago'")

var relativeDatePattern = regexp.MustCompile(`^(\d+)\s+(minute|hour|day|week|month|year)s?\s+ago$`)

// ParseDate interprets an absolute local timestamp or a relative "N units ago" expression.
// Months count as 30 days and years as 365 days.
func ParseDate(value string, now time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if parsed, parseError := time.ParseInLocation(absoluteDateLayout, trimmed, now.Location()); parseError == nil {
		return parsed, nil
	}
	matches := relativeDatePattern.FindStringSubmatch(trimmed)
	if matches == nil {
		return time.Time{}, fmt.Errorf(invalidDateErrorFormat, ErrInvalidDate, value)
	}
	amount, amountError := strconv.Atoi(matches[1])
	if amountError != nil {
		return time.Time{}, fmt.Errorf(invalidDateErrorFormat, ErrInvalidDate, value)
	}
	return now.Add(-relativeDuration(amount, matches[2])), nil
}

func relativeDuration(amount int, unit string) time.Duration {
	day := hoursPerDay * time.Hour
	quantity := time.Duration(amount)
	switch unit {
	case "minute":
		return quantity * time.Minute
	case "hour":
		return quantity * time.Hour
	case "day":
		return quantity * day
	case "week":
		return quantity * daysPerWeek * day
	case "month":
		return quantity * daysPerMonth * day
	case "year":
		return quantity * daysPerYear * day
	default:
		return 0
	}
}
