package services

import (
	"errors"
	"strings"
	"time"
)

const dayKeyLayout = "2006-01-02"

var ErrInvalidDayKey = errors.New("invalid day key")

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

func DayRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	return start, start.AddDate(0, 0, 1)
}

// DayKey is the calendar date of value in its own location, formatted YYYY-MM-DD.
func DayKey(value time.Time) string {
	return value.Format(dayKeyLayout)
}

func ParseDayKey(raw string, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	parsed, err := time.ParseInLocation(dayKeyLayout, strings.TrimSpace(raw), location)
	if err != nil {
		return time.Time{}, ErrInvalidDayKey
	}
	return parsed, nil
}

// PreviousDayKey steps one calendar day back without going through instants, so DST is irrelevant.
func PreviousDayKey(key string) (string, error) {
	day, err := ParseDayKey(key, time.UTC)
	if err != nil {
		return "", err
	}
	return DayKey(day.AddDate(0, 0, -1)), nil
}

// DaysBetween counts whole calendar days from one day key to another.
func DaysBetween(fromKey string, toKey string) (int, error) {
	from, err := ParseDayKey(fromKey, time.UTC)
	if err != nil {
		return 0, err
	}
	to, err := ParseDayKey(toKey, time.UTC)
	if err != nil {
		return 0, err
	}
	return int(to.Sub(from).Hours() / 24), nil
}
