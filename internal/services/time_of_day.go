package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const MinutesPerDay = 24 * 60

var ErrInvalidTimeFormat = errors.New("invalid time format")

// TimeOfDay is a wall-clock minute of the day in [0, 1439].
type TimeOfDay int

func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	value := strings.TrimSpace(raw)
	if len(value) != 5 || value[2] != ':' {
		return 0, ErrInvalidTimeFormat
	}

	hours, ok := parseTwoDigits(value[0:2])
	if !ok || hours > 23 {
		return 0, ErrInvalidTimeFormat
	}
	minutes, ok := parseTwoDigits(value[3:5])
	if !ok || minutes > 59 {
		return 0, ErrInvalidTimeFormat
	}
	return TimeOfDay(hours*60 + minutes), nil
}

func MustParseTimeOfDay(raw string) TimeOfDay {
	value, err := ParseTimeOfDay(raw)
	if err != nil {
		panic(fmt.Sprintf("parse time of day %q: %v", raw, err))
	}
	return value
}

func parseTwoDigits(raw string) (int, bool) {
	if len(raw) != 2 {
		return 0, false
	}
	tens, ones := raw[0], raw[1]
	if tens < '0' || tens > '9' || ones < '0' || ones > '9' {
		return 0, false
	}
	return int(tens-'0')*10 + int(ones-'0'), true
}

// TimeOfDayFromClock takes the minute of day from value in its own location.
func TimeOfDayFromClock(value time.Time) TimeOfDay {
	return TimeOfDay(value.Hour()*60 + value.Minute())
}

func (value TimeOfDay) ToMinutes() int {
	return wrapMinutes(int(value))
}

func (value TimeOfDay) Hour() int {
	return value.ToMinutes() / 60
}

func (value TimeOfDay) Minute() int {
	return value.ToMinutes() % 60
}

func (value TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", value.Hour(), value.Minute())
}

// AddMinutes moves value by delta minutes around the 24-hour clock. delta may be negative.
func AddMinutes(value TimeOfDay, delta int) TimeOfDay {
	return TimeOfDay(wrapMinutes(value.ToMinutes() + delta))
}

// MinutesBetween is the clockwise distance from a to b, always in [0, 1439].
// Every "how long until" and "is X inside the interval" question goes through here.
func MinutesBetween(from TimeOfDay, to TimeOfDay) int {
	return wrapMinutes(to.ToMinutes() - from.ToMinutes())
}

// InInterval reports whether value lies in the half-open interval that starts at start
// and lasts length minutes, wrapping past midnight when needed.
func InInterval(value TimeOfDay, start TimeOfDay, length int) bool {
	if length <= 0 {
		return false
	}
	if length >= MinutesPerDay {
		return true
	}
	return MinutesBetween(start, value) < length
}

func wrapMinutes(minutes int) int {
	wrapped := minutes % MinutesPerDay
	if wrapped < 0 {
		wrapped += MinutesPerDay
	}
	return wrapped
}

func (value TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(value.String())
}

func (value *TimeOfDay) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return ErrInvalidTimeFormat
	}
	parsed, err := ParseTimeOfDay(raw)
	if err != nil {
		return err
	}
	*value = parsed
	return nil
}
