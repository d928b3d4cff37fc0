package services

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrExportFromDateInvalid = errors.New("export invalid from date")
	ErrExportToDateInvalid   = errors.New("export invalid to date")
	ErrExportRangeInvalid    = errors.New("export invalid range")
)

// exportEpochKey bounds open-ended exports. Nothing is stored before it.
const exportEpochKey = "2000-01-01"

// ExportRange is an inclusive pair of day keys.
type ExportRange struct {
	From string
	To   string
}

func (exportRange ExportRange) Contains(dayKey string) bool {
	return dayKey >= exportRange.From && dayKey <= exportRange.To
}

// ParseExportRange resolves optional from/to query values. A missing from starts at the
// epoch and a missing to ends today in location.
func ParseExportRange(rawFrom string, rawTo string, now time.Time, location *time.Location) (ExportRange, error) {
	location = resolveLocation(location)
	result := ExportRange{From: exportEpochKey, To: DayKey(DateAtLocation(now, location))}

	if fromRaw := strings.TrimSpace(rawFrom); fromRaw != "" {
		parsed, err := ParseDayKey(fromRaw, location)
		if err != nil {
			return ExportRange{}, ErrExportFromDateInvalid
		}
		result.From = DayKey(parsed)
	}
	if toRaw := strings.TrimSpace(rawTo); toRaw != "" {
		parsed, err := ParseDayKey(toRaw, location)
		if err != nil {
			return ExportRange{}, ErrExportToDateInvalid
		}
		result.To = DayKey(parsed)
	}

	if result.To < result.From {
		return ExportRange{}, ErrExportRangeInvalid
	}
	return result, nil
}
