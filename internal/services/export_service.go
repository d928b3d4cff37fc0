package services

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/terraincognita07/fastfit/internal/models"
)

var ExportCSVHeaders = []string{
	"Date",
	"Fasting outcome",
	"Fasting started",
	"Fasting ended",
	"Eating started",
	"Eating ended",
	"Fasting minutes",
	"Workout day",
	"Exercises completed",
	"Exercises total",
	"Completion %",
}

type ExportFastingReader interface {
	History(ctx context.Context, userID uint, location *time.Location, from time.Time, to time.Time) ([]FastingCycle, error)
}

type ExportWorkoutReader interface {
	ListRange(userID uint, fromKey string, toKey string) ([]models.WorkoutLog, error)
}

type ExportService struct {
	fasting  ExportFastingReader
	workouts ExportWorkoutReader
}

type ExportSummary struct {
	TotalEntries int    `json:"totalEntries"`
	HasData      bool   `json:"hasData"`
	DateFrom     string `json:"dateFrom"`
	DateTo       string `json:"dateTo"`
}

// ExportEntry is one calendar day with whatever was recorded for it.
type ExportEntry struct {
	Date               string     `json:"date"`
	FastingOutcome     CycleState `json:"fastingOutcome,omitempty"`
	FastingStartedAt   *time.Time `json:"fastingStartedAt,omitempty"`
	FastingEndedAt     *time.Time `json:"fastingEndedAt,omitempty"`
	EatingStartedAt    *time.Time `json:"eatingStartedAt,omitempty"`
	EatingEndedAt      *time.Time `json:"eatingEndedAt,omitempty"`
	FastingMinutes     int        `json:"fastingMinutes"`
	WorkoutDayNumber   int        `json:"workoutDayNumber,omitempty"`
	ExercisesCompleted int        `json:"exercisesCompleted"`
	ExercisesTotal     int        `json:"exercisesTotal"`
	CompletionPercent  int        `json:"completionPercent"`
}

func NewExportService(fasting ExportFastingReader, workouts ExportWorkoutReader) *ExportService {
	return &ExportService{
		fasting:  fasting,
		workouts: workouts,
	}
}

// BuildEntries merges fasting cycles and workout logs per day, oldest first.
func (service *ExportService) BuildEntries(ctx context.Context, userID uint, exportRange ExportRange, location *time.Location) ([]ExportEntry, error) {
	location = resolveLocation(location)
	from, err := ParseDayKey(exportRange.From, location)
	if err != nil {
		return nil, err
	}
	to, err := ParseDayKey(exportRange.To, location)
	if err != nil {
		return nil, err
	}

	cycles, err := service.fasting.History(ctx, userID, location, from, to)
	if err != nil {
		return nil, err
	}
	logs, err := service.workouts.ListRange(userID, exportRange.From, exportRange.To)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]*ExportEntry, len(cycles)+len(logs))
	entryFor := func(date string) *ExportEntry {
		entry, ok := byDate[date]
		if !ok {
			entry = &ExportEntry{Date: date}
			byDate[date] = entry
		}
		return entry
	}

	for _, cycle := range cycles {
		entry := entryFor(cycle.Date())
		entry.FastingOutcome = cycle.State()
		entry.FastingStartedAt = optionalInstant(cycle.fastingStartedAt)
		entry.FastingEndedAt = optionalInstant(cycle.fastingEndedAt)
		entry.EatingStartedAt = optionalInstant(cycle.eatingStartedAt)
		entry.EatingEndedAt = optionalInstant(cycle.eatingEndedAt)
		if entry.FastingStartedAt != nil && entry.FastingEndedAt != nil {
			entry.FastingMinutes = int(entry.FastingEndedAt.Sub(*entry.FastingStartedAt) / time.Minute)
		}
	}
	for _, workoutLog := range logs {
		if !exportRange.Contains(workoutLog.Day) {
			continue
		}
		entry := entryFor(workoutLog.Day)
		entry.WorkoutDayNumber = workoutLog.DayNumber
		entry.ExercisesCompleted = len(normalizeCompleted(workoutLog.CompletedIndices, workoutLog.TotalExercises))
		entry.ExercisesTotal = workoutLog.TotalExercises
		entry.CompletionPercent = workoutLog.CompletionPercent()
	}

	entries := make([]ExportEntry, 0, len(byDate))
	for _, entry := range byDate {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date < entries[j].Date
	})
	return entries, nil
}

func (service *ExportService) BuildSummary(ctx context.Context, userID uint, exportRange ExportRange, location *time.Location) (ExportSummary, error) {
	entries, err := service.BuildEntries(ctx, userID, exportRange, location)
	if err != nil {
		return ExportSummary{}, err
	}
	if len(entries) == 0 {
		return ExportSummary{}, nil
	}
	return ExportSummary{
		TotalEntries: len(entries),
		HasData:      true,
		DateFrom:     entries[0].Date,
		DateTo:       entries[len(entries)-1].Date,
	}, nil
}

// CSVColumns renders entry in ExportCSVHeaders order. Instants use RFC 3339 in location.
func (entry ExportEntry) CSVColumns(location *time.Location) []string {
	location = resolveLocation(location)
	return []string{
		entry.Date,
		string(entry.FastingOutcome),
		csvInstant(entry.FastingStartedAt, location),
		csvInstant(entry.FastingEndedAt, location),
		csvInstant(entry.EatingStartedAt, location),
		csvInstant(entry.EatingEndedAt, location),
		strconv.Itoa(entry.FastingMinutes),
		csvOptionalInt(entry.WorkoutDayNumber),
		strconv.Itoa(entry.ExercisesCompleted),
		strconv.Itoa(entry.ExercisesTotal),
		strconv.Itoa(entry.CompletionPercent),
	}
}

func csvInstant(value *time.Time, location *time.Location) string {
	if value == nil {
		return ""
	}
	return value.In(location).Format(time.RFC3339)
}

func csvOptionalInt(value int) string {
	if value == 0 {
		return ""
	}
	return strconv.Itoa(value)
}
