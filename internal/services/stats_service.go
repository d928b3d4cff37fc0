package services

import (
	"context"
	"math"
	"time"

	"github.com/terraincognita07/fastfit/internal/models"
)

const (
	DefaultStatsWindowDays = 30
	maxStatsWindowDays     = 366
	reliableTrendDays      = 7
)

type StatsFastingReader interface {
	History(ctx context.Context, userID uint, location *time.Location, from time.Time, to time.Time) ([]FastingCycle, error)
}

type StatsWorkoutReader interface {
	ListRange(userID uint, fromKey string, toKey string) ([]models.WorkoutLog, error)
}

type StatsService struct {
	fasting  StatsFastingReader
	workouts StatsWorkoutReader
}

type FastingStats struct {
	ClosedCycles          int `json:"closedCycles"`
	Completed             int `json:"completed"`
	Broken                int `json:"broken"`
	MissedWindow          int `json:"missedWindow"`
	CompletionRate        int `json:"completionRate"`
	LongestStreak         int `json:"longestStreak"`
	AverageFastingMinutes int `json:"averageFastingMinutes"`
}

type WorkoutStats struct {
	LoggedDays               int `json:"loggedDays"`
	FinishedDays             int `json:"finishedDays"`
	AverageCompletionPercent int `json:"averageCompletionPercent"`
}

type StatsFlags struct {
	HasFastingData   bool `json:"hasFastingData"`
	HasWorkoutData   bool `json:"hasWorkoutData"`
	HasReliableTrend bool `json:"hasReliableTrend"`
}

type StatsSummary struct {
	From     string       `json:"from"`
	To       string       `json:"to"`
	Fasting  FastingStats `json:"fasting"`
	Workouts WorkoutStats `json:"workouts"`
	Flags    StatsFlags   `json:"flags"`
}

func NewStatsService(fasting StatsFastingReader, workouts StatsWorkoutReader) *StatsService {
	return &StatsService{
		fasting:  fasting,
		workouts: workouts,
	}
}

// ClampStatsWindow keeps the requested window between one day and a year.
func ClampStatsWindow(days int) int {
	if days <= 0 {
		return DefaultStatsWindowDays
	}
	return min(days, maxStatsWindowDays)
}

// BuildSummary covers the last days calendar days ending today in location.
func (service *StatsService) BuildSummary(ctx context.Context, userID uint, days int, now time.Time, location *time.Location) (StatsSummary, error) {
	location = resolveLocation(location)
	days = ClampStatsWindow(days)
	to := DateAtLocation(now, location)
	from := to.AddDate(0, 0, -(days - 1))

	cycles, err := service.fasting.History(ctx, userID, location, from, to)
	if err != nil {
		return StatsSummary{}, err
	}
	logs, err := service.workouts.ListRange(userID, DayKey(from), DayKey(to))
	if err != nil {
		return StatsSummary{}, err
	}

	fasting := BuildFastingStats(cycles)
	workouts := BuildWorkoutStats(logs)
	return StatsSummary{
		From:     DayKey(from),
		To:       DayKey(to),
		Fasting:  fasting,
		Workouts: workouts,
		Flags: StatsFlags{
			HasFastingData:   fasting.ClosedCycles > 0,
			HasWorkoutData:   workouts.LoggedDays > 0,
			HasReliableTrend: fasting.ClosedCycles >= reliableTrendDays,
		},
	}, nil
}

// BuildFastingStats ignores cycles that are still open. cycles must be sorted by date.
func BuildFastingStats(cycles []FastingCycle) FastingStats {
	stats := FastingStats{}
	totalMinutes := 0
	timedFasts := 0
	streak := 0
	previousCompleted := ""

	for _, cycle := range cycles {
		if !cycle.Terminal() {
			continue
		}
		stats.ClosedCycles++
		switch cycle.State() {
		case CycleStateCompleted:
			stats.Completed++
			if previous, err := PreviousDayKey(cycle.Date()); err == nil && previous == previousCompleted {
				streak++
			} else {
				streak = 1
			}
			previousCompleted = cycle.Date()
			stats.LongestStreak = max(stats.LongestStreak, streak)
		case CycleStateBroken:
			stats.Broken++
		case CycleStateMissedWindow:
			stats.MissedWindow++
		}

		started, hasStart := cycle.FastingStartedAt()
		ended, hasEnd := cycle.FastingEndedAt()
		if hasStart && hasEnd && ended.After(started) {
			totalMinutes += int(ended.Sub(started) / time.Minute)
			timedFasts++
		}
	}

	if stats.ClosedCycles > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.Completed) * 100 / float64(stats.ClosedCycles)))
	}
	if timedFasts > 0 {
		stats.AverageFastingMinutes = totalMinutes / timedFasts
	}
	return stats
}

func BuildWorkoutStats(logs []models.WorkoutLog) WorkoutStats {
	stats := WorkoutStats{LoggedDays: len(logs)}
	if len(logs) == 0 {
		return stats
	}
	percentSum := 0
	for _, entry := range logs {
		percent := entry.CompletionPercent()
		percentSum += percent
		if percent >= fullCompletionPercent {
			stats.FinishedDays++
		}
	}
	stats.AverageCompletionPercent = int(math.Round(float64(percentSum) / float64(len(logs))))
	return stats
}
