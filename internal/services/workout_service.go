package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/terraincognita07/fastfit/internal/models"
	"github.com/terraincognita07/fastfit/internal/observability"
)

var (
	ErrExerciseIndexOutOfRange = errors.New("exercise index out of range")
	ErrExerciseOutOfOrder      = errors.New("previous exercises are not completed")
	ErrWorkoutLogLoadFailed    = errors.New("load workout log failed")
)

type WorkoutUserReader interface {
	FindByID(userID uint) (models.User, error)
}

type WorkoutLogRepository interface {
	FindByUserAndDay(userID uint, day string) (models.WorkoutLog, bool, error)
	ListRecent(userID uint, limit int) ([]models.WorkoutLog, error)
	Upsert(entry *models.WorkoutLog) error
}

type CatalogProvider interface {
	Catalog() (*ExerciseCatalog, error)
}

type FastingProgressReader interface {
	ProgressBeforeToday(ctx context.Context, userID uint, location *time.Location) (FastingProgress, error)
}

type WorkoutProgress struct {
	Day               string `json:"day"`
	DayNumber         int    `json:"dayNumber"`
	CompletedIndices  []int  `json:"completedIndices"`
	TotalExercises    int    `json:"totalExercises"`
	CompletionPercent int    `json:"completionPercent"`
	NextIndex         int    `json:"nextIndex"`
	Finished          bool   `json:"finished"`
}

type WorkoutService struct {
	users   WorkoutUserReader
	logs    WorkoutLogRepository
	catalog CatalogProvider
	fasting FastingProgressReader
	logger  *slog.Logger
	now     func() time.Time
}

func NewWorkoutService(users WorkoutUserReader, logs WorkoutLogRepository, catalog CatalogProvider, fasting FastingProgressReader, logger *slog.Logger) *WorkoutService {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkoutService{
		users:   users,
		logs:    logs,
		catalog: catalog,
		fasting: fasting,
		logger:  logger,
		now:     time.Now,
	}
}

func (service *WorkoutService) WithClock(now func() time.Time) *WorkoutService {
	service.now = now
	return service
}

// ProgramDayNumber is 1 on the program start date and counts calendar days from there.
// An unset or future start date yields day 1.
func ProgramDayNumber(programStartDate string, today string) int {
	if programStartDate == "" {
		return 1
	}
	days, err := DaysBetween(programStartDate, today)
	if err != nil || days < 0 {
		return 1
	}
	return days + 1
}

func (service *WorkoutService) Today(ctx context.Context, userID uint, location *time.Location) (DailyWorkout, error) {
	user, err := service.users.FindByID(userID)
	if err != nil {
		return DailyWorkout{}, err
	}
	today := DayKey(DateAtLocation(service.now(), resolveLocation(location)))
	workout, err := service.workoutFor(ctx, user, today, location)
	if err != nil {
		return DailyWorkout{}, err
	}
	observability.RecordWorkoutGenerated(string(workout.FocusArea))
	return workout, nil
}

// Preview builds the workout for an arbitrary program day using the current history.
func (service *WorkoutService) Preview(ctx context.Context, userID uint, location *time.Location, dayNumber int) (DailyWorkout, error) {
	user, err := service.users.FindByID(userID)
	if err != nil {
		return DailyWorkout{}, err
	}
	today := DayKey(DateAtLocation(service.now(), resolveLocation(location)))
	workout, err := service.generate(ctx, user, today, location, dayNumber)
	if err != nil {
		return DailyWorkout{}, err
	}
	observability.RecordWorkoutGenerated(string(workout.FocusArea))
	return workout, nil
}

func (service *WorkoutService) Progress(ctx context.Context, userID uint, location *time.Location) (WorkoutProgress, error) {
	user, err := service.users.FindByID(userID)
	if err != nil {
		return WorkoutProgress{}, err
	}
	today := DayKey(DateAtLocation(service.now(), resolveLocation(location)))
	workout, err := service.workoutFor(ctx, user, today, location)
	if err != nil {
		return WorkoutProgress{}, err
	}
	entry, _, err := service.logs.FindByUserAndDay(userID, today)
	if err != nil {
		return WorkoutProgress{}, fmt.Errorf("%w: %v", ErrWorkoutLogLoadFailed, err)
	}
	return buildWorkoutProgress(today, workout, entry.CompletedIndices), nil
}

// CompleteExercise marks the exercise at index of today's sequence done. Exercises must be
// completed in order; completing one twice is a no-op.
func (service *WorkoutService) CompleteExercise(ctx context.Context, userID uint, location *time.Location, index int) (WorkoutProgress, error) {
	user, err := service.users.FindByID(userID)
	if err != nil {
		return WorkoutProgress{}, err
	}
	today := DayKey(DateAtLocation(service.now(), resolveLocation(location)))
	workout, err := service.workoutFor(ctx, user, today, location)
	if err != nil {
		return WorkoutProgress{}, err
	}
	total := len(workout.Sequence())
	if index < 0 || index >= total {
		return WorkoutProgress{}, ErrExerciseIndexOutOfRange
	}

	entry, found, err := service.logs.FindByUserAndDay(userID, today)
	if err != nil {
		return WorkoutProgress{}, fmt.Errorf("%w: %v", ErrWorkoutLogLoadFailed, err)
	}
	if !found {
		entry = models.WorkoutLog{UserID: userID, Day: today}
	}
	completed := normalizeCompleted(entry.CompletedIndices, total)
	if containsIndex(completed, index) {
		return buildWorkoutProgress(today, workout, completed), nil
	}
	if !CanProceedToNext(index, completed) {
		return WorkoutProgress{}, ErrExerciseOutOfOrder
	}

	entry.DayNumber = workout.DayNumber
	entry.TotalExercises = total
	entry.CompletedIndices = append(completed, index)
	entry.UpdatedAt = service.now().UTC()
	if err := service.logs.Upsert(&entry); err != nil {
		return WorkoutProgress{}, fmt.Errorf("save workout log: %w", err)
	}

	progress := buildWorkoutProgress(today, workout, entry.CompletedIndices)
	if progress.Finished {
		service.logger.InfoContext(ctx, "workout finished",
			slog.Uint64("user_id", uint64(userID)),
			slog.Int("day_number", workout.DayNumber),
		)
	}
	return progress, nil
}

func (service *WorkoutService) workoutFor(ctx context.Context, user models.User, today string, location *time.Location) (DailyWorkout, error) {
	return service.generate(ctx, user, today, location, ProgramDayNumber(user.ProgramStartDate, today))
}

func (service *WorkoutService) generate(ctx context.Context, user models.User, today string, location *time.Location, dayNumber int) (DailyWorkout, error) {
	catalog, err := service.catalog.Catalog()
	if err != nil {
		return DailyWorkout{}, err
	}

	difficulty, err := ParseDifficulty(user.Difficulty)
	if err != nil {
		difficulty = DifficultyForActivityLevel(user.ActivityLevel)
	}

	recent, err := service.logs.ListRecent(user.ID, rollingCompletionDays+1)
	if err != nil {
		return DailyWorkout{}, fmt.Errorf("%w: %v", ErrWorkoutLogLoadFailed, err)
	}
	history := make([]WorkoutCompletion, 0, len(recent))
	for _, entry := range recent {
		// Today's partially finished workout must not change today's prescription.
		if entry.Day >= today {
			continue
		}
		history = append(history, WorkoutCompletion{Date: entry.Day, CompletionPercent: entry.CompletionPercent()})
	}

	streak, compliance := 0, 0
	if service.fasting != nil {
		progress, err := service.fasting.ProgressBeforeToday(ctx, user.ID, location)
		if err != nil {
			service.logger.WarnContext(ctx, "fasting progress unavailable for progression",
				slog.Uint64("user_id", uint64(user.ID)),
				slog.String("error", err.Error()),
			)
		} else {
			streak, compliance = progress.Streak, progress.Compliance
		}
	}

	factors := BuildProgressionFactors(dayNumber, history, streak, compliance)
	return GenerateDailyWorkout(difficulty, dayNumber, catalog, factors)
}

func buildWorkoutProgress(today string, workout DailyWorkout, completedIndices []int) WorkoutProgress {
	total := len(workout.Sequence())
	completed := normalizeCompleted(completedIndices, total)
	sort.Ints(completed)

	next := 0
	for next < total && containsIndex(completed, next) {
		next++
	}
	percent := 0
	if total > 0 {
		percent = len(completed) * 100 / total
	}
	return WorkoutProgress{
		Day:               today,
		DayNumber:         workout.DayNumber,
		CompletedIndices:  completed,
		TotalExercises:    total,
		CompletionPercent: percent,
		NextIndex:         next,
		Finished:          total > 0 && len(completed) == total,
	}
}

func normalizeCompleted(indices []int, total int) []int {
	result := make([]int, 0, len(indices))
	for _, index := range indices {
		if index < 0 || index >= total || containsIndex(result, index) {
			continue
		}
		result = append(result, index)
	}
	return result
}

func containsIndex(indices []int, needle int) bool {
	for _, index := range indices {
		if index == needle {
			return true
		}
	}
	return false
}

func resolveLocation(location *time.Location) *time.Location {
	if location == nil {
		return time.UTC
	}
	return location
}
