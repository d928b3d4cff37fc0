package services

import (
	"fmt"
	"math"
	"sort"
)

const (
	MinSets                    = 1
	MinReps                    = 5
	MinRestSeconds             = 15
	MinCoolDownDurationSeconds = 20

	warmUpDampening       = 0.55
	rollingCompletionDays = 7
	fullCompletionPercent = 100

	weeklyVolumeStep    = 0.05
	maxWeeklyVolume     = 0.30
	streakVolumeStep    = 0.02
	maxStreakVolume     = 0.20
	completionBonus     = 0.10
	minVolumeMultiplier = 0.80
	maxVolumeMultiplier = 1.60
)

// WorkoutCompletion is the raw per-day history the progression factors are derived from.
type WorkoutCompletion struct {
	Date              string
	CompletionPercent int
}

type ProgressionFactors struct {
	DayNumber                int     `json:"dayNumber"`
	WeekNumber               int     `json:"weekNumber"`
	CompletionRate           float64 `json:"completionRate"`
	CurrentStreak            int     `json:"currentStreak"`
	AverageCompletionPercent int     `json:"averageCompletionPercent"`
	FastingCompliance        int     `json:"fastingCompliance"`
	HasHistory               bool    `json:"hasHistory"`
}

func WeekNumber(dayNumber int) int {
	if dayNumber < 1 {
		dayNumber = 1
	}
	return (dayNumber-1)/7 + 1
}

// BuildProgressionFactors derives the factors from the most recent completion records.
// streak is supplied by the caller since it depends on which days are consecutive.
func BuildProgressionFactors(dayNumber int, history []WorkoutCompletion, streak int, fastingCompliance int) ProgressionFactors {
	if dayNumber < 1 {
		dayNumber = 1
	}
	factors := ProgressionFactors{
		DayNumber:         dayNumber,
		WeekNumber:        WeekNumber(dayNumber),
		CurrentStreak:     max(streak, 0),
		FastingCompliance: fastingCompliance,
	}

	recent := make([]WorkoutCompletion, len(history))
	copy(recent, history)
	sort.Slice(recent, func(i, j int) bool {
		return recent[i].Date > recent[j].Date
	})
	if len(recent) > rollingCompletionDays {
		recent = recent[:rollingCompletionDays]
	}
	if len(recent) == 0 {
		return factors
	}

	fullDays := 0
	percentSum := 0
	for _, entry := range recent {
		percent := min(max(entry.CompletionPercent, 0), fullCompletionPercent)
		percentSum += percent
		if percent >= fullCompletionPercent {
			fullDays++
		}
	}
	factors.HasHistory = true
	factors.CompletionRate = float64(fullDays) / float64(len(recent))
	factors.AverageCompletionPercent = int(math.Round(float64(percentSum) / float64(len(recent))))
	return factors
}

// ExerciseDose is the prescription for one exercise. Reps or duration may be zero when the
// exercise is purely timed or purely counted.
type ExerciseDose struct {
	Sets            int `json:"sets"`
	Reps            int `json:"reps"`
	DurationSeconds int `json:"durationSeconds"`
	RestSeconds     int `json:"restSeconds"`
}

func BaseDose(exercise ExerciseDefinition) ExerciseDose {
	return ExerciseDose{
		Sets:            exercise.BaseSets,
		Reps:            exercise.BaseReps,
		DurationSeconds: exercise.BaseDurationSeconds,
		RestSeconds:     exercise.BaseRestSeconds,
	}
}

type ProgressionAdjustment struct {
	VolumeMultiplier float64 `json:"volumeMultiplier"`
	RestMultiplier   float64 `json:"restMultiplier"`
	ExtraSets        int     `json:"extraSets"`
}

func ComputeAdjustment(factors ProgressionFactors) ProgressionAdjustment {
	volume := 1.0
	volume += math.Min(float64(factors.WeekNumber-1)*weeklyVolumeStep, maxWeeklyVolume)
	volume += math.Min(float64(factors.CurrentStreak)*streakVolumeStep, maxStreakVolume)
	if factors.HasHistory {
		switch {
		case factors.CompletionRate >= 0.8:
			volume += completionBonus
		case factors.CompletionRate < 0.5:
			volume -= completionBonus
		}
	}
	volume = math.Max(minVolumeMultiplier, math.Min(maxVolumeMultiplier, volume))

	extraSets := 0
	switch {
	case volume >= 1.5:
		extraSets = 2
	case volume >= 1.3:
		extraSets = 1
	}

	return ProgressionAdjustment{
		VolumeMultiplier: volume,
		RestMultiplier:   math.Max(0.6, math.Min(1.2, 1/volume)),
		ExtraSets:        extraSets,
	}
}

func (adjustment ProgressionAdjustment) Main(base ExerciseDose) ExerciseDose {
	dose := ExerciseDose{
		Sets:        max(base.Sets+adjustment.ExtraSets, MinSets),
		RestSeconds: max(roundScaled(base.RestSeconds, adjustment.RestMultiplier), MinRestSeconds),
	}
	if base.Reps > 0 {
		dose.Reps = max(roundScaled(base.Reps, adjustment.VolumeMultiplier), MinReps)
	}
	if base.DurationSeconds > 0 {
		dose.DurationSeconds = roundScaled(base.DurationSeconds, adjustment.VolumeMultiplier)
	}
	return dose
}

func (adjustment ProgressionAdjustment) WarmUp(base ExerciseDose) ExerciseDose {
	dose := adjustment.Main(base)
	dose.Sets = max(roundScaled(dose.Sets, warmUpDampening), MinSets)
	if dose.Reps > 0 {
		dose.Reps = max(roundScaled(dose.Reps, warmUpDampening), MinReps)
	}
	if dose.DurationSeconds > 0 {
		dose.DurationSeconds = roundScaled(dose.DurationSeconds, warmUpDampening)
	}
	return dose
}

func (adjustment ProgressionAdjustment) CoolDown(base ExerciseDose) ExerciseDose {
	dose := adjustment.Main(base)
	dose.Sets = 1
	dose.RestSeconds = max(dose.RestSeconds/2, MinRestSeconds)
	dose.DurationSeconds = max(dose.DurationSeconds, MinCoolDownDurationSeconds)
	return dose
}

func roundScaled(value int, multiplier float64) int {
	return int(math.Round(float64(value) * multiplier))
}

type ProgressionMessage struct {
	Key  string `json:"key"`
	Args []int  `json:"args"`
}

const (
	ProgressionMessageStarting = "progression.starting"
	ProgressionMessageStreak   = "progression.streak"
	ProgressionMessageBuilding = "progression.building"
	ProgressionMessageEasing   = "progression.easing"
)

var defaultProgressionMessages = map[string]string{
	ProgressionMessageStarting: "Week %d: building your baseline.",
	ProgressionMessageStreak:   "Week %d, %d-day streak: volume up %d%%.",
	ProgressionMessageBuilding: "Week %d: volume up %d%%.",
	ProgressionMessageEasing:   "Week %d: easing off by %d%% to rebuild consistency.",
}

func BuildProgressionMessage(factors ProgressionFactors, adjustment ProgressionAdjustment) ProgressionMessage {
	change := int(math.Round((adjustment.VolumeMultiplier - 1) * 100))
	switch {
	case change < 0:
		return ProgressionMessage{Key: ProgressionMessageEasing, Args: []int{factors.WeekNumber, -change}}
	case change == 0:
		return ProgressionMessage{Key: ProgressionMessageStarting, Args: []int{factors.WeekNumber}}
	case factors.CurrentStreak >= 3:
		return ProgressionMessage{Key: ProgressionMessageStreak, Args: []int{factors.WeekNumber, factors.CurrentStreak, change}}
	default:
		return ProgressionMessage{Key: ProgressionMessageBuilding, Args: []int{factors.WeekNumber, change}}
	}
}

// Text renders the message in English.
func (message ProgressionMessage) Text() string {
	format, ok := defaultProgressionMessages[message.Key]
	if !ok {
		return message.Key
	}
	return fmt.Sprintf(format, message.FormatArgs()...)
}

func (message ProgressionMessage) FormatArgs() []any {
	args := make([]any, len(message.Args))
	for index, value := range message.Args {
		args[index] = value
	}
	return args
}
