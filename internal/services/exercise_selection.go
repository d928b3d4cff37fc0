package services

import (
	"errors"
	"math"
	"sort"
)

var ErrEmptyCatalogSelection = errors.New("exercise catalog is empty")

const (
	maxWarmUpExercises       = 3
	maxCoolDownExercises     = 2
	lowIntensityScoreCeiling = 2
	coolDownFallbackCeiling  = 1
	easierTierSliceSize      = 2
	defaultSetSeconds        = 30
	activeRecoveryMainCount  = 3
)

type FocusArea string

const (
	FocusPush           FocusArea = "push"
	FocusPull           FocusArea = "pull"
	FocusLegs           FocusArea = "legs"
	FocusCore           FocusArea = "core"
	FocusActiveRecovery FocusArea = "active_recovery"
)

type focusDefinition struct {
	groups []MuscleGroup
	types  []ExerciseType
}

var weeklyRotation = [7]FocusArea{FocusPush, FocusPull, FocusLegs, FocusCore, FocusPush, FocusPull, FocusActiveRecovery}

var focusDefinitions = map[FocusArea]focusDefinition{
	FocusPush: {
		groups: []MuscleGroup{MuscleChest, MuscleShoulders, MuscleTriceps},
		types:  []ExerciseType{ExerciseTypeStrength, ExerciseTypeHIIT},
	},
	FocusPull: {
		groups: []MuscleGroup{MuscleBack, MuscleBiceps},
		types:  []ExerciseType{ExerciseTypeStrength, ExerciseTypeHIIT},
	},
	FocusLegs: {
		groups: []MuscleGroup{MuscleQuadriceps, MuscleHamstrings, MuscleGlutes, MuscleCalves},
		types:  []ExerciseType{ExerciseTypeStrength, ExerciseTypeHIIT},
	},
	FocusCore: {
		groups: []MuscleGroup{MuscleCore, MuscleObliques, MuscleLowerBack},
		types:  []ExerciseType{ExerciseTypeStrength, ExerciseTypeHIIT},
	},
	FocusActiveRecovery: {
		types: []ExerciseType{ExerciseTypeCardio, ExerciseTypeFlexibility},
	},
}

// FocusForDay maps a 1-based program day onto the seven-day rotation.
func FocusForDay(dayNumber int) FocusArea {
	if dayNumber < 1 {
		dayNumber = 1
	}
	return weeklyRotation[(dayNumber-1)%len(weeklyRotation)]
}

func (focus FocusArea) LabelKey() string {
	return "focus." + string(focus)
}

func (focus FocusArea) MuscleGroups() []MuscleGroup {
	return append([]MuscleGroup(nil), focusDefinitions[focus].groups...)
}

func (focus FocusArea) matches(exercise ExerciseDefinition) bool {
	definition := focusDefinitions[focus]
	if len(definition.types) > 0 && !containsType(definition.types, exercise.Type) {
		return false
	}
	if len(definition.groups) == 0 {
		return true
	}
	return exercise.Targets(definition.groups)
}

func MainExerciseCount(difficulty Difficulty, focus FocusArea) int {
	if focus == FocusActiveRecovery {
		return activeRecoveryMainCount
	}
	switch difficulty {
	case DifficultyAdvanced:
		return 6
	case DifficultyIntermediate:
		return 5
	default:
		return 4
	}
}

type WorkoutSection string

const (
	SectionWarmUp   WorkoutSection = "warm_up"
	SectionMain     WorkoutSection = "main"
	SectionCoolDown WorkoutSection = "cool_down"
)

type SelectedExercise struct {
	Exercise                ExerciseDefinition `json:"exercise"`
	Section                 WorkoutSection     `json:"section"`
	AdjustedSets            int                `json:"adjustedSets"`
	AdjustedReps            int                `json:"adjustedReps"`
	AdjustedDurationSeconds int                `json:"adjustedDurationSeconds"`
	AdjustedRestSeconds     int                `json:"adjustedRestSeconds"`
	OrderIndex              int                `json:"orderIndex"`
}

// WorkSeconds is the time spent on the exercise: every set plus the rests between sets.
// Counted exercises without a duration are assumed to take 30 seconds per set.
func (selected SelectedExercise) WorkSeconds() int {
	setSeconds := selected.AdjustedDurationSeconds
	if setSeconds <= 0 {
		setSeconds = defaultSetSeconds
	}
	sets := max(selected.AdjustedSets, 0)
	rests := max(sets-1, 0)
	return sets*setSeconds + rests*selected.AdjustedRestSeconds
}

type DailyWorkout struct {
	DayNumber            int                   `json:"dayNumber"`
	FocusArea            FocusArea             `json:"focusArea"`
	FocusLabel           string                `json:"focusLabel"`
	Difficulty           Difficulty            `json:"difficulty"`
	WarmUp               []SelectedExercise    `json:"warmUp"`
	Main                 []SelectedExercise    `json:"main"`
	CoolDown             []SelectedExercise    `json:"coolDown"`
	TotalDurationMinutes int                   `json:"totalDurationMinutes"`
	TotalCalories        int                   `json:"totalCalories"`
	ProgressionMessage   string                `json:"progressionMessage"`
	Progression          ProgressionMessage    `json:"progression"`
	Factors              ProgressionFactors    `json:"factors"`
	Adjustment           ProgressionAdjustment `json:"adjustment"`
}

// Sequence is the mandatory completion order: warm-up, then main, then cool-down.
func (workout DailyWorkout) Sequence() []SelectedExercise {
	sequence := make([]SelectedExercise, 0, len(workout.WarmUp)+len(workout.Main)+len(workout.CoolDown))
	sequence = append(sequence, workout.WarmUp...)
	sequence = append(sequence, workout.Main...)
	sequence = append(sequence, workout.CoolDown...)
	return sequence
}

// CanProceedToNext reports whether every exercise before currentIndex has been completed.
func CanProceedToNext(currentIndex int, completedIndices []int) bool {
	if currentIndex < 0 {
		return false
	}
	completed := make(map[int]struct{}, len(completedIndices))
	for _, index := range completedIndices {
		completed[index] = struct{}{}
	}
	for index := 0; index < currentIndex; index++ {
		if _, ok := completed[index]; !ok {
			return false
		}
	}
	return true
}

// GenerateDailyWorkout assembles the day's warm-up, main and cool-down from catalog.
func GenerateDailyWorkout(difficulty Difficulty, dayNumber int, catalog *ExerciseCatalog, factors ProgressionFactors) (DailyWorkout, error) {
	if catalog.Len() == 0 {
		return DailyWorkout{}, ErrEmptyCatalogSelection
	}
	if difficulty.Rank() == 0 {
		difficulty = DifficultyBeginner
	}
	if dayNumber < 1 {
		dayNumber = 1
	}
	factors.DayNumber = dayNumber
	factors.WeekNumber = WeekNumber(dayNumber)

	focus := FocusForDay(dayNumber)
	exercises := catalog.All()
	used := make(map[string]struct{})

	mainExercises := selectMainExercises(exercises, difficulty, focus, MainExerciseCount(difficulty, focus), used)
	warmUp := selectLowIntensity(exercises, used, maxWarmUpExercises, func(exercise ExerciseDefinition) bool {
		return exercise.Difficulty == DifficultyBeginner &&
			(exercise.Type == ExerciseTypeCardio || exercise.Type == ExerciseTypeFlexibility) &&
			exercise.DifficultyScore <= lowIntensityScoreCeiling
	})
	coolDown := selectLowIntensity(exercises, used, maxCoolDownExercises, func(exercise ExerciseDefinition) bool {
		return exercise.Difficulty == DifficultyBeginner &&
			exercise.Type == ExerciseTypeFlexibility &&
			exercise.DifficultyScore <= lowIntensityScoreCeiling
	})
	if len(coolDown) < maxCoolDownExercises {
		coolDown = append(coolDown, selectLowIntensity(exercises, used, maxCoolDownExercises-len(coolDown), func(exercise ExerciseDefinition) bool {
			return exercise.DifficultyScore <= coolDownFallbackCeiling
		})...)
	}

	adjustment := ComputeAdjustment(factors)
	message := BuildProgressionMessage(factors, adjustment)
	workout := DailyWorkout{
		DayNumber:          dayNumber,
		FocusArea:          focus,
		FocusLabel:         focus.LabelKey(),
		Difficulty:         difficulty,
		ProgressionMessage: message.Text(),
		Progression:        message,
		Factors:            factors,
		Adjustment:         adjustment,
	}

	orderIndex := 0
	prescribe := func(list []ExerciseDefinition, section WorkoutSection, dose func(ExerciseDose) ExerciseDose) []SelectedExercise {
		result := make([]SelectedExercise, 0, len(list))
		for _, exercise := range list {
			adjusted := dose(BaseDose(exercise))
			result = append(result, SelectedExercise{
				Exercise:                exercise,
				Section:                 section,
				AdjustedSets:            adjusted.Sets,
				AdjustedReps:            adjusted.Reps,
				AdjustedDurationSeconds: adjusted.DurationSeconds,
				AdjustedRestSeconds:     adjusted.RestSeconds,
				OrderIndex:              orderIndex,
			})
			orderIndex++
		}
		return result
	}
	workout.WarmUp = prescribe(warmUp, SectionWarmUp, adjustment.WarmUp)
	workout.Main = prescribe(mainExercises, SectionMain, adjustment.Main)
	workout.CoolDown = prescribe(coolDown, SectionCoolDown, adjustment.CoolDown)

	workout.TotalDurationMinutes, workout.TotalCalories = workoutTotals(workout.Sequence())
	return workout, nil
}

func selectMainExercises(exercises []ExerciseDefinition, difficulty Difficulty, focus FocusArea, count int, used map[string]struct{}) []ExerciseDefinition {
	pool := make([]ExerciseDefinition, 0)
	easier := make([]ExerciseDefinition, 0)
	easierTier, hasEasierTier := difficulty.Easier()
	for _, exercise := range exercises {
		if !focus.matches(exercise) {
			continue
		}
		switch {
		case exercise.Difficulty == difficulty:
			pool = append(pool, exercise)
		case hasEasierTier && exercise.Difficulty == easierTier:
			easier = append(easier, exercise)
		}
	}

	// The hardest entries of the easier tier are the closest to the requested level.
	sort.SliceStable(easier, func(i, j int) bool {
		if easier[i].DifficultyScore == easier[j].DifficultyScore {
			return easier[i].ID < easier[j].ID
		}
		return easier[i].DifficultyScore > easier[j].DifficultyScore
	})
	if len(easier) > easierTierSliceSize {
		easier = easier[:easierTierSliceSize]
	}
	pool = append(pool, easier...)
	sortByDifficultyScore(pool)

	selected := pickWithVariety(pool, count, used)
	if len(selected) < count {
		selected = append(selected, pickRelaxed(exercises, difficulty, focus, count-len(selected), used)...)
	}
	if len(selected) == 0 {
		everything := append([]ExerciseDefinition(nil), exercises...)
		sortByDifficultyScore(everything)
		selected = pickAny(everything, count, used)
	}
	return selected
}

// pickWithVariety fills up to count from pool. Once half the slots are filled, an exercise
// sharing (type, primary muscle group) with an earlier pick is skipped; a second pass then
// fills whatever is left regardless of that rule.
func pickWithVariety(pool []ExerciseDefinition, count int, used map[string]struct{}) []ExerciseDefinition {
	type varietyKey struct {
		exerciseType ExerciseType
		muscle       MuscleGroup
	}

	selected := make([]ExerciseDefinition, 0, count)
	seenKeys := make(map[varietyKey]struct{})
	for _, exercise := range pool {
		if len(selected) >= count {
			break
		}
		if _, taken := used[exercise.ID]; taken {
			continue
		}
		key := varietyKey{exerciseType: exercise.Type, muscle: exercise.PrimaryMuscleGroup()}
		_, repeated := seenKeys[key]
		if repeated && len(selected)*2 >= count {
			continue
		}
		seenKeys[key] = struct{}{}
		used[exercise.ID] = struct{}{}
		selected = append(selected, exercise)
	}

	return append(selected, pickAny(pool, count-len(selected), used)...)
}

// pickRelaxed drops the difficulty filter and prefers tiers closest to the requested one.
func pickRelaxed(exercises []ExerciseDefinition, difficulty Difficulty, focus FocusArea, count int, used map[string]struct{}) []ExerciseDefinition {
	pool := make([]ExerciseDefinition, 0)
	for _, exercise := range exercises {
		if focus.matches(exercise) {
			pool = append(pool, exercise)
		}
	}
	sort.SliceStable(pool, func(i, j int) bool {
		distanceI := absInt(pool[i].Difficulty.Rank() - difficulty.Rank())
		distanceJ := absInt(pool[j].Difficulty.Rank() - difficulty.Rank())
		if distanceI != distanceJ {
			return distanceI < distanceJ
		}
		if pool[i].DifficultyScore != pool[j].DifficultyScore {
			return pool[i].DifficultyScore < pool[j].DifficultyScore
		}
		return pool[i].ID < pool[j].ID
	})
	return pickAny(pool, count, used)
}

func pickAny(pool []ExerciseDefinition, count int, used map[string]struct{}) []ExerciseDefinition {
	selected := make([]ExerciseDefinition, 0, max(count, 0))
	for _, exercise := range pool {
		if len(selected) >= count {
			break
		}
		if _, taken := used[exercise.ID]; taken {
			continue
		}
		used[exercise.ID] = struct{}{}
		selected = append(selected, exercise)
	}
	return selected
}

func selectLowIntensity(exercises []ExerciseDefinition, used map[string]struct{}, count int, eligible func(ExerciseDefinition) bool) []ExerciseDefinition {
	pool := make([]ExerciseDefinition, 0)
	for _, exercise := range exercises {
		if eligible(exercise) {
			pool = append(pool, exercise)
		}
	}
	sortByDifficultyScore(pool)
	return pickAny(pool, count, used)
}

func workoutTotals(sequence []SelectedExercise) (int, int) {
	if len(sequence) == 0 {
		return 0, 0
	}
	totalSeconds := 0
	caloriesPerMinute := 0.0
	for _, selected := range sequence {
		totalSeconds += selected.WorkSeconds()
		caloriesPerMinute += selected.Exercise.CaloriesPerMinute
	}
	minutes := int(math.Ceil(float64(totalSeconds) / 60))
	meanCalories := caloriesPerMinute / float64(len(sequence))
	return minutes, int(math.Round(meanCalories * float64(minutes)))
}

func containsType(types []ExerciseType, needle ExerciseType) bool {
	for _, candidate := range types {
		if candidate == needle {
			return true
		}
	}
	return false
}

func absInt(value int) int {
	if value < 0 {
		return -value
	}
	return value
}
