package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidExercise   = errors.New("invalid exercise definition")
	ErrDuplicateExercise = errors.New("duplicate exercise id")
	ErrExerciseNotFound  = errors.New("exercise not found")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
)

type ExerciseType string

const (
	ExerciseTypeStrength    ExerciseType = "strength"
	ExerciseTypeCardio      ExerciseType = "cardio"
	ExerciseTypeFlexibility ExerciseType = "flexibility"
	ExerciseTypeHIIT        ExerciseType = "hiit"
)

func (exerciseType ExerciseType) valid() bool {
	switch exerciseType {
	case ExerciseTypeStrength, ExerciseTypeCardio, ExerciseTypeFlexibility, ExerciseTypeHIIT:
		return true
	default:
		return false
	}
}

type MuscleGroup string

const (
	MuscleChest      MuscleGroup = "chest"
	MuscleShoulders  MuscleGroup = "shoulders"
	MuscleTriceps    MuscleGroup = "triceps"
	MuscleBack       MuscleGroup = "back"
	MuscleBiceps     MuscleGroup = "biceps"
	MuscleQuadriceps MuscleGroup = "quadriceps"
	MuscleHamstrings MuscleGroup = "hamstrings"
	MuscleGlutes     MuscleGroup = "glutes"
	MuscleCalves     MuscleGroup = "calves"
	MuscleCore       MuscleGroup = "core"
	MuscleObliques   MuscleGroup = "obliques"
	MuscleLowerBack  MuscleGroup = "lower_back"
	MuscleFullBody   MuscleGroup = "full_body"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

func ParseDifficulty(raw string) (Difficulty, error) {
	difficulty := Difficulty(strings.ToLower(strings.TrimSpace(raw)))
	if difficulty.Rank() == 0 {
		return "", ErrInvalidDifficulty
	}
	return difficulty, nil
}

func (difficulty Difficulty) Rank() int {
	switch difficulty {
	case DifficultyBeginner:
		return 1
	case DifficultyIntermediate:
		return 2
	case DifficultyAdvanced:
		return 3
	default:
		return 0
	}
}

// Easier is the adjacent easier tier. Beginner has none.
func (difficulty Difficulty) Easier() (Difficulty, bool) {
	switch difficulty {
	case DifficultyIntermediate:
		return DifficultyBeginner, true
	case DifficultyAdvanced:
		return DifficultyIntermediate, true
	default:
		return "", false
	}
}

// DifficultyForActivityLevel picks a starting tier for users who never chose one.
func DifficultyForActivityLevel(activityLevel string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(activityLevel)) {
	case "active", "very_active":
		return DifficultyAdvanced
	case "moderate":
		return DifficultyIntermediate
	default:
		return DifficultyBeginner
	}
}

type ExerciseDefinition struct {
	ID                  string        `json:"id"`
	Name                string        `json:"name"`
	Type                ExerciseType  `json:"type"`
	MuscleGroups        []MuscleGroup `json:"muscleGroups"`
	Difficulty          Difficulty    `json:"difficulty"`
	BaseSets            int           `json:"baseSets"`
	BaseReps            int           `json:"baseReps"`
	BaseDurationSeconds int           `json:"baseDurationSeconds"`
	BaseRestSeconds     int           `json:"baseRestSeconds"`
	CaloriesPerMinute   float64       `json:"caloriesPerMinute"`
	DifficultyScore     int           `json:"difficultyScore"`
	Custom              bool          `json:"custom"`
}

func (exercise ExerciseDefinition) PrimaryMuscleGroup() MuscleGroup {
	if len(exercise.MuscleGroups) == 0 {
		return ""
	}
	return exercise.MuscleGroups[0]
}

func (exercise ExerciseDefinition) Targets(groups []MuscleGroup) bool {
	for _, own := range exercise.MuscleGroups {
		for _, target := range groups {
			if own == target {
				return true
			}
		}
	}
	return false
}

func (exercise ExerciseDefinition) Validate() error {
	switch {
	case strings.TrimSpace(exercise.ID) == "", strings.TrimSpace(exercise.Name) == "":
		return fmt.Errorf("%w: id and name are required", ErrInvalidExercise)
	case !exercise.Type.valid():
		return fmt.Errorf("%w: unknown type %q", ErrInvalidExercise, exercise.Type)
	case exercise.Difficulty.Rank() == 0:
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidExercise, exercise.Difficulty)
	case len(exercise.MuscleGroups) == 0:
		return fmt.Errorf("%w: at least one muscle group is required", ErrInvalidExercise)
	case exercise.BaseSets < 1:
		return fmt.Errorf("%w: base sets must be positive", ErrInvalidExercise)
	case exercise.BaseReps <= 0 && exercise.BaseDurationSeconds <= 0:
		return fmt.Errorf("%w: reps or duration is required", ErrInvalidExercise)
	case exercise.BaseRestSeconds < 0, exercise.CaloriesPerMinute < 0, exercise.DifficultyScore < 0:
		return fmt.Errorf("%w: negative values are not allowed", ErrInvalidExercise)
	}
	return nil
}

func (exercise ExerciseDefinition) clone() ExerciseDefinition {
	copied := exercise
	copied.MuscleGroups = append([]MuscleGroup(nil), exercise.MuscleGroups...)
	return copied
}

// ExerciseOverride replaces individual fields of a catalog entry at read time. Nil fields
// keep the base value.
type ExerciseOverride struct {
	ExerciseID          string        `json:"exerciseId"`
	Name                *string       `json:"name,omitempty"`
	Difficulty          *Difficulty   `json:"difficulty,omitempty"`
	MuscleGroups        []MuscleGroup `json:"muscleGroups,omitempty"`
	BaseSets            *int          `json:"baseSets,omitempty"`
	BaseReps            *int          `json:"baseReps,omitempty"`
	BaseDurationSeconds *int          `json:"baseDurationSeconds,omitempty"`
	BaseRestSeconds     *int          `json:"baseRestSeconds,omitempty"`
	CaloriesPerMinute   *float64      `json:"caloriesPerMinute,omitempty"`
	DifficultyScore     *int          `json:"difficultyScore,omitempty"`
	Disabled            bool          `json:"disabled"`
}

func (override ExerciseOverride) applyTo(base ExerciseDefinition) ExerciseDefinition {
	merged := base.clone()
	if override.Name != nil {
		merged.Name = *override.Name
	}
	if override.Difficulty != nil {
		merged.Difficulty = *override.Difficulty
	}
	if len(override.MuscleGroups) > 0 {
		merged.MuscleGroups = append([]MuscleGroup(nil), override.MuscleGroups...)
	}
	if override.BaseSets != nil {
		merged.BaseSets = *override.BaseSets
	}
	if override.BaseReps != nil {
		merged.BaseReps = *override.BaseReps
	}
	if override.BaseDurationSeconds != nil {
		merged.BaseDurationSeconds = *override.BaseDurationSeconds
	}
	if override.BaseRestSeconds != nil {
		merged.BaseRestSeconds = *override.BaseRestSeconds
	}
	if override.CaloriesPerMinute != nil {
		merged.CaloriesPerMinute = *override.CaloriesPerMinute
	}
	if override.DifficultyScore != nil {
		merged.DifficultyScore = *override.DifficultyScore
	}
	return merged
}

// ApplyOverrides merges overrides into base without touching either input. Disabled entries
// are dropped. An override whose merge no longer validates is ignored and the base entry is
// kept, as are overrides for unknown ids.
func ApplyOverrides(base []ExerciseDefinition, overrides []ExerciseOverride) []ExerciseDefinition {
	byID := make(map[string]ExerciseOverride, len(overrides))
	for _, override := range overrides {
		byID[override.ExerciseID] = override
	}

	merged := make([]ExerciseDefinition, 0, len(base))
	for _, exercise := range base {
		override, ok := byID[exercise.ID]
		if !ok {
			merged = append(merged, exercise.clone())
			continue
		}
		if override.Disabled {
			continue
		}
		candidate := override.applyTo(exercise)
		if candidate.Validate() != nil {
			merged = append(merged, exercise.clone())
			continue
		}
		merged = append(merged, candidate)
	}
	return merged
}

// ExerciseCatalog is a read-only arena of exercises keyed by id.
type ExerciseCatalog struct {
	byID  map[string]ExerciseDefinition
	order []string
}

func NewExerciseCatalog(exercises []ExerciseDefinition) (*ExerciseCatalog, error) {
	catalog := &ExerciseCatalog{
		byID:  make(map[string]ExerciseDefinition, len(exercises)),
		order: make([]string, 0, len(exercises)),
	}
	for _, exercise := range exercises {
		if err := exercise.Validate(); err != nil {
			return nil, fmt.Errorf("exercise %q: %w", exercise.ID, err)
		}
		if _, exists := catalog.byID[exercise.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateExercise, exercise.ID)
		}
		catalog.byID[exercise.ID] = exercise.clone()
		catalog.order = append(catalog.order, exercise.ID)
	}
	return catalog, nil
}

func (catalog *ExerciseCatalog) Len() int {
	if catalog == nil {
		return 0
	}
	return len(catalog.order)
}

func (catalog *ExerciseCatalog) Get(id string) (ExerciseDefinition, bool) {
	if catalog == nil {
		return ExerciseDefinition{}, false
	}
	exercise, ok := catalog.byID[id]
	if !ok {
		return ExerciseDefinition{}, false
	}
	return exercise.clone(), true
}

func (catalog *ExerciseCatalog) All() []ExerciseDefinition {
	if catalog == nil {
		return nil
	}
	result := make([]ExerciseDefinition, 0, len(catalog.order))
	for _, id := range catalog.order {
		result = append(result, catalog.byID[id].clone())
	}
	return result
}

// CatalogRepository is the source of base exercises and their overrides.
type CatalogRepository interface {
	ListExercises() ([]ExerciseDefinition, error)
	ListOverrides() ([]ExerciseOverride, error)
}

func LoadCatalog(repository CatalogRepository) (*ExerciseCatalog, error) {
	base, err := repository.ListExercises()
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	overrides, err := repository.ListOverrides()
	if err != nil {
		return nil, fmt.Errorf("list exercise overrides: %w", err)
	}
	return NewExerciseCatalog(ApplyOverrides(base, overrides))
}

// StaticCatalogRepository serves a fixed in-memory catalog.
type StaticCatalogRepository struct {
	exercises []ExerciseDefinition
	overrides []ExerciseOverride
}

func NewStaticCatalogRepository(exercises []ExerciseDefinition, overrides []ExerciseOverride) *StaticCatalogRepository {
	return &StaticCatalogRepository{exercises: exercises, overrides: overrides}
}

func (repo *StaticCatalogRepository) ListExercises() ([]ExerciseDefinition, error) {
	result := make([]ExerciseDefinition, 0, len(repo.exercises))
	for _, exercise := range repo.exercises {
		result = append(result, exercise.clone())
	}
	return result, nil
}

func (repo *StaticCatalogRepository) ListOverrides() ([]ExerciseOverride, error) {
	result := make([]ExerciseOverride, len(repo.overrides))
	copy(result, repo.overrides)
	return result, nil
}

func sortByDifficultyScore(exercises []ExerciseDefinition) {
	sort.SliceStable(exercises, func(i, j int) bool {
		if exercises[i].DifficultyScore == exercises[j].DifficultyScore {
			return exercises[i].ID < exercises[j].ID
		}
		return exercises[i].DifficultyScore < exercises[j].DifficultyScore
	})
}
