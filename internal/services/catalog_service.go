package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/terraincognita07/fastfit/internal/models"
)

var ErrInvalidOverride = errors.New("invalid exercise override")

type ExerciseRecordRepository interface {
	Count() (int64, error)
	List() ([]models.Exercise, error)
	Create(exercise *models.Exercise) error
	SeedMissing(exercises []models.Exercise) (int64, error)
	ListOverrides() ([]models.ExerciseOverride, error)
	UpsertOverride(override *models.ExerciseOverride) error
	DeleteOverride(exerciseID string) (bool, error)
}

// CatalogStore reads base exercises and overrides from the database.
type CatalogStore struct {
	records ExerciseRecordRepository
}

func NewCatalogStore(records ExerciseRecordRepository) *CatalogStore {
	return &CatalogStore{records: records}
}

func (store *CatalogStore) ListExercises() ([]ExerciseDefinition, error) {
	rows, err := store.records.List()
	if err != nil {
		return nil, err
	}
	exercises := make([]ExerciseDefinition, 0, len(rows))
	for _, row := range rows {
		exercises = append(exercises, exerciseFromRecord(row))
	}
	return exercises, nil
}

func (store *CatalogStore) ListOverrides() ([]ExerciseOverride, error) {
	rows, err := store.records.ListOverrides()
	if err != nil {
		return nil, err
	}
	overrides := make([]ExerciseOverride, 0, len(rows))
	for _, row := range rows {
		var override ExerciseOverride
		if err := json.Unmarshal([]byte(row.Payload), &override); err != nil {
			return nil, fmt.Errorf("decode override %s: %w", row.ExerciseID, err)
		}
		override.ExerciseID = row.ExerciseID
		overrides = append(overrides, override)
	}
	return overrides, nil
}

func exerciseFromRecord(row models.Exercise) ExerciseDefinition {
	groups := make([]MuscleGroup, 0, len(row.MuscleGroups))
	for _, group := range row.MuscleGroups {
		groups = append(groups, MuscleGroup(group))
	}
	return ExerciseDefinition{
		ID:                  row.ID,
		Name:                row.Name,
		Type:                ExerciseType(row.Type),
		MuscleGroups:        groups,
		Difficulty:          Difficulty(row.Difficulty),
		BaseSets:            row.BaseSets,
		BaseReps:            row.BaseReps,
		BaseDurationSeconds: row.BaseDurationSeconds,
		BaseRestSeconds:     row.BaseRestSeconds,
		CaloriesPerMinute:   row.CaloriesPerMinute,
		DifficultyScore:     row.DifficultyScore,
		Custom:              row.Custom,
	}
}

func exerciseToRecord(exercise ExerciseDefinition) models.Exercise {
	groups := make([]string, 0, len(exercise.MuscleGroups))
	for _, group := range exercise.MuscleGroups {
		groups = append(groups, string(group))
	}
	return models.Exercise{
		ID:                  exercise.ID,
		Name:                exercise.Name,
		Type:                string(exercise.Type),
		MuscleGroups:        groups,
		Difficulty:          string(exercise.Difficulty),
		BaseSets:            exercise.BaseSets,
		BaseReps:            exercise.BaseReps,
		BaseDurationSeconds: exercise.BaseDurationSeconds,
		BaseRestSeconds:     exercise.BaseRestSeconds,
		CaloriesPerMinute:   exercise.CaloriesPerMinute,
		DifficultyScore:     exercise.DifficultyScore,
		Custom:              exercise.Custom,
	}
}

// CatalogService owns the merged catalog. The merged arena is rebuilt after every admin
// write and shared read-only between requests.
type CatalogService struct {
	records ExerciseRecordRepository
	store   *CatalogStore
	logger  *slog.Logger

	mu      sync.RWMutex
	catalog *ExerciseCatalog
}

func NewCatalogService(records ExerciseRecordRepository, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		records: records,
		store:   NewCatalogStore(records),
		logger:  logger,
	}
}

// SeedDefaults stores every built-in exercise that is not stored yet.
func (service *CatalogService) SeedDefaults() error {
	defaults := DefaultExerciseCatalog()
	rows := make([]models.Exercise, 0, len(defaults))
	now := time.Now().UTC()
	for _, exercise := range defaults {
		row := exerciseToRecord(exercise)
		row.CreatedAt = now
		rows = append(rows, row)
	}
	inserted, err := service.records.SeedMissing(rows)
	if err != nil {
		return fmt.Errorf("seed exercise catalog: %w", err)
	}
	if inserted > 0 {
		service.logger.Info("exercise catalog seeded", slog.Int64("inserted", inserted))
	}
	return service.Reload()
}

func (service *CatalogService) Reload() error {
	catalog, err := LoadCatalog(service.store)
	if err != nil {
		return err
	}
	service.mu.Lock()
	service.catalog = catalog
	service.mu.Unlock()
	return nil
}

func (service *CatalogService) Catalog() (*ExerciseCatalog, error) {
	service.mu.RLock()
	catalog := service.catalog
	service.mu.RUnlock()
	if catalog != nil {
		return catalog, nil
	}
	if err := service.Reload(); err != nil {
		return nil, err
	}
	service.mu.RLock()
	defer service.mu.RUnlock()
	return service.catalog, nil
}

func (service *CatalogService) List() ([]ExerciseDefinition, error) {
	catalog, err := service.Catalog()
	if err != nil {
		return nil, err
	}
	return catalog.All(), nil
}

func (service *CatalogService) CreateCustom(exercise ExerciseDefinition) (ExerciseDefinition, error) {
	exercise.ID = strings.ToLower(strings.TrimSpace(exercise.ID))
	exercise.Name = strings.TrimSpace(exercise.Name)
	exercise.Custom = true
	if err := exercise.Validate(); err != nil {
		return ExerciseDefinition{}, err
	}

	catalog, err := service.Catalog()
	if err != nil {
		return ExerciseDefinition{}, err
	}
	if _, exists := catalog.Get(exercise.ID); exists {
		return ExerciseDefinition{}, fmt.Errorf("%w: %s", ErrDuplicateExercise, exercise.ID)
	}

	row := exerciseToRecord(exercise)
	row.CreatedAt = time.Now().UTC()
	if err := service.records.Create(&row); err != nil {
		return ExerciseDefinition{}, fmt.Errorf("create exercise: %w", err)
	}
	return exercise, service.Reload()
}

// SetOverride stores override for an existing base exercise. Merges that would produce an
// invalid exercise are rejected up front instead of being silently dropped at read time.
func (service *CatalogService) SetOverride(override ExerciseOverride) (ExerciseDefinition, error) {
	base, err := service.baseExercise(override.ExerciseID)
	if err != nil {
		return ExerciseDefinition{}, err
	}
	merged := override.applyTo(base)
	if !override.Disabled {
		if err := merged.Validate(); err != nil {
			return ExerciseDefinition{}, fmt.Errorf("%w: %v", ErrInvalidOverride, err)
		}
	}

	payload, err := json.Marshal(override)
	if err != nil {
		return ExerciseDefinition{}, fmt.Errorf("encode override: %w", err)
	}
	if err := service.records.UpsertOverride(&models.ExerciseOverride{
		ExerciseID: override.ExerciseID,
		Payload:    string(payload),
		UpdatedAt:  time.Now().UTC(),
	}); err != nil {
		return ExerciseDefinition{}, fmt.Errorf("store override: %w", err)
	}
	return merged, service.Reload()
}

func (service *CatalogService) ClearOverride(exerciseID string) error {
	deleted, err := service.records.DeleteOverride(exerciseID)
	if err != nil {
		return fmt.Errorf("delete override: %w", err)
	}
	if !deleted {
		return ErrExerciseNotFound
	}
	return service.Reload()
}

func (service *CatalogService) baseExercise(exerciseID string) (ExerciseDefinition, error) {
	base, err := service.store.ListExercises()
	if err != nil {
		return ExerciseDefinition{}, err
	}
	for _, exercise := range base {
		if exercise.ID == exerciseID {
			return exercise, nil
		}
	}
	return ExerciseDefinition{}, ErrExerciseNotFound
}
