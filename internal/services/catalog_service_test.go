package services

import (
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/terraincognita07/fastfit/internal/models"
)

type memoryExerciseRecords struct {
	exercises map[string]models.Exercise
	overrides map[string]models.ExerciseOverride
}

func newMemoryExerciseRecords() *memoryExerciseRecords {
	return &memoryExerciseRecords{
		exercises: make(map[string]models.Exercise),
		overrides: make(map[string]models.ExerciseOverride),
	}
}

func (repo *memoryExerciseRecords) Count() (int64, error) {
	return int64(len(repo.exercises)), nil
}

func (repo *memoryExerciseRecords) List() ([]models.Exercise, error) {
	rows := make([]models.Exercise, 0, len(repo.exercises))
	for _, row := range repo.exercises {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (repo *memoryExerciseRecords) Create(exercise *models.Exercise) error {
	if _, exists := repo.exercises[exercise.ID]; exists {
		return errors.New("UNIQUE constraint failed")
	}
	repo.exercises[exercise.ID] = *exercise
	return nil
}

func (repo *memoryExerciseRecords) SeedMissing(exercises []models.Exercise) (int64, error) {
	inserted := int64(0)
	for _, exercise := range exercises {
		if _, exists := repo.exercises[exercise.ID]; exists {
			continue
		}
		repo.exercises[exercise.ID] = exercise
		inserted++
	}
	return inserted, nil
}

func (repo *memoryExerciseRecords) ListOverrides() ([]models.ExerciseOverride, error) {
	rows := make([]models.ExerciseOverride, 0, len(repo.overrides))
	for _, row := range repo.overrides {
		rows = append(rows, row)
	}
	return rows, nil
}

func (repo *memoryExerciseRecords) UpsertOverride(override *models.ExerciseOverride) error {
	repo.overrides[override.ExerciseID] = *override
	return nil
}

func (repo *memoryExerciseRecords) DeleteOverride(exerciseID string) (bool, error) {
	if _, exists := repo.overrides[exerciseID]; !exists {
		return false, nil
	}
	delete(repo.overrides, exerciseID)
	return true, nil
}

func newSeededCatalogService(t *testing.T) (*CatalogService, *memoryExerciseRecords) {
	t.Helper()
	records := newMemoryExerciseRecords()
	service := NewCatalogService(records, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := service.SeedDefaults(); err != nil {
		t.Fatalf("SeedDefaults() unexpected error: %v", err)
	}
	return service, records
}

func TestCatalogServiceSeedDefaultsIsIdempotent(t *testing.T) {
	service, records := newSeededCatalogService(t)
	if err := service.SeedDefaults(); err != nil {
		t.Fatalf("second SeedDefaults() unexpected error: %v", err)
	}
	if len(records.exercises) != len(DefaultExerciseCatalog()) {
		t.Fatalf("stored %d exercises, want %d", len(records.exercises), len(DefaultExerciseCatalog()))
	}
	list, err := service.List()
	if err != nil || len(list) != len(DefaultExerciseCatalog()) {
		t.Fatalf("List() = %d entries, %v", len(list), err)
	}
}

func TestCatalogServiceCreateCustom(t *testing.T) {
	service, _ := newSeededCatalogService(t)

	created, err := service.CreateCustom(seedExercise(" Towel-Row ", " Towel Row ", ExerciseTypeStrength, DifficultyBeginner, 2, 3, 12, 0, 60, 5, MuscleBack))
	if err != nil {
		t.Fatalf("CreateCustom() unexpected error: %v", err)
	}
	if created.ID != "towel-row" || created.Name != "Towel Row" || !created.Custom {
		t.Fatalf("unexpected custom exercise %+v", created)
	}
	catalog, _ := service.Catalog()
	if _, ok := catalog.Get("towel-row"); !ok {
		t.Fatal("custom exercise missing after reload")
	}

	if _, err := service.CreateCustom(created); !errors.Is(err, ErrDuplicateExercise) {
		t.Fatalf("expected ErrDuplicateExercise, got %v", err)
	}
	invalid := created
	invalid.ID = "no-sets"
	invalid.BaseSets = 0
	if _, err := service.CreateCustom(invalid); !errors.Is(err, ErrInvalidExercise) {
		t.Fatalf("expected ErrInvalidExercise, got %v", err)
	}
}

func TestCatalogServiceOverrides(t *testing.T) {
	service, _ := newSeededCatalogService(t)

	sets := 4
	merged, err := service.SetOverride(ExerciseOverride{ExerciseID: "wall-push-up", BaseSets: &sets})
	if err != nil {
		t.Fatalf("SetOverride() unexpected error: %v", err)
	}
	if merged.BaseSets != 4 {
		t.Fatalf("merged sets = %d", merged.BaseSets)
	}
	catalog, _ := service.Catalog()
	if exercise, _ := catalog.Get("wall-push-up"); exercise.BaseSets != 4 {
		t.Fatalf("catalog sets = %d", exercise.BaseSets)
	}

	zero := 0
	if _, err := service.SetOverride(ExerciseOverride{ExerciseID: "wall-push-up", BaseSets: &zero}); !errors.Is(err, ErrInvalidOverride) {
		t.Fatalf("expected ErrInvalidOverride, got %v", err)
	}
	if _, err := service.SetOverride(ExerciseOverride{ExerciseID: "ghost", BaseSets: &sets}); !errors.Is(err, ErrExerciseNotFound) {
		t.Fatalf("expected ErrExerciseNotFound, got %v", err)
	}

	if _, err := service.SetOverride(ExerciseOverride{ExerciseID: "wall-push-up", Disabled: true}); err != nil {
		t.Fatalf("disable override unexpected error: %v", err)
	}
	catalog, _ = service.Catalog()
	if _, ok := catalog.Get("wall-push-up"); ok {
		t.Fatal("disabled exercise still listed")
	}

	if err := service.ClearOverride("wall-push-up"); err != nil {
		t.Fatalf("ClearOverride() unexpected error: %v", err)
	}
	catalog, _ = service.Catalog()
	if exercise, ok := catalog.Get("wall-push-up"); !ok || exercise.BaseSets != 2 {
		t.Fatalf("override not cleared: %+v, %v", exercise, ok)
	}
	if err := service.ClearOverride("wall-push-up"); !errors.Is(err, ErrExerciseNotFound) {
		t.Fatalf("expected ErrExerciseNotFound, got %v", err)
	}
}
