package db

import (
	"github.com/terraincognita07/fastfit/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExerciseRepository struct {
	database *gorm.DB
}

func NewExerciseRepository(database *gorm.DB) *ExerciseRepository {
	return &ExerciseRepository{database: database}
}

func (repo *ExerciseRepository) Count() (int64, error) {
	var count int64
	if err := repo.database.Model(&models.Exercise{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *ExerciseRepository) List() ([]models.Exercise, error) {
	exercises := make([]models.Exercise, 0)
	if err := repo.database.Order("id ASC").Find(&exercises).Error; err != nil {
		return nil, err
	}
	return exercises, nil
}

func (repo *ExerciseRepository) Create(exercise *models.Exercise) error {
	return repo.database.Create(exercise).Error
}

// SeedMissing inserts exercises whose id is not stored yet. Existing rows are left alone so
// admin edits survive restarts.
func (repo *ExerciseRepository) SeedMissing(exercises []models.Exercise) (int64, error) {
	if len(exercises) == 0 {
		return 0, nil
	}
	result := repo.database.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(exercises, 50)
	return result.RowsAffected, result.Error
}

func (repo *ExerciseRepository) ListOverrides() ([]models.ExerciseOverride, error) {
	overrides := make([]models.ExerciseOverride, 0)
	if err := repo.database.Order("exercise_id ASC").Find(&overrides).Error; err != nil {
		return nil, err
	}
	return overrides, nil
}

func (repo *ExerciseRepository) UpsertOverride(override *models.ExerciseOverride) error {
	return repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "exercise_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(override).Error
}

func (repo *ExerciseRepository) DeleteOverride(exerciseID string) (bool, error) {
	result := repo.database.Where("exercise_id = ?", exerciseID).Delete(&models.ExerciseOverride{})
	return result.RowsAffected > 0, result.Error
}
