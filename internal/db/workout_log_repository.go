package db

import (
	"github.com/terraincognita07/fastfit/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WorkoutLogRepository struct {
	database *gorm.DB
}

func NewWorkoutLogRepository(database *gorm.DB) *WorkoutLogRepository {
	return &WorkoutLogRepository{database: database}
}

func (repo *WorkoutLogRepository) FindByUserAndDay(userID uint, day string) (models.WorkoutLog, bool, error) {
	var entry models.WorkoutLog
	result := repo.database.Where("user_id = ? AND day = ?", userID, day).Limit(1).Find(&entry)
	if result.Error != nil {
		return models.WorkoutLog{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.WorkoutLog{}, false, nil
	}
	return entry, true, nil
}

// ListRecent returns the newest logs first.
func (repo *WorkoutLogRepository) ListRecent(userID uint, limit int) ([]models.WorkoutLog, error) {
	logs := make([]models.WorkoutLog, 0)
	query := repo.database.Where("user_id = ?", userID).Order("day DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// ListRange returns logs whose day key falls in [fromKey, toKey], oldest first.
func (repo *WorkoutLogRepository) ListRange(userID uint, fromKey string, toKey string) ([]models.WorkoutLog, error) {
	logs := make([]models.WorkoutLog, 0)
	err := repo.database.
		Where("user_id = ? AND day >= ? AND day <= ?", userID, fromKey, toKey).
		Order("day ASC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (repo *WorkoutLogRepository) Upsert(entry *models.WorkoutLog) error {
	return repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{"day_number", "completed_indices", "total_exercises", "updated_at"}),
	}).Create(entry).Error
}
