package db

import (
	"errors"

	"github.com/terraincognita07/fastfit/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FastingStateRepository struct {
	database *gorm.DB
}

func NewFastingStateRepository(database *gorm.DB) *FastingStateRepository {
	return &FastingStateRepository{database: database}
}

func (repo *FastingStateRepository) FindByUserID(userID uint) (models.FastingStateRecord, bool, error) {
	var record models.FastingStateRecord
	result := repo.database.Where("user_id = ?", userID).Limit(1).Find(&record)
	if result.Error != nil {
		return models.FastingStateRecord{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.FastingStateRecord{}, false, nil
	}
	return record, true, nil
}

// Upsert replaces the stored blob in a single statement.
func (repo *FastingStateRepository) Upsert(record *models.FastingStateRecord) error {
	if record == nil || record.UserID == 0 {
		return errors.New("fasting state record requires a user id")
	}
	return repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"version", "payload", "updated_at"}),
	}).Create(record).Error
}
