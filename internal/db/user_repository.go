package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/terraincognita07/fastfit/internal/models"
	"gorm.io/gorm"
)

// Columns a profile update may touch. Credentials and role have dedicated paths.
var userProfileColumns = map[string]struct{}{
	"display_name":       {},
	"difficulty":         {},
	"activity_level":     {},
	"weight_kg":          {},
	"height_cm":          {},
	"timezone":           {},
	"program_start_date": {},
	"auto_transitions":   {},
}

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) byEmail(email string) *gorm.DB {
	return repo.database.Where("lower(trim(email)) = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (repo *UserRepository) Count() (int64, error) {
	var count int64
	err := repo.database.Model(&models.User{}).Count(&count).Error
	return count, err
}

func (repo *UserRepository) FindByID(userID uint) (models.User, error) {
	var user models.User
	err := repo.database.First(&user, userID).Error
	return user, err
}

func (repo *UserRepository) FindByEmail(email string) (models.User, error) {
	var user models.User
	err := repo.byEmail(email).First(&user).Error
	return user, err
}

func (repo *UserRepository) EmailTaken(email string) (bool, error) {
	var matched int64
	err := repo.byEmail(email).Model(&models.User{}).Limit(1).Count(&matched).Error
	return matched > 0, err
}

func (repo *UserRepository) Create(user *models.User) error {
	return repo.database.Create(user).Error
}

func (repo *UserRepository) UpdatePassword(userID uint, passwordHash string) error {
	return repo.updateColumns(userID, map[string]any{"password_hash": passwordHash})
}

func (repo *UserRepository) UpdateProfile(userID uint, fields map[string]any) error {
	for column := range fields {
		if _, ok := userProfileColumns[column]; !ok {
			return fmt.Errorf("column %q is not a profile field", column)
		}
	}
	return repo.updateColumns(userID, fields)
}

func (repo *UserRepository) updateColumns(userID uint, fields map[string]any) error {
	result := repo.database.Model(&models.User{}).Where("id = ?", userID).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// EachInBatches hands users to fn batchSize at a time in id order, loading only the columns the
// reconcile worker needs. It stops at the first error from fn or when ctx is done.
func (repo *UserRepository) EachInBatches(ctx context.Context, batchSize int, fn func([]models.User) error) error {
	var batch []models.User
	result := repo.database.WithContext(ctx).
		Select("id", "timezone", "auto_transitions").
		Order("id ASC").
		FindInBatches(&batch, max(batchSize, 1), func(_ *gorm.DB, _ int) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(batch)
		})
	return result.Error
}

// DeleteWithData removes the user together with their fasting state and workout logs.
func (repo *UserRepository) DeleteWithData(userID uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		for _, owned := range []any{&models.WorkoutLog{}, &models.FastingStateRecord{}} {
			if err := tx.Where("user_id = ?", userID).Delete(owned).Error; err != nil {
				return err
			}
		}
		result := tx.Delete(&models.User{}, userID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
