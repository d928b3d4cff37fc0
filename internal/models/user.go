package models

import "time"

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

const (
	ActivitySedentary  = "sedentary"
	ActivityLight      = "light"
	ActivityModerate   = "moderate"
	ActivityActive     = "active"
	ActivityVeryActive = "very_active"
)

type User struct {
	ID               uint      `gorm:"primaryKey"`
	Email            string    `gorm:"uniqueIndex;not null"`
	PasswordHash     string    `gorm:"not null"`
	Role             string    `gorm:"not null;default:member"`
	DisplayName      string    `gorm:"not null;default:''"`
	Difficulty       string    `gorm:"not null;default:''"`
	ActivityLevel    string    `gorm:"not null;default:sedentary"`
	WeightKg         float64   `gorm:"not null;default:0"`
	HeightCm         float64   `gorm:"not null;default:0"`
	Timezone         string    `gorm:"not null;default:''"`
	ProgramStartDate string    `gorm:"not null;default:''"`
	AutoTransitions  bool      `gorm:"not null;default:false"`
	CreatedAt        time.Time `gorm:"not null"`
}
