package models

import "time"

type Exercise struct {
	ID                  string   `gorm:"primaryKey"`
	Name                string   `gorm:"not null"`
	Type                string   `gorm:"not null"`
	MuscleGroups        []string `gorm:"serializer:json;not null"`
	Difficulty          string   `gorm:"not null;index"`
	BaseSets            int      `gorm:"not null"`
	BaseReps            int      `gorm:"not null;default:0"`
	BaseDurationSeconds int      `gorm:"not null;default:0"`
	BaseRestSeconds     int      `gorm:"not null;default:0"`
	CaloriesPerMinute   float64  `gorm:"not null;default:0"`
	DifficultyScore     int      `gorm:"not null;default:0"`
	Custom              bool     `gorm:"not null;default:false"`
	CreatedAt           time.Time
}

// ExerciseOverride keeps per-field replacements for a catalog entry as a JSON payload.
type ExerciseOverride struct {
	ExerciseID string `gorm:"primaryKey"`
	Payload    string `gorm:"type:text;not null"`
	UpdatedAt  time.Time
}
