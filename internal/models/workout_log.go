package models

import "time"

type WorkoutLog struct {
	ID               uint   `gorm:"primaryKey"`
	UserID           uint   `gorm:"not null;uniqueIndex:uidx_workout_user_day"`
	Day              string `gorm:"not null;uniqueIndex:uidx_workout_user_day"`
	DayNumber        int    `gorm:"not null"`
	CompletedIndices []int  `gorm:"serializer:json"`
	TotalExercises   int    `gorm:"not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (log WorkoutLog) CompletionPercent() int {
	if log.TotalExercises <= 0 {
		return 0
	}
	done := 0
	seen := make(map[int]struct{}, len(log.CompletedIndices))
	for _, index := range log.CompletedIndices {
		if index < 0 || index >= log.TotalExercises {
			continue
		}
		if _, duplicate := seen[index]; duplicate {
			continue
		}
		seen[index] = struct{}{}
		done++
	}
	return done * 100 / log.TotalExercises
}
