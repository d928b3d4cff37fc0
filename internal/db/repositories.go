package db

import "gorm.io/gorm"

type Repositories struct {
	Users         *UserRepository
	FastingStates *FastingStateRepository
	Exercises     *ExerciseRepository
	WorkoutLogs   *WorkoutLogRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(database),
		FastingStates: NewFastingStateRepository(database),
		Exercises:     NewExerciseRepository(database),
		WorkoutLogs:   NewWorkoutLogRepository(database),
	}
}
