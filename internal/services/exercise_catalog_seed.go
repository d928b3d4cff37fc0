package services

func seedExercise(id string, name string, exerciseType ExerciseType, difficulty Difficulty, score int, sets int, reps int, durationSeconds int, restSeconds int, caloriesPerMinute float64, groups ...MuscleGroup) ExerciseDefinition {
	return ExerciseDefinition{
		ID:                  id,
		Name:                name,
		Type:                exerciseType,
		MuscleGroups:        groups,
		Difficulty:          difficulty,
		BaseSets:            sets,
		BaseReps:            reps,
		BaseDurationSeconds: durationSeconds,
		BaseRestSeconds:     restSeconds,
		CaloriesPerMinute:   caloriesPerMinute,
		DifficultyScore:     score,
	}
}

// DefaultExerciseCatalog is the built-in catalog seeded into an empty database.
func DefaultExerciseCatalog() []ExerciseDefinition {
	const (
		strength    = ExerciseTypeStrength
		cardio      = ExerciseTypeCardio
		flexibility = ExerciseTypeFlexibility
		hiit        = ExerciseTypeHIIT

		beginner     = DifficultyBeginner
		intermediate = DifficultyIntermediate
		advanced     = DifficultyAdvanced
	)

	return []ExerciseDefinition{
		// push
		seedExercise("wall-push-up", "Wall Push-Up", strength, beginner, 1, 2, 12, 0, 45, 4.0, MuscleChest, MuscleTriceps),
		seedExercise("incline-push-up", "Incline Push-Up", strength, beginner, 2, 3, 10, 0, 60, 5.0, MuscleChest, MuscleShoulders),
		seedExercise("knee-push-up", "Knee Push-Up", strength, beginner, 3, 3, 10, 0, 60, 5.5, MuscleChest, MuscleTriceps),
		seedExercise("bench-dip", "Bench Dip", strength, beginner, 3, 3, 10, 0, 60, 5.0, MuscleTriceps, MuscleShoulders),
		seedExercise("band-shoulder-press", "Band Shoulder Press", strength, beginner, 2, 3, 12, 0, 45, 4.5, MuscleShoulders, MuscleTriceps),
		seedExercise("push-up", "Push-Up", strength, intermediate, 4, 3, 15, 0, 60, 7.0, MuscleChest, MuscleTriceps, MuscleShoulders),
		seedExercise("dumbbell-bench-press", "Dumbbell Bench Press", strength, intermediate, 4, 4, 10, 0, 90, 6.0, MuscleChest, MuscleTriceps),
		seedExercise("diamond-push-up", "Diamond Push-Up", strength, intermediate, 5, 3, 12, 0, 60, 7.0, MuscleTriceps, MuscleChest),
		seedExercise("pike-push-up", "Pike Push-Up", strength, intermediate, 5, 3, 10, 0, 60, 6.5, MuscleShoulders, MuscleTriceps),
		seedExercise("overhead-press", "Dumbbell Overhead Press", strength, intermediate, 5, 4, 10, 0, 90, 6.0, MuscleShoulders),
		seedExercise("parallel-bar-dip", "Parallel Bar Dip", strength, intermediate, 6, 3, 10, 0, 90, 7.5, MuscleTriceps, MuscleChest),
		seedExercise("decline-push-up", "Decline Push-Up", strength, advanced, 7, 4, 15, 0, 60, 8.0, MuscleChest, MuscleShoulders),
		seedExercise("clap-push-up", "Clap Push-Up", hiit, advanced, 7, 4, 10, 0, 75, 10.0, MuscleChest, MuscleTriceps),
		seedExercise("archer-push-up", "Archer Push-Up", strength, advanced, 8, 4, 8, 0, 90, 8.5, MuscleChest, MuscleShoulders),
		seedExercise("ring-dip", "Ring Dip", strength, advanced, 8, 4, 10, 0, 90, 8.5, MuscleTriceps, MuscleChest),
		seedExercise("handstand-push-up", "Handstand Push-Up", strength, advanced, 9, 4, 6, 0, 120, 9.0, MuscleShoulders, MuscleTriceps),
		seedExercise("weighted-dip", "Weighted Dip", strength, advanced, 9, 5, 8, 0, 120, 9.0, MuscleTriceps, MuscleChest),

		// pull
		seedExercise("band-bicep-curl", "Band Bicep Curl", strength, beginner, 1, 3, 12, 0, 45, 3.5, MuscleBiceps),
		seedExercise("superman-hold", "Superman Hold", strength, beginner, 2, 3, 0, 20, 45, 3.5, MuscleBack, MuscleLowerBack),
		seedExercise("band-row", "Resistance Band Row", strength, beginner, 2, 3, 12, 0, 45, 4.0, MuscleBack, MuscleBiceps),
		seedExercise("reverse-snow-angel", "Reverse Snow Angel", strength, beginner, 2, 3, 10, 0, 45, 3.5, MuscleBack, MuscleShoulders),
		seedExercise("doorway-row", "Doorway Row", strength, beginner, 3, 3, 10, 0, 60, 4.5, MuscleBack, MuscleBiceps),
		seedExercise("inverted-row", "Inverted Row", strength, intermediate, 4, 3, 10, 0, 60, 6.0, MuscleBack, MuscleBiceps),
		seedExercise("dumbbell-row", "Single-Arm Dumbbell Row", strength, intermediate, 4, 4, 10, 0, 75, 5.5, MuscleBack, MuscleBiceps),
		seedExercise("hammer-curl", "Hammer Curl", strength, intermediate, 4, 3, 12, 0, 60, 4.5, MuscleBiceps),
		seedExercise("face-pull", "Band Face Pull", strength, intermediate, 5, 3, 15, 0, 60, 4.5, MuscleBack, MuscleShoulders),
		seedExercise("negative-chin-up", "Negative Chin-Up", strength, intermediate, 5, 3, 6, 0, 90, 6.5, MuscleBiceps, MuscleBack),
		seedExercise("renegade-row", "Renegade Row", strength, intermediate, 6, 3, 10, 0, 75, 7.5, MuscleBack, MuscleCore),
		seedExercise("pull-up", "Pull-Up", strength, advanced, 7, 4, 8, 0, 90, 8.0, MuscleBack, MuscleBiceps),
		seedExercise("chin-up", "Chin-Up", strength, advanced, 7, 4, 8, 0, 90, 8.0, MuscleBiceps, MuscleBack),
		seedExercise("typewriter-pull-up", "Typewriter Pull-Up", strength, advanced, 8, 4, 6, 0, 120, 8.5, MuscleBack, MuscleBiceps),
		seedExercise("weighted-pull-up", "Weighted Pull-Up", strength, advanced, 9, 5, 6, 0, 120, 9.0, MuscleBack, MuscleBiceps),
		seedExercise("muscle-up", "Muscle-Up", hiit, advanced, 9, 4, 5, 0, 120, 10.0, MuscleBack, MuscleTriceps),
		seedExercise("l-sit-pull-up", "L-Sit Pull-Up", strength, advanced, 9, 4, 6, 0, 120, 9.0, MuscleBack, MuscleCore),

		// legs
		seedExercise("glute-bridge", "Glute Bridge", strength, beginner, 1, 3, 15, 0, 45, 4.0, MuscleGlutes, MuscleHamstrings),
		seedExercise("calf-raise", "Calf Raise", strength, beginner, 1, 3, 15, 0, 45, 3.5, MuscleCalves),
		seedExercise("bodyweight-squat", "Bodyweight Squat", strength, beginner, 2, 3, 15, 0, 60, 5.5, MuscleQuadriceps, MuscleGlutes),
		seedExercise("step-up", "Step-Up", strength, beginner, 2, 3, 10, 0, 60, 6.0, MuscleQuadriceps, MuscleGlutes),
		seedExercise("reverse-lunge", "Reverse Lunge", strength, beginner, 3, 3, 10, 0, 60, 6.0, MuscleQuadriceps, MuscleGlutes),
		seedExercise("wall-sit", "Wall Sit", strength, beginner, 3, 3, 0, 30, 60, 4.5, MuscleQuadriceps),
		seedExercise("goblet-squat", "Goblet Squat", strength, intermediate, 4, 4, 12, 0, 75, 7.0, MuscleQuadriceps, MuscleGlutes),
		seedExercise("walking-lunge", "Walking Lunge", strength, intermediate, 4, 3, 12, 0, 60, 7.0, MuscleQuadriceps, MuscleGlutes),
		seedExercise("single-leg-glute-bridge", "Single-Leg Glute Bridge", strength, intermediate, 4, 3, 12, 0, 60, 5.0, MuscleGlutes, MuscleHamstrings),
		seedExercise("single-leg-calf-raise", "Single-Leg Calf Raise", strength, intermediate, 4, 3, 15, 0, 45, 4.5, MuscleCalves),
		seedExercise("romanian-deadlift", "Romanian Deadlift", strength, intermediate, 5, 4, 10, 0, 90, 6.5, MuscleHamstrings, MuscleGlutes),
		seedExercise("jump-squat", "Jump Squat", hiit, intermediate, 6, 3, 12, 0, 75, 9.5, MuscleQuadriceps, MuscleGlutes),
		seedExercise("bulgarian-split-squat", "Bulgarian Split Squat", strength, advanced, 7, 4, 10, 0, 90, 8.0, MuscleQuadriceps, MuscleGlutes),
		seedExercise("box-jump", "Box Jump", hiit, advanced, 7, 4, 10, 0, 90, 10.0, MuscleQuadriceps, MuscleCalves),
		seedExercise("single-leg-deadlift", "Weighted Single-Leg Deadlift", strength, advanced, 7, 4, 10, 0, 90, 7.0, MuscleHamstrings, MuscleGlutes),
		seedExercise("barbell-back-squat", "Barbell Back Squat", strength, advanced, 8, 5, 6, 0, 150, 8.5, MuscleQuadriceps, MuscleGlutes),
		seedExercise("pistol-squat", "Pistol Squat", strength, advanced, 9, 4, 6, 0, 120, 8.5, MuscleQuadriceps, MuscleGlutes),
		seedExercise("nordic-curl", "Nordic Hamstring Curl", strength, advanced, 9, 4, 6, 0, 120, 7.5, MuscleHamstrings),

		// core
		seedExercise("dead-bug", "Dead Bug", strength, beginner, 1, 3, 10, 0, 45, 3.5, MuscleCore),
		seedExercise("bird-dog", "Bird Dog", strength, beginner, 1, 3, 10, 0, 45, 3.0, MuscleLowerBack, MuscleCore),
		seedExercise("forearm-plank", "Forearm Plank", strength, beginner, 2, 3, 0, 30, 45, 4.0, MuscleCore),
		seedExercise("crunch", "Crunch", strength, beginner, 2, 3, 15, 0, 45, 4.0, MuscleCore),
		seedExercise("side-plank", "Side Plank", strength, beginner, 3, 2, 0, 20, 45, 4.0, MuscleObliques, MuscleCore),
		seedExercise("russian-twist", "Russian Twist", strength, intermediate, 4, 3, 20, 0, 45, 5.5, MuscleObliques, MuscleCore),
		seedExercise("bicycle-crunch", "Bicycle Crunch", strength, intermediate, 4, 3, 20, 0, 45, 6.0, MuscleCore, MuscleObliques),
		seedExercise("hollow-hold", "Hollow Body Hold", strength, intermediate, 5, 3, 0, 30, 60, 5.0, MuscleCore),
		seedExercise("mountain-climber", "Mountain Climber", hiit, intermediate, 5, 3, 0, 40, 45, 9.0, MuscleCore, MuscleFullBody),
		seedExercise("back-extension", "Back Extension", strength, intermediate, 5, 3, 12, 0, 60, 4.5, MuscleLowerBack),
		seedExercise("hanging-knee-raise", "Hanging Knee Raise", strength, intermediate, 6, 3, 12, 0, 60, 5.5, MuscleCore),
		seedExercise("l-sit", "L-Sit", strength, advanced, 7, 4, 0, 20, 90, 6.0, MuscleCore),
		seedExercise("burpee", "Burpee", hiit, advanced, 7, 4, 12, 0, 60, 11.0, MuscleFullBody, MuscleCore),
		seedExercise("ab-wheel-rollout", "Ab Wheel Rollout", strength, advanced, 8, 4, 10, 0, 90, 6.5, MuscleCore),
		seedExercise("hanging-leg-raise", "Hanging Leg Raise", strength, advanced, 8, 4, 10, 0, 90, 6.5, MuscleCore, MuscleObliques),
		seedExercise("dragon-flag", "Dragon Flag", strength, advanced, 9, 4, 6, 0, 120, 7.0, MuscleCore),
		seedExercise("windshield-wiper", "Windshield Wiper", strength, advanced, 9, 4, 10, 0, 90, 7.0, MuscleObliques, MuscleCore),

		// cardio and mobility
		seedExercise("march-in-place", "March in Place", cardio, beginner, 1, 1, 0, 60, 15, 4.0, MuscleFullBody),
		seedExercise("brisk-walk", "Brisk Walk", cardio, beginner, 1, 1, 0, 300, 30, 4.5, MuscleFullBody, MuscleCalves),
		seedExercise("jumping-jack", "Jumping Jack", cardio, beginner, 2, 2, 0, 45, 30, 8.0, MuscleFullBody),
		seedExercise("easy-cycling", "Easy Cycling", cardio, beginner, 2, 1, 0, 300, 30, 6.0, MuscleQuadriceps, MuscleFullBody),
		seedExercise("arm-circle", "Arm Circles", flexibility, beginner, 1, 1, 0, 30, 15, 2.5, MuscleShoulders),
		seedExercise("leg-swing", "Leg Swings", flexibility, beginner, 1, 1, 0, 30, 15, 2.5, MuscleHamstrings, MuscleGlutes),
		seedExercise("cat-cow", "Cat-Cow", flexibility, beginner, 1, 1, 0, 45, 15, 2.0, MuscleLowerBack, MuscleCore),
		seedExercise("childs-pose", "Child's Pose", flexibility, beginner, 1, 1, 0, 45, 15, 1.5, MuscleLowerBack, MuscleBack),
		seedExercise("hamstring-stretch", "Standing Hamstring Stretch", flexibility, beginner, 1, 1, 0, 30, 15, 1.5, MuscleHamstrings),
		seedExercise("quad-stretch", "Standing Quad Stretch", flexibility, beginner, 1, 1, 0, 30, 15, 1.5, MuscleQuadriceps),
		seedExercise("doorway-chest-stretch", "Doorway Chest Stretch", flexibility, beginner, 1, 1, 0, 30, 15, 1.5, MuscleChest, MuscleShoulders),
		seedExercise("hip-flexor-stretch", "Kneeling Hip Flexor Stretch", flexibility, beginner, 2, 1, 0, 40, 15, 2.0, MuscleGlutes, MuscleQuadriceps),
		seedExercise("jump-rope", "Jump Rope", cardio, intermediate, 4, 3, 0, 60, 45, 11.0, MuscleCalves, MuscleFullBody),
		seedExercise("yoga-flow", "Sun Salutation Flow", flexibility, intermediate, 4, 2, 0, 120, 30, 3.5, MuscleFullBody),
		seedExercise("high-knees", "High Knees", cardio, intermediate, 5, 3, 0, 40, 45, 9.0, MuscleQuadriceps, MuscleFullBody),
		seedExercise("rowing-intervals", "Rowing Intervals", cardio, advanced, 7, 4, 0, 120, 60, 10.0, MuscleBack, MuscleFullBody),
		seedExercise("sprint-intervals", "Sprint Intervals", hiit, advanced, 8, 6, 0, 30, 90, 14.0, MuscleFullBody, MuscleQuadriceps),
		seedExercise("deep-mobility-flow", "Deep Mobility Flow", flexibility, advanced, 7, 2, 0, 180, 30, 3.0, MuscleFullBody),
	}
}
