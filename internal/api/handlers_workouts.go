package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fastfit/internal/services"
)

func (handler *Handler) GetTodayWorkout(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	workout, err := handler.workouts.Today(c.UserContext(), user.ID, handler.userLocation(c))
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(handler.localizeWorkout(c, workout))
}

func (handler *Handler) GetWorkoutForDay(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	dayNumber, err := strconv.Atoi(c.Params("day"))
	if err != nil || dayNumber < 1 {
		return handler.apiError(c, fiber.StatusBadRequest, "invalid_input")
	}
	workout, err := handler.workouts.Preview(c.UserContext(), user.ID, handler.userLocation(c), dayNumber)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(handler.localizeWorkout(c, workout))
}

func (handler *Handler) GetWorkoutProgress(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	progress, err := handler.workouts.Progress(c.UserContext(), user.ID, handler.userLocation(c))
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(progress)
}

func (handler *Handler) CompleteExercise(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "invalid_input")
	}
	progress, err := handler.workouts.CompleteExercise(c.UserContext(), user.ID, handler.userLocation(c), index)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(progress)
}

func (handler *Handler) localizeWorkout(c *fiber.Ctx, workout services.DailyWorkout) services.DailyWorkout {
	language := currentLanguage(c)
	workout.FocusLabel = handler.i18n.Translate(language, workout.FocusArea.LabelKey())
	workout.ProgressionMessage = handler.i18n.Translatef(language, workout.Progression.Key, workout.Progression.FormatArgs()...)
	return workout
}
