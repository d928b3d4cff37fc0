package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fastfit/internal/services"
)

func (handler *Handler) ListExercises(c *fiber.Ctx) error {
	exercises, err := handler.catalog.List()
	if err != nil {
		return handler.respondError(c, err)
	}
	if difficulty := c.Query("difficulty"); difficulty != "" {
		parsed, err := services.ParseDifficulty(difficulty)
		if err != nil {
			return handler.respondError(c, err)
		}
		filtered := exercises[:0]
		for _, exercise := range exercises {
			if exercise.Difficulty == parsed {
				filtered = append(filtered, exercise)
			}
		}
		exercises = filtered
	}
	return c.JSON(exercises)
}

func (handler *Handler) CreateExercise(c *fiber.Ctx) error {
	var input services.ExerciseDefinition
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "invalid_input")
	}
	created, err := handler.catalog.CreateCustom(input)
	if err != nil {
		return handler.respondError(c, err)
	}
	handler.logger.InfoContext(c.UserContext(), "custom exercise created", slog.String("exercise_id", created.ID))
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (handler *Handler) OverrideExercise(c *fiber.Ctx) error {
	var input services.ExerciseOverride
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "invalid_input")
	}
	input.ExerciseID = c.Params("id")
	merged, err := handler.catalog.SetOverride(input)
	if err != nil {
		return handler.respondError(c, err)
	}
	handler.logger.InfoContext(c.UserContext(), "exercise override stored",
		slog.String("exercise_id", input.ExerciseID),
		slog.Bool("disabled", input.Disabled),
	)
	return c.JSON(merged)
}

func (handler *Handler) ClearExerciseOverride(c *fiber.Ctx) error {
	if err := handler.catalog.ClearOverride(c.Params("id")); err != nil {
		return handler.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetUserFastingWindow installs a custom window for another user.
func (handler *Handler) SetUserFastingWindow(c *fiber.Ctx) error {
	targetID, err := c.ParamsInt("id")
	if err != nil || targetID <= 0 {
		return handler.apiError(c, fiber.StatusBadRequest, "invalid_input")
	}
	var input customWindowInput
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "invalid_input")
	}
	window, err := input.window()
	if err != nil {
		return handler.respondError(c, err)
	}

	target, err := handler.auth.FindByID(uint(targetID))
	if err != nil {
		return handler.respondError(c, err)
	}
	location := services.UserLocation(target, handler.location)
	if _, err := handler.fasting.SetCustomWindow(c.UserContext(), target.ID, location, window); err != nil {
		return handler.respondError(c, err)
	}
	status, err := handler.fasting.Status(c.UserContext(), target.ID, location)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(handler.localizeStatus(c, status))
}
