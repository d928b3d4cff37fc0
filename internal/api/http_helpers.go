package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fastfit/internal/services"
	"gorm.io/gorm"
)

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{services.ErrInvalidTimeFormat, fiber.StatusBadRequest, "invalid_time_format"},
	{services.ErrInvalidWindow, fiber.StatusBadRequest, "invalid_window"},
	{services.ErrUnknownProtocol, fiber.StatusBadRequest, "unknown_protocol"},
	{services.ErrInvalidDayKey, fiber.StatusBadRequest, "invalid_input"},
	{services.ErrInvalidProfile, fiber.StatusBadRequest, "invalid_profile"},
	{services.ErrInvalidExercise, fiber.StatusBadRequest, "invalid_exercise"},
	{services.ErrInvalidOverride, fiber.StatusBadRequest, "invalid_exercise"},
	{services.ErrInvalidDifficulty, fiber.StatusBadRequest, "invalid_input"},
	{services.ErrExportFromDateInvalid, fiber.StatusBadRequest, "invalid_input"},
	{services.ErrExportToDateInvalid, fiber.StatusBadRequest, "invalid_input"},
	{services.ErrExportRangeInvalid, fiber.StatusBadRequest, "invalid_input"},
	{services.ErrExerciseIndexOutOfRange, fiber.StatusBadRequest, "exercise_index_out_of_range"},
	{services.ErrWeakPassword, fiber.StatusBadRequest, "weak_password"},
	{services.ErrPasswordUnchanged, fiber.StatusBadRequest, "password_unchanged"},
	{services.ErrAuthCredentialsInvalid, fiber.StatusUnauthorized, "credentials_invalid"},
	{services.ErrPlanChangeRejected, fiber.StatusConflict, "plan_change_rejected"},
	{services.ErrInvalidTransition, fiber.StatusConflict, "invalid_transition"},
	{services.ErrNoCurrentCycle, fiber.StatusConflict, "no_current_cycle"},
	{services.ErrExerciseOutOfOrder, fiber.StatusConflict, "exercise_out_of_order"},
	{services.ErrEmailTaken, fiber.StatusConflict, "email_taken"},
	{services.ErrDuplicateExercise, fiber.StatusConflict, "duplicate_exercise"},
	{services.ErrExerciseNotFound, fiber.StatusNotFound, "exercise_not_found"},
	{gorm.ErrRecordNotFound, fiber.StatusNotFound, "invalid_input"},
	{services.ErrEmptyCatalogSelection, fiber.StatusUnprocessableEntity, "empty_catalog"},
}

// classifyError maps a service error to its HTTP status and message code.
func classifyError(err error) (int, string) {
	for _, mapping := range errorMappings {
		if errors.Is(err, mapping.target) {
			return mapping.status, mapping.code
		}
	}
	return fiber.StatusInternalServerError, "internal"
}

func (handler *Handler) respondError(c *fiber.Ctx, err error) error {
	status, code := classifyError(err)
	if status >= fiber.StatusInternalServerError {
		handler.logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}
	return handler.apiError(c, status, code)
}

func (handler *Handler) apiError(c *fiber.Ctx, status int, code string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": handler.i18n.Translate(currentLanguage(c), "error."+code),
	})
}

func (handler *Handler) NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
}
