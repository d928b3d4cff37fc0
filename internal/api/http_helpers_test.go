package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fastfit/internal/services"
)

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("parse: %w", services.ErrInvalidTimeFormat), fiber.StatusBadRequest, "invalid_time_format"},
		{services.ErrInvalidWindow, fiber.StatusBadRequest, "invalid_window"},
		{services.ErrPlanChangeRejected, fiber.StatusConflict, "plan_change_rejected"},
		{services.ErrExerciseOutOfOrder, fiber.StatusConflict, "exercise_out_of_order"},
		{services.ErrEmptyCatalogSelection, fiber.StatusUnprocessableEntity, "empty_catalog"},
		{errors.New("disk on fire"), fiber.StatusInternalServerError, "internal"},
	}

	for _, testCase := range tests {
		status, code := classifyError(testCase.err)
		if status != testCase.status || code != testCase.code {
			t.Fatalf("classifyError(%v) = (%d, %q), want (%d, %q)", testCase.err, status, code, testCase.status, testCase.code)
		}
	}
}
