package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fastfit/internal/services"
)

func (handler *Handler) GetProfile(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	return c.JSON(newUserPayload(*user))
}

func (handler *Handler) UpdateProfile(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	var input services.ProfileInput
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "invalid_input")
	}
	updated, err := handler.auth.UpdateProfile(user.ID, input)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(newUserPayload(updated))
}

func (handler *Handler) DeleteProfile(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	if err := handler.auth.DeleteAccount(user.ID); err != nil {
		return handler.respondError(c, err)
	}
	handler.clearAuthCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}
