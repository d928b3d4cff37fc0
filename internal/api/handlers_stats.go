package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) GetStats(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	days := c.QueryInt("days", 0)
	if days < 0 {
		return handler.apiError(c, fiber.StatusBadRequest, "invalid_input")
	}
	summary, err := handler.stats.BuildSummary(c.UserContext(), user.ID, days, handler.now(), handler.userLocation(c))
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(summary)
}
