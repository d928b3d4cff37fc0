package api

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fastfit/internal/models"
	"github.com/terraincognita07/fastfit/internal/services"
)

type credentialsInput struct {
	Email       string `json:"email" form:"email"`
	Password    string `json:"password" form:"password"`
	DisplayName string `json:"displayName" form:"display_name"`
}

type changePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

type userPayload struct {
	ID               uint    `json:"id"`
	Email            string  `json:"email"`
	Role             string  `json:"role"`
	DisplayName      string  `json:"displayName"`
	Difficulty       string  `json:"difficulty"`
	ActivityLevel    string  `json:"activityLevel"`
	WeightKg         float64 `json:"weightKg"`
	HeightCm         float64 `json:"heightCm"`
	Timezone         string  `json:"timezone"`
	ProgramStartDate string  `json:"programStartDate"`
	AutoTransitions  bool    `json:"autoTransitions"`
}

func newUserPayload(user models.User) userPayload {
	return userPayload{
		ID:               user.ID,
		Email:            user.Email,
		Role:             user.Role,
		DisplayName:      user.DisplayName,
		Difficulty:       user.Difficulty,
		ActivityLevel:    user.ActivityLevel,
		WeightKg:         user.WeightKg,
		HeightCm:         user.HeightCm,
		Timezone:         user.Timezone,
		ProgramStartDate: user.ProgramStartDate,
		AutoTransitions:  user.AutoTransitions,
	}
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	var input credentialsInput
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "invalid_input")
	}

	user, err := handler.auth.Register(input.Email, input.Password, input.DisplayName)
	if err != nil {
		return handler.respondError(c, err)
	}
	handler.logger.InfoContext(c.UserContext(), "user registered",
		slog.Uint64("user_id", uint64(user.ID)),
		slog.String("role", user.Role),
	)
	return handler.respondWithToken(c, fiber.StatusCreated, user)
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	var input credentialsInput
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "invalid_input")
	}

	limiterKey := loginLimiterKey(c, services.NormalizeAuthEmail(input.Email))
	now := handler.now()
	if wait := handler.loginLimiter.retryAfter(limiterKey, now); wait > 0 {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(wait.Round(time.Second).Seconds())))
		return handler.apiError(c, fiber.StatusTooManyRequests, "too_many_login_attempts")
	}

	user, err := handler.auth.Authenticate(input.Email, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrAuthCredentialsInvalid) {
			handler.loginLimiter.addFailure(limiterKey, now)
		}
		return handler.respondError(c, err)
	}
	handler.loginLimiter.reset(limiterKey)
	return handler.respondWithToken(c, fiber.StatusOK, user)
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	var input changePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "invalid_input")
	}
	if err := handler.auth.ChangePassword(user.ID, input.CurrentPassword, input.NewPassword); err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) SetLanguage(c *fiber.Ctx) error {
	language := handler.i18n.NormalizeLanguage(c.Params("lang"))
	handler.setLanguageCookie(c, language)
	return c.JSON(fiber.Map{"language": language})
}

func (handler *Handler) respondWithToken(c *fiber.Ctx, status int, user models.User) error {
	token, err := handler.buildToken(&user, authTokenTTL)
	if err != nil {
		return handler.respondError(c, err)
	}
	handler.setAuthCookie(c, token)
	return c.Status(status).JSON(authResponse{Token: token, User: newUserPayload(user)})
}
