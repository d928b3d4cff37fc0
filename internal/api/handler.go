package api

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fastfit/internal/i18n"
	"github.com/terraincognita07/fastfit/internal/models"
	"github.com/terraincognita07/fastfit/internal/services"
)

const (
	authCookieName     = "fastfit_auth"
	languageCookieName = "fastfit_lang"
	contextUserKey     = "current_user"
	contextLanguageKey = "current_language"

	authTokenTTL        = 7 * 24 * time.Hour
	loginAttemptLimit   = 8
	loginAttemptsWindow = 15 * time.Minute
)

type Dependencies struct {
	Auth      *services.AuthService
	Fasting   *services.FastingService
	Workouts  *services.WorkoutService
	Catalog   *services.CatalogService
	Export    *services.ExportService
	Stats     *services.StatsService
	I18n      *i18n.Manager
	Logger    *slog.Logger
	SecretKey string
	Location  *time.Location
	// CookieSecure marks auth and language cookies Secure.
	CookieSecure bool
}

type Handler struct {
	auth         *services.AuthService
	fasting      *services.FastingService
	workouts     *services.WorkoutService
	catalog      *services.CatalogService
	export       *services.ExportService
	stats        *services.StatsService
	i18n         *i18n.Manager
	logger       *slog.Logger
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	loginLimiter *attemptLimiter
	now          func() time.Time
}

func NewHandler(deps Dependencies) (*Handler, error) {
	switch {
	case deps.Auth == nil, deps.Fasting == nil, deps.Workouts == nil, deps.Catalog == nil,
		deps.Export == nil, deps.Stats == nil:
		return nil, errors.New("api services are required")
	case deps.I18n == nil:
		return nil, errors.New("i18n manager is required")
	case deps.SecretKey == "":
		return nil, errors.New("secret key is required")
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	return &Handler{
		auth:         deps.Auth,
		fasting:      deps.Fasting,
		workouts:     deps.Workouts,
		catalog:      deps.Catalog,
		export:       deps.Export,
		stats:        deps.Stats,
		i18n:         deps.I18n,
		logger:       deps.Logger,
		secretKey:    []byte(deps.SecretKey),
		location:     deps.Location,
		cookieSecure: deps.CookieSecure,
		loginLimiter: newAttemptLimiter(loginAttemptLimit, loginAttemptsWindow),
		now:          time.Now,
	}, nil
}

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok
}

func currentLanguage(c *fiber.Ctx) string {
	language, _ := c.Locals(contextLanguageKey).(string)
	return language
}

// userLocation is the timezone all day keys of the current user are computed in.
func (handler *Handler) userLocation(c *fiber.Ctx) *time.Location {
	user, ok := currentUser(c)
	if !ok {
		return handler.location
	}
	return services.UserLocation(*user, handler.location)
}
