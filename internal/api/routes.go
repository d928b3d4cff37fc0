package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api", handler.RequestContext, handler.LanguageMiddleware)
	api.Post("/lang/:lang", handler.SetLanguage)

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Post("/change-password", handler.AuthRequired, handler.ChangePassword)

	profile := api.Group("/profile", handler.AuthRequired)
	profile.Get("", handler.GetProfile)
	profile.Put("", handler.UpdateProfile)
	profile.Delete("", handler.DeleteProfile)

	fasting := api.Group("/fasting", handler.AuthRequired)
	fasting.Get("/protocols", handler.ListProtocols)
	fasting.Get("/status", handler.GetFastingStatus)
	fasting.Put("/plan", handler.UpdateFastingPlan)
	fasting.Post("/start", handler.StartFasting)
	fasting.Post("/eat", handler.StartEating)
	fasting.Post("/break", handler.BreakFast)
	fasting.Post("/complete", handler.CompleteCycle)
	fasting.Get("/history", handler.GetFastingHistory)

	workouts := api.Group("/workouts", handler.AuthRequired)
	workouts.Get("/today", handler.GetTodayWorkout)
	workouts.Get("/today/progress", handler.GetWorkoutProgress)
	workouts.Post("/today/exercises/:index/complete", handler.CompleteExercise)
	workouts.Get("/day/:day", handler.GetWorkoutForDay)

	api.Get("/exercises", handler.AuthRequired, handler.ListExercises)
	api.Get("/stats", handler.AuthRequired, handler.GetStats)

	export := api.Group("/export", handler.AuthRequired)
	export.Get("/summary", handler.ExportSummary)
	export.Get("/json", handler.ExportJSON)
	export.Get("/csv", handler.ExportCSV)

	admin := api.Group("/admin", handler.AuthRequired, handler.AdminOnly)
	admin.Post("/exercises", handler.CreateExercise)
	admin.Patch("/exercises/:id", handler.OverrideExercise)
	admin.Delete("/exercises/:id/override", handler.ClearExerciseOverride)
	admin.Put("/users/:id/fasting-window", handler.SetUserFastingWindow)

	app.Use(handler.NotFound)
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
