package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/terraincognita07/fastfit/internal/api"
	"github.com/terraincognita07/fastfit/internal/cli"
	"github.com/terraincognita07/fastfit/internal/config"
	"github.com/terraincognita07/fastfit/internal/db"
	"github.com/terraincognita07/fastfit/internal/events"
	"github.com/terraincognita07/fastfit/internal/i18n"
	"github.com/terraincognita07/fastfit/internal/logging"
	"github.com/terraincognita07/fastfit/internal/services"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var errUsage = errors.New("usage: fastfit [serve | reconcile | reset-password <email>]")

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	command := "serve"
	if len(args) > 0 {
		command = args[0]
	}

	switch command {
	case "serve":
		return serve(ctx)
	case "reconcile":
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := logging.New(os.Stderr, cfg.LogFormat, logging.ParseLevel(cfg.LogLevel))
		return cli.RunReconcileCommand(ctx, cfg.DBPath, logger, cfg.Location, cfg.DefaultEatingStart, os.Stdout)
	case "reset-password":
		if len(args) != 2 {
			return errUsage
		}
		return cli.RunResetPasswordCommand(config.DatabasePath(), args[1], os.Stdin, os.Stdout)
	default:
		return errUsage
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	time.Local = cfg.Location
	logger := logging.New(os.Stdout, cfg.LogFormat, logging.ParseLevel(cfg.LogLevel))

	database, err := db.OpenSQLite(cfg.DBPath, logger)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	repos := db.NewRepositories(database)

	catalog := services.NewCatalogService(repos.Exercises, logger)
	if err := catalog.SeedDefaults(); err != nil {
		return fmt.Errorf("seed exercise catalog: %w", err)
	}

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("event publisher close failed", slog.String("error", err.Error()))
		}
	}()

	fasting := services.NewFastingService(services.NewFastingStateStore(repos.FastingStates), publisher, logger, cfg.DefaultEatingStart)
	workouts := services.NewWorkoutService(repos.Users, repos.WorkoutLogs, catalog, fasting, logger)
	reconciler := services.NewReconcileService(repos.Users, fasting, cfg.Location, cfg.ReconcileInterval, logger)

	i18nManager, err := i18n.NewEmbeddedManager(cfg.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("i18n init failed: %w", err)
	}

	handler, err := api.NewHandler(api.Dependencies{
		Auth:         services.NewAuthService(repos.Users),
		Fasting:      fasting,
		Workouts:     workouts,
		Catalog:      catalog,
		Export:       services.NewExportService(fasting, repos.WorkoutLogs),
		Stats:        services.NewStatsService(fasting, repos.WorkoutLogs),
		I18n:         i18nManager,
		Logger:       logger,
		SecretKey:    cfg.SecretKey,
		Location:     cfg.Location,
		CookieSecure: cfg.CookieSecure,
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	app := newServerApp(handler)

	if _, err := reconciler.ReconcileAll(ctx); err != nil {
		logger.Warn("initial reconcile failed", slog.String("error", err.Error()))
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("fastfit listening",
			slog.String("port", cfg.Port),
			slog.String("db", cfg.DBPath),
			slog.String("tz", cfg.Location.String()),
		)
		return app.Listen(":" + cfg.Port)
	})
	group.Go(func() error {
		return reconciler.Run(groupCtx)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("fastfit stopped")
	return nil
}

func newServerApp(handler *api.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "FastFit",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)
	return app
}
